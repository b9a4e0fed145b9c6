package brcode

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Builder assembles a BR Code payload from merchant and transaction
// attributes. Setters return the builder so calls can be chained; an
// invalid amount is remembered and reported by Build.
//
// Builder does not check that required attributes are set. A payload built
// without a pix key is structurally valid but useless; see Validate.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	pixKey       string
	description  string
	merchantName string
	merchantCity string
	txID         string
	amount       decimal.Decimal

	descriptionMaxLen int
	err               error
}

// Option configures a Builder.
type Option func(*Builder)

// WithDescriptionMaxLen sets the number of characters kept from the
// description. Values below 1 are ignored.
func WithDescriptionMaxLen(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.descriptionMaxLen = n
		}
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		descriptionMaxLen: DefaultDescriptionMaxLen,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Builder) SetPixKey(key string) *Builder {
	b.pixKey = key
	return b
}

// SetDescription stores the description truncated to the configured
// limit. An empty value leaves the current description untouched.
func (b *Builder) SetDescription(description string) *Builder {
	if description != "" {
		b.description = truncate(description, b.descriptionMaxLen)
	}
	return b
}

func (b *Builder) SetMerchantName(name string) *Builder {
	b.merchantName = truncate(name, MerchantNameMaxLen)
	return b
}

func (b *Builder) SetMerchantCity(city string) *Builder {
	b.merchantCity = truncate(city, MerchantCityMaxLen)
	return b
}

func (b *Builder) SetTxID(txID string) *Builder {
	b.txID = truncate(txID, TxIDMaxLen)
	return b
}

// SetAmount rounds amount half away from zero to two decimal places.
func (b *Builder) SetAmount(amount float64) *Builder {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		b.setErr(fmt.Errorf("%w: %v", ErrInvalidAmount, amount))
		return b
	}
	return b.SetAmountDecimal(decimal.NewFromFloat(amount))
}

// SetAmountString parses a decimal amount such as "12.5" or "120".
func (b *Builder) SetAmountString(amount string) *Builder {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		b.setErr(fmt.Errorf("%w: %q: %v", ErrInvalidAmount, amount, err))
		return b
	}
	return b.SetAmountDecimal(d)
}

func (b *Builder) SetAmountDecimal(amount decimal.Decimal) *Builder {
	if amount.IsNegative() {
		b.setErr(fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount))
		return b
	}
	b.amount = amount.Round(2)
	return b
}

func (b *Builder) PixKey() string { return b.pixKey }
func (b *Builder) Description() string { return b.description }
func (b *Builder) MerchantName() string { return b.merchantName }
func (b *Builder) MerchantCity() string { return b.merchantCity }
func (b *Builder) TxID() string { return b.txID }

// AmountFormat returns the normalized amount.
func (b *Builder) AmountFormat() decimal.Decimal {
	return b.amount
}

// AmountString returns the amount as it appears in the payload, e.g. "120.00".
func (b *Builder) AmountString() string {
	return b.amount.StringFixed(2)
}

// Err returns the first error recorded by a setter.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the payload for the current attributes, terminated by its
// checksum field. It does not modify the builder.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	merchantAccount, err := encodeFields(
		TagMerchantAccountGUI, PixGUI,
		TagMerchantAccountKey, b.pixKey,
		TagMerchantAccountDescription, b.description,
	)
	if err != nil {
		return "", fmt.Errorf("merchant account information: %w", err)
	}

	additionalData, err := EncodeField(TagAdditionalDataTxID, b.txID)
	if err != nil {
		return "", fmt.Errorf("additional data field: %w", err)
	}

	payload, err := encodeFields(
		TagPayloadFormatIndicator, PayloadFormatIndicator,
		TagMerchantAccountInfo, merchantAccount,
		TagMerchantCategoryCode, MerchantCategoryCode,
		TagTransactionCurrency, CurrencyBRL,
		TagTransactionAmount, b.AmountString(),
		TagCountryCode, CountryCode,
		TagMerchantName, b.merchantName,
		TagMerchantCity, b.merchantCity,
		TagAdditionalDataField, additionalData,
	)
	if err != nil {
		return "", err
	}

	return payload + Checksum(payload), nil
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// truncate keeps at most n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
