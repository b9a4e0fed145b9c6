package brcode

// Top-level field IDs of a BR Code payload.
const (
	TagPayloadFormatIndicator = "00"
	TagMerchantAccountInfo    = "26"
	TagMerchantCategoryCode   = "52"
	TagTransactionCurrency    = "53"
	TagTransactionAmount      = "54"
	TagCountryCode            = "58"
	TagMerchantName           = "59"
	TagMerchantCity           = "60"
	TagAdditionalDataField    = "62"
	TagCRC16                  = "63"
)

// Nested IDs inside the merchant account information (26).
const (
	TagMerchantAccountGUI         = "00"
	TagMerchantAccountKey         = "01"
	TagMerchantAccountDescription = "02"
)

// Nested IDs inside the additional data field template (62).
const (
	TagAdditionalDataTxID = "05"
)

// Fixed values.
const (
	PayloadFormatIndicator = "01"
	PixGUI                 = "br.gov.bcb.pix"
	MerchantCategoryCode   = "0000"
	CurrencyBRL            = "986"
	CountryCode            = "BR"
)

// Truncation limits, counted in characters.
const (
	MerchantNameMaxLen = 24
	MerchantCityMaxLen = 14
	TxIDMaxLen         = 7

	// DefaultDescriptionMaxLen is the description limit used unless
	// WithDescriptionMaxLen overrides it. Other published variants use 100.
	DefaultDescriptionMaxLen = 10
)
