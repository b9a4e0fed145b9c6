package brcode

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	demoPayload     = "00020126450014br.gov.bcb.pix0109chave-pix0210venda de s5204000053039865406120.005802BR5915Fulano da Silva600062110507000.0006304060F"
	demoPayload100  = "00020126500014br.gov.bcb.pix0109chave-pix0215venda de sapato5204000053039865406120.005802BR5915Fulano da Silva600062110507000.0006304F7E5"
	demoDescription = "venda de sapato"
)

func demoBuilder(opts ...Option) *Builder {
	return NewBuilder(opts...).
		SetPixKey("chave-pix").
		SetDescription(demoDescription).
		SetMerchantName("Fulano da Silva").
		SetMerchantCity("").
		SetTxID("000.000.000-00").
		SetAmount(120)
}

func TestBuild_KnownVector(t *testing.T) {
	payload, err := demoBuilder().Build()
	require.NoError(t, err)
	require.Equal(t, demoPayload, payload)
}

func TestBuild_KnownVectorDescription100(t *testing.T) {
	payload, err := demoBuilder(WithDescriptionMaxLen(100)).Build()
	require.NoError(t, err)
	require.Equal(t, demoPayload100, payload)
}

func TestBuild_Idempotent(t *testing.T) {
	b := demoBuilder()
	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuild_Structure(t *testing.T) {
	payload, err := demoBuilder().Build()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(payload, "000201"))
	require.Equal(t, "6304", payload[len(payload)-8:len(payload)-4])

	base := payload[:len(payload)-8]
	require.Equal(t, Checksum(base), payload[len(payload)-8:])

	top := splitFields(t, payload)
	var tags []string
	for _, f := range top {
		tags = append(tags, f.tag)
	}
	require.Equal(t, []string{"00", "26", "52", "53", "54", "58", "59", "60", "62", "63"}, tags)

	account := splitFields(t, top[1].value)
	require.Equal(t, "00", account[0].tag)
	require.Equal(t, PixGUI, account[0].value)
	require.Equal(t, "01", account[1].tag)
	require.Equal(t, "chave-pix", account[1].value)
	require.Equal(t, "02", account[2].tag)
	require.Equal(t, "venda de s", account[2].value)

	additional := splitFields(t, top[8].value)
	require.Len(t, additional, 1)
	require.Equal(t, "05", additional[0].tag)
	require.Equal(t, "000.000", additional[0].value)
}

func TestBuild_UTF8LengthsAreBytes(t *testing.T) {
	payload, err := NewBuilder().
		SetPixKey("chave").
		SetMerchantName("João").
		SetMerchantCity("São Paulo").
		SetAmount(1).
		Build()
	require.NoError(t, err)
	require.Contains(t, payload, "5905João")
	require.Contains(t, payload, "6010São Paulo")
	splitFields(t, payload)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	payload, err := NewBuilder().Build()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(payload, "000201"))
	require.Contains(t, payload, "5404"+"0.00")
	splitFields(t, payload)
}

func TestBuild_KeyTooLong(t *testing.T) {
	_, err := NewBuilder().SetPixKey(strings.Repeat("k", 80)).Build()
	require.ErrorIs(t, err, ErrFieldTooLong)
}

// A 100 character description cannot fit inside the merchant account
// information next to the GUI and key.
func TestBuild_Description100Overflows(t *testing.T) {
	_, err := NewBuilder(WithDescriptionMaxLen(100)).
		SetPixKey("chave-pix").
		SetDescription(strings.Repeat("d", 100)).
		Build()
	require.ErrorIs(t, err, ErrFieldTooLong)
}

func TestTruncation(t *testing.T) {
	long := strings.Repeat("abcdefghij", 3)

	b := NewBuilder().
		SetMerchantName(long).
		SetMerchantCity(long).
		SetTxID(long).
		SetDescription(long)

	require.Equal(t, long[:24], b.MerchantName())
	require.Equal(t, long[:14], b.MerchantCity())
	require.Equal(t, long[:7], b.TxID())
	require.Equal(t, long[:10], b.Description())

	require.Equal(t, "short", NewBuilder().SetMerchantName("short").MerchantName())
}

func TestTruncation_Runes(t *testing.T) {
	b := NewBuilder().SetMerchantName(strings.Repeat("ã", 30))
	require.Equal(t, strings.Repeat("ã", 24), b.MerchantName())
}

func TestDescriptionLimits(t *testing.T) {
	d10 := strings.Repeat("x", 10)
	d11 := strings.Repeat("x", 11)
	d100 := strings.Repeat("y", 100)
	d101 := strings.Repeat("y", 101)

	require.Equal(t, d10, NewBuilder().SetDescription(d10).Description())
	require.Equal(t, d10, NewBuilder().SetDescription(d11).Description())

	opt := WithDescriptionMaxLen(100)
	require.Equal(t, d100, NewBuilder(opt).SetDescription(d100).Description())
	require.Equal(t, d100, NewBuilder(opt).SetDescription(d101).Description())

	// ignored
	require.Equal(t, d10, NewBuilder(WithDescriptionMaxLen(0)).SetDescription(d11).Description())
}

func TestSetDescription_EmptyIsNoop(t *testing.T) {
	b := NewBuilder().SetDescription("pedido 1")
	b.SetDescription("")
	require.Equal(t, "pedido 1", b.Description())
}

func TestSetAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{120, "120.00"},
		{1.005, "1.01"},
		{2.675, "2.68"},
		{0.125, "0.13"},
		{0.1 + 0.2, "0.30"},
		{10.004, "10.00"},
		{0, "0.00"},
		{1234567.891, "1234567.89"},
	}
	for _, c := range cases {
		b := NewBuilder().SetAmount(c.in)
		require.NoError(t, b.Err())
		require.Equal(t, c.want, b.AmountString(), "SetAmount(%v)", c.in)
		require.Equal(t, c.want, b.AmountFormat().StringFixed(2))
	}
}

func TestSetAmountString(t *testing.T) {
	b := NewBuilder().SetAmountString("12.345")
	require.NoError(t, b.Err())
	require.Equal(t, "12.35", b.AmountString())

	b = NewBuilder().SetAmountString("12.344")
	require.Equal(t, "12.34", b.AmountString())

	b = NewBuilder().SetAmountString("abc")
	require.ErrorIs(t, b.Err(), ErrInvalidAmount)
}

func TestSetAmount_Invalid(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		b := NewBuilder().SetAmount(v)
		require.ErrorIs(t, b.Err(), ErrInvalidAmount, "SetAmount(%v)", v)

		_, err := b.Build()
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
}

// The first setter error wins and later valid amounts do not clear it.
func TestSetAmount_StickyError(t *testing.T) {
	b := NewBuilder().SetAmount(-5).SetAmount(10)
	require.ErrorIs(t, b.Err(), ErrInvalidAmount)
	require.Contains(t, b.Err().Error(), "-5")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(demoBuilder()))

	require.ErrorIs(t, Validate(NewBuilder().SetMerchantName("x").SetAmount(1)), ErrMissingAttribute)
	require.ErrorIs(t, Validate(NewBuilder().SetPixKey("k").SetAmount(1)), ErrMissingAttribute)
	require.ErrorIs(t, Validate(NewBuilder().SetPixKey("k").SetMerchantName("x")), ErrMissingAttribute)
	require.ErrorIs(t, Validate(NewBuilder().SetAmount(-1)), ErrInvalidAmount)
}

type tlv struct {
	tag, value string
}

// splitFields walks s as a sequence of TLV fields and fails the test if a
// declared length does not match the data.
func splitFields(t *testing.T, s string) []tlv {
	t.Helper()

	var out []tlv
	for len(s) > 0 {
		require.GreaterOrEqual(t, len(s), 4, "truncated field header in %q", s)
		n, err := strconv.Atoi(s[2:4])
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(s)-4, n, "field %s declares %d bytes", s[:2], n)
		out = append(out, tlv{tag: s[:2], value: s[4 : 4+n]})
		s = s[4+n:]
	}

	return out
}
