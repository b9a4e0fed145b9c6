package charges

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alovak/pixflow-playground/brcode"
	"github.com/alovak/pixflow-playground/charges/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const demoPayload = "00020126450014br.gov.bcb.pix0109chave-pix0210venda de s5204000053039865406120.005802BR5915Fulano da Silva600062110507000.0006304060F"

func demoRequest() models.CreateCharge {
	return models.CreateCharge{
		PixKey:       "chave-pix",
		Description:  "venda de sapato",
		MerchantName: "Fulano da Silva",
		MerchantCity: "",
		TxID:         "000.000.000-00",
		Amount:       "120",
	}
}

func newTestService(cfg *Config) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, NewRepository(), cfg)
}

func TestService_BuildPayload(t *testing.T) {
	svc := newTestService(nil)

	payload, err := svc.BuildPayload(demoRequest())
	require.NoError(t, err)
	require.Equal(t, demoPayload, payload)
}

func TestService_BuildPayload_DefaultTxID(t *testing.T) {
	svc := newTestService(nil)
	req := demoRequest()
	req.TxID = ""

	payload, err := svc.BuildPayload(req)
	require.NoError(t, err)
	require.Contains(t, payload, "62070503***")
}

func TestService_BuildPayload_Invalid(t *testing.T) {
	svc := newTestService(nil)

	req := demoRequest()
	req.Amount = ""
	_, err := svc.BuildPayload(req)
	require.ErrorIs(t, err, ErrInvalidRequest)

	req.Amount = "-3"
	_, err = svc.BuildPayload(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorIs(t, err, brcode.ErrInvalidAmount)

	req = demoRequest()
	req.PixKey = strings.Repeat("k", 90)
	_, err = svc.BuildPayload(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorIs(t, err, brcode.ErrFieldTooLong)
}

func TestService_StrictKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictKeys = true
	svc := newTestService(cfg)

	_, err := svc.BuildPayload(demoRequest())
	require.ErrorIs(t, err, ErrInvalidRequest)

	req := demoRequest()
	req.PixKey = "fulano@example.com"
	_, err = svc.BuildPayload(req)
	require.NoError(t, err)

	req.MerchantName = ""
	_, err = svc.BuildPayload(req)
	require.ErrorIs(t, err, brcode.ErrMissingAttribute)
}

func TestService_CreateAndGetCharge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChargeTTL = time.Hour
	svc := newTestService(cfg)

	now := time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	charge, err := svc.CreateCharge(ctx, demoRequest())
	require.NoError(t, err)
	require.NotEmpty(t, charge.ID)
	require.Equal(t, demoPayload, charge.Payload)
	require.Equal(t, "venda de s", charge.Description)
	require.Equal(t, "000.000", charge.TxID)
	require.Equal(t, "120.00", charge.Amount.StringFixed(2))
	require.True(t, charge.ExpiresAt.Equal(now.Add(time.Hour)))
	require.Equal(t, models.ChargeStatusActive, charge.Status)

	got, err := svc.GetCharge(ctx, charge.ID)
	require.NoError(t, err)
	require.Equal(t, charge.Payload, got.Payload)
	require.Equal(t, models.ChargeStatusActive, got.Status)

	png, err := svc.QRCode(ctx, charge.ID)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// after expiry
	now = now.Add(2 * time.Hour)
	got, err = svc.GetCharge(ctx, charge.ID)
	require.NoError(t, err)
	require.Equal(t, models.ChargeStatusExpired, got.Status)

	_, err = svc.QRCode(ctx, charge.ID)
	require.ErrorIs(t, err, ErrExpired)
}

func TestService_CreateCharge_TTLOverride(t *testing.T) {
	svc := newTestService(nil)
	now := time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	req := demoRequest()
	req.TTLSeconds = 60
	charge, err := svc.CreateCharge(context.Background(), req)
	require.NoError(t, err)
	require.True(t, charge.ExpiresAt.Equal(now.Add(time.Minute)))
}

func TestService_GetCharge_NotFound(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.GetCharge(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListCharges(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	base := time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		c, err := svc.CreateCharge(ctx, demoRequest())
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	list, err := svc.ListCharges(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, ids[2], list[0].ID)
	require.Equal(t, ids[0], list[2].ID)

	list, err = svc.ListCharges(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
