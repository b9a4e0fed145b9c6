package charges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alovak/pixflow-playground/brcode"
	"github.com/alovak/pixflow-playground/charges/models"
	"github.com/alovak/pixflow-playground/internal/expiry"
	"github.com/alovak/pixflow-playground/internal/pixkey"
	"github.com/alovak/pixflow-playground/internal/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrExpired        = errors.New("charge expired")
)

// defaultTxID marks a charge without a transaction id.
const defaultTxID = "***"

type Service struct {
	repo   *Repository
	cfg    *Config
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger, repo *Repository, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// BuildPayload returns the BR Code payload for req without storing anything.
func (s *Service) BuildPayload(req models.CreateCharge) (string, error) {
	b, err := s.builder(req)
	if err != nil {
		return "", err
	}
	payload, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return payload, nil
}

func (s *Service) CreateCharge(ctx context.Context, req models.CreateCharge) (*models.Charge, error) {
	b, err := s.builder(req)
	if err != nil {
		return nil, err
	}
	payload, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	ttl := s.cfg.ChargeTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}
	now := s.now()

	charge := &models.Charge{
		PixKey:       b.PixKey(),
		Description:  b.Description(),
		MerchantName: b.MerchantName(),
		MerchantCity: b.MerchantCity(),
		TxID:         b.TxID(),
		Amount:       b.AmountFormat(),
		Payload:      payload,
		CreatedAt:    now,
		ExpiresAt:    expiry.ExpiresAt(now, ttl),
		Status:       models.ChargeStatusActive,
	}

	// Create charge with retry on id collision
	for attempt := 0; attempt < 3; attempt++ {
		charge.ID = uuid.New().String()
		err = s.repo.CreateCharge(ctx, charge)
		if err == nil {
			s.logger.Info("charge created",
				slog.String("charge_id", charge.ID),
				slog.String("pix_key", pixkey.Mask(charge.PixKey)),
				slog.String("amount", b.AmountString()),
			)
			return charge, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("creating charge: %w", err)
		}
	}
	return nil, fmt.Errorf("could not create charge after retries: %w", err)
}

func (s *Service) GetCharge(ctx context.Context, id string) (*models.Charge, error) {
	charge, err := s.repo.GetCharge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding charge: %w", err)
	}
	s.setStatus(charge)
	return charge, nil
}

func (s *Service) ListCharges(ctx context.Context, limit int) ([]*models.Charge, error) {
	list, err := s.repo.ListCharges(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}
	for _, c := range list {
		s.setStatus(c)
	}
	return list, nil
}

// QRCode renders the payload of an active charge as PNG.
func (s *Service) QRCode(ctx context.Context, id string) ([]byte, error) {
	charge, err := s.GetCharge(ctx, id)
	if err != nil {
		return nil, err
	}
	if charge.Status == models.ChargeStatusExpired {
		return nil, fmt.Errorf("charge %s: %w", id, ErrExpired)
	}
	return render.PNG(charge.Payload, s.cfg.QRCodeSize)
}

func (s *Service) builder(req models.CreateCharge) (*brcode.Builder, error) {
	if req.Amount == "" {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidRequest)
	}
	if s.cfg.StrictKeys {
		if err := pixkey.Validate(req.PixKey); err != nil {
			return nil, fmt.Errorf("%w: pix key: %v", ErrInvalidRequest, err)
		}
	}

	txID := req.TxID
	if txID == "" {
		txID = defaultTxID
	}

	b := brcode.NewBuilder(brcode.WithDescriptionMaxLen(s.cfg.DescriptionMaxLen)).
		SetPixKey(req.PixKey).
		SetDescription(req.Description).
		SetMerchantName(req.MerchantName).
		SetMerchantCity(req.MerchantCity).
		SetTxID(txID).
		SetAmountString(req.Amount)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if s.cfg.StrictKeys {
		if err := brcode.Validate(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	return b, nil
}

func (s *Service) setStatus(c *models.Charge) {
	c.Status = models.ChargeStatusActive
	if expiry.IsExpired(c.ExpiresAt, s.now()) {
		c.Status = models.ChargeStatusExpired
	}
}
