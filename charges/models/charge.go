package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	ChargeStatusActive  ChargeStatus = "ACTIVE"
	ChargeStatusExpired ChargeStatus = "EXPIRED"
)

// Charge is an issued payment request and the BR Code payload encoding it.
type Charge struct {
	ID           string          `json:"id"`
	PixKey       string          `json:"pix_key"`
	Description  string          `json:"description"`
	MerchantName string          `json:"merchant_name"`
	MerchantCity string          `json:"merchant_city"`
	TxID         string          `json:"txid"`
	Amount       decimal.Decimal `json:"amount"`
	Payload      string          `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Status       ChargeStatus    `json:"status"`
}

// CreateCharge is the request to issue a charge or build a bare payload.
// Amount is decimal text, e.g. "120" or "12.50".
type CreateCharge struct {
	PixKey       string `json:"pix_key"`
	Description  string `json:"description"`
	MerchantName string `json:"merchant_name"`
	MerchantCity string `json:"merchant_city"`
	TxID         string `json:"txid"`
	Amount       string `json:"amount"`
	// TTLSeconds overrides the configured charge lifetime when > 0
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}

type Payload struct {
	Payload string `json:"payload"`
}
