package charges

import (
	"os"
	"strconv"
	"time"

	"github.com/alovak/pixflow-playground/brcode"
	"github.com/alovak/pixflow-playground/internal/expiry"
)

// Config is a configuration for the charges application
type Config struct {
	HTTPAddr string
	// RepoBackend is "mem" or "pg"; DBDSN is required for "pg".
	RepoBackend string
	DBDSN       string
	// ChargeTTL is the lifetime of a charge when the request sets none.
	ChargeTTL time.Duration
	// ExpiryTZ is an IANA timezone name expiration times are reported in (e.g., "America/Sao_Paulo").
	ExpiryTZ string
	// DescriptionMaxLen is the number of description characters kept in payloads.
	DescriptionMaxLen int
	// StrictKeys enables pix key and required attribute validation.
	StrictKeys bool
	// QRCodeSize is the PNG size in pixels.
	QRCodeSize int
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:          "localhost:9090",
		RepoBackend:       "mem",
		ChargeTTL:         expiry.DefaultTTL,
		ExpiryTZ:          "America/Sao_Paulo",
		DescriptionMaxLen: brcode.DefaultDescriptionMaxLen,
		QRCodeSize:        256,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by environment variables.
// Malformed values keep the default.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.RepoBackend = getenv("REPO_BACKEND", cfg.RepoBackend)
	cfg.DBDSN = getenv("DB_DSN", cfg.DBDSN)
	cfg.ExpiryTZ = getenv("EXPIRY_TZ", cfg.ExpiryTZ)

	if v := os.Getenv("CHARGE_TTL"); v != "" {
		if ttl, err := expiry.ParseTTL(v); err == nil {
			cfg.ChargeTTL = ttl
		}
	}
	if v, err := strconv.Atoi(os.Getenv("DESCRIPTION_MAX_LEN")); err == nil && v > 0 {
		cfg.DescriptionMaxLen = v
	}
	if v, err := strconv.ParseBool(os.Getenv("STRICT_KEYS")); err == nil {
		cfg.StrictKeys = v
	}
	if v, err := strconv.Atoi(os.Getenv("QRCODE_SIZE")); err == nil && v > 0 {
		cfg.QRCodeSize = v
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
