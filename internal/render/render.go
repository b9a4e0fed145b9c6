// Package render turns a finished payload into a scannable QR code.
package render

import (
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG width and height in pixels.
const DefaultSize = 256

// PNG encodes payload as a PNG QR code with medium error correction.
func PNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("payload is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}

// Terminal writes payload as a QR code drawn with half blocks.
func Terminal(w io.Writer, payload string) {
	qrterminal.GenerateHalfBlock(payload, qrterminal.M, w)
}
