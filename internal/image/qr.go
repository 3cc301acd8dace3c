package imagepkg

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	MinQRSize     = 64
	MaxQRSize     = 1024
)

// ClampQRSize keeps a requested QR size within [MinQRSize, MaxQRSize];
// zero or negative selects DefaultQRSize.
func ClampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// ShareQR returns a PNG QR code for a share link or product text.
func ShareQR(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("qr: empty text")
	}
	png, err := qrcode.Encode(text, qrcode.Medium, ClampQRSize(size))
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	return png, nil
}
