package device

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var ErrUndecodableFrame = errors.New("frame is not a decodable image")

// QRDetector extracts the text of a QR code from an encoded camera frame.
// Not safe for concurrent use.
type QRDetector struct {
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewQRDetector creates a QR detector
func NewQRDetector() *QRDetector {
	return &QRDetector{
		reader: qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Detect returns the decoded text, or "" when the frame holds no readable code.
func (d *QRDetector) Detect(frame []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodableFrame, err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodableFrame, err)
	}

	result, err := d.reader.Decode(bmp, d.hints)
	if err != nil {
		// not found, checksum and format failures all mean nothing usable in view
		return "", nil
	}
	return result.GetText(), nil
}
