// Package avatar normalizes uploaded profile images to a fixed-size PNG.
package avatar

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const avatarSize = 250

type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Normalize decodes any supported image format, crops/scales it to a
// 250x250 square and re-encodes it as PNG.
func (p *Processor) Normalize(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
