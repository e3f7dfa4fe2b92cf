// Package imaging converts uploaded image bytes into the fixed-size numeric
// tensor expected by the classification model.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/avdeyev/burnscan/internal/models"
	"golang.org/x/image/draw"
)

const (
	// TargetHeight and TargetWidth are the model's expected input resolution.
	TargetHeight = 224
	TargetWidth  = 224
	// Channels is the number of color channels per pixel.
	Channels = 3
)

// Tensor is a single-image batch of normalized pixel values. Data is laid
// out batch-major: [batch][height][width][channel], with channel values
// scaled to [0,1].
type Tensor struct {
	Batch    int
	Height   int
	Width    int
	Channels int
	Data     []float32
}

// At returns the value at the given batch/row/column/channel position.
func (t *Tensor) At(b, y, x, c int) float32 {
	idx := ((b*t.Height+y)*t.Width+x)*t.Channels + c
	return t.Data[idx]
}

// Normalizer decodes and resizes uploads to the model input shape.
type Normalizer struct {
	height int
	width  int
}

// NewNormalizer constructs a Normalizer producing tensors at the model's
// fixed input resolution.
func NewNormalizer() *Normalizer {
	return &Normalizer{height: TargetHeight, width: TargetWidth}
}

// Normalize decodes raw upload bytes as an image, resizes it to the target
// resolution, scales RGB values to [0,1], and packages the result as a
// batch of exactly one. Bytes that cannot be decoded as an image fail with
// models.ErrUnsupportedFormat.
func (n *Normalizer) Normalize(raw []byte) (*Tensor, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnsupportedFormat, err)
	}

	resized := image.NewRGBA(image.Rect(0, 0, n.width, n.height))
	draw.BiLinear.Scale(resized, resized.Bounds(), src, src.Bounds(), draw.Src, nil)

	t := &Tensor{
		Batch:    1,
		Height:   n.height,
		Width:    n.width,
		Channels: Channels,
		Data:     make([]float32, n.height*n.width*Channels),
	}

	i := 0
	for y := 0; y < n.height; y++ {
		for x := 0; x < n.width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// RGBA returns 16-bit values; scale to [0,1].
			t.Data[i] = float32(r) / math.MaxUint16
			t.Data[i+1] = float32(g) / math.MaxUint16
			t.Data[i+2] = float32(b) / math.MaxUint16
			i += Channels
		}
	}
	return t, nil
}
