package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/avdeyev/burnscan/internal/models"
)

// encodePNG renders a solid-color image as PNG bytes.
func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode returned error: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_Shape(t *testing.T) {
	n := NewNormalizer()

	raw := encodePNG(t, 100, 60, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	tensor, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if tensor.Batch != 1 {
		t.Errorf("Batch = %d; want 1", tensor.Batch)
	}
	if tensor.Height != TargetHeight || tensor.Width != TargetWidth {
		t.Errorf("resolution = %dx%d; want %dx%d", tensor.Width, tensor.Height, TargetWidth, TargetHeight)
	}
	if tensor.Channels != Channels {
		t.Errorf("Channels = %d; want %d", tensor.Channels, Channels)
	}
	if got, want := len(tensor.Data), TargetHeight*TargetWidth*Channels; got != want {
		t.Errorf("len(Data) = %d; want %d", got, want)
	}
}

func TestNormalize_ValueRange(t *testing.T) {
	n := NewNormalizer()

	raw := encodePNG(t, 32, 32, color.RGBA{R: 255, G: 0, B: 128, A: 255})
	tensor, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	for i, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("Data[%d] = %f; want value in [0,1]", i, v)
		}
	}

	// A solid image stays solid after resize: check one interior pixel.
	r := tensor.At(0, TargetHeight/2, TargetWidth/2, 0)
	if r < 0.99 {
		t.Errorf("red channel = %f; want ~1.0 for a solid red-channel image", r)
	}
	g := tensor.At(0, TargetHeight/2, TargetWidth/2, 1)
	if g > 0.01 {
		t.Errorf("green channel = %f; want ~0.0", g)
	}
}

func TestNormalize_UnsupportedFormat(t *testing.T) {
	n := NewNormalizer()

	for _, raw := range [][]byte{nil, []byte("not an image"), {0xff, 0x00, 0x01}} {
		_, err := n.Normalize(raw)
		if !errors.Is(err, models.ErrUnsupportedFormat) {
			t.Errorf("Normalize(%q) error = %v; want ErrUnsupportedFormat", raw, err)
		}
	}
}
