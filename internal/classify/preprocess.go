package classify

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	// Register decoders for the formats browsers actually upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Size is a target width x height for model input.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches the 224x224 input layer of the trained classifier.
var DefaultSize = Size{Width: 224, Height: 224}

// rgbaPool recycles the intermediate resize canvas.
var rgbaPool = sync.Pool{
	New: func() any { return new(image.RGBA) },
}

// DecodeImage decodes an uploaded image stream (JPEG/PNG/GIF).
func DecodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	_ = format
	return img, nil
}

// Preprocess converts a decoded image into the tensor the classifier
// expects: bilinear resize to target, pixel values scaled from [0,255] to
// [0,1], three channels, leading batch dimension of 1.
//
// Intermediate buffers are pool-scoped and released on every exit path;
// only the returned tensor escapes, and its release is the caller's
// contract.
func Preprocess(img image.Image, target Size) (t *Tensor, err error) {
	if target.Width <= 0 || target.Height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", target.Width, target.Height)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.New("empty image")
	}

	canvas := rgbaPool.Get().(*image.RGBA)
	defer rgbaPool.Put(canvas)
	n := target.Width * target.Height * 4
	if cap(canvas.Pix) < n {
		canvas.Pix = make([]uint8, n)
	}
	canvas.Pix = canvas.Pix[:n]
	canvas.Stride = target.Width * 4
	canvas.Rect = image.Rect(0, 0, target.Width, target.Height)

	draw.BiLinear.Scale(canvas, canvas.Bounds(), img, bounds, draw.Src, nil)

	t = newTensor(target.Height, target.Width, 3)
	defer func() {
		if err != nil {
			t.Release()
			t = nil
		}
	}()

	for y := 0; y < target.Height; y++ {
		row := canvas.Pix[y*canvas.Stride : y*canvas.Stride+target.Width*4]
		for x := 0; x < target.Width; x++ {
			px := row[x*4 : x*4+4]
			t.set(y, x, 0, float32(px[0])/255)
			t.set(y, x, 1, float32(px[1])/255)
			t.set(y, x, 2, float32(px[2])/255)
		}
	}
	return t, nil
}
