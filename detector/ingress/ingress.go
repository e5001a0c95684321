/*
DESCRIPTION
  ingress.go converts the three supported input shapes — on-disk image,
  packed BGRA buffer, and tri-planar YUV camera frame — into a contiguous
  3-channel BGR gocv.Mat in original orientation, which is the common
  currency the preprocessor consumes.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package ingress converts on-disk images, packed BGRA buffers and
// tri-planar YUV camera frames into a common 3-channel BGR image.
package ingress

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Image is a contiguous 3-channel BGR 8-bit image in original
// orientation (post-rotation for YUV input), wrapping a gocv.Mat.
type Image struct {
	Mat gocv.Mat
}

// Close releases the underlying Mat. Callers must call Close when done.
func (img Image) Close() error {
	return img.Mat.Close()
}

// Width returns the image width in pixels.
func (img Image) Width() int { return img.Mat.Cols() }

// Height returns the image height in pixels.
func (img Image) Height() int { return img.Mat.Rows() }

// FromPath reads and decodes an on-disk image to BGR with gocv.IMRead.
// Returns an error naming path if the file cannot be read or decoded
// (IMRead reports no further cause); callers should report
// IMAGE_LOAD_FAILED for any error from this function.
func FromPath(path string) (Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return Image{}, fmt.Errorf("ingress: could not read or decode image at %q", path)
	}
	return Image{Mat: mat}, nil
}

// FromBGRA wraps a packed BGRA buffer of the given width/height/stride
// (bytes between row starts, >= width*4) as a non-owning view and
// converts it to 3-channel BGR, discarding the alpha channel. buf is
// borrowed for the duration of this call only; the returned Image owns
// its own copy of the pixel data.
func FromBGRA(buf []byte, width, height, stride int) (Image, error) {
	if width <= 0 || height <= 0 {
		return Image{}, fmt.Errorf("ingress: invalid dimensions %dx%d", width, height)
	}
	if stride < width*4 {
		return Image{}, fmt.Errorf("ingress: stride %d smaller than width*4 (%d)", stride, width*4)
	}

	bgra, err := wrapPlane(buf, width, height, stride, 4, gocv.MatTypeCV8UC4)
	if err != nil {
		return Image{}, fmt.Errorf("ingress: wrapping BGRA buffer: %w", err)
	}
	defer bgra.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(bgra, &bgr, gocv.ColorBGRAToBGR)

	return Image{Mat: bgr}, nil
}

// wrapPlane builds a tightly-packed (stride == width*bytesPerPixel) Mat
// from a possibly loosely-strided source buffer, copying row by row
// whenever stride != width*bytesPerPixel, per spec.md §4.1's
// "row-stride != width requires row-by-row copies" rule.
func wrapPlane(buf []byte, width, height, stride, bytesPerPixel int, matType gocv.MatType) (gocv.Mat, error) {
	rowBytes := width * bytesPerPixel
	if stride == rowBytes {
		mat, err := gocv.NewMatFromBytes(height, width, matType, buf[:height*stride])
		if err != nil {
			return gocv.Mat{}, err
		}
		return mat, nil
	}

	packed := make([]byte, height*rowBytes)
	for y := 0; y < height; y++ {
		srcOff := y * stride
		copy(packed[y*rowBytes:(y+1)*rowBytes], buf[srcOff:srcOff+rowBytes])
	}
	return gocv.NewMatFromBytes(height, width, matType, packed)
}
