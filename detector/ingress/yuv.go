/*
DESCRIPTION
  yuv.go assembles a tri-planar YUV 4:2:0 camera frame (separate or
  interleaved chroma, arbitrary row strides) into NV21, converts it to
  BGR, and applies any input-side rotation. This is the most arithmetic-
  heavy leaf of ingress: it must reproduce the exact plane layout and
  in-memory chroma order detection spec.md §4.1 requires.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package ingress

import (
	"fmt"
	"unsafe"

	"gocv.io/x/gocv"
)

// YUVPlanes describes a tri-planar YUV 4:2:0 camera frame, as supplied by
// a host's camera capture layer.
type YUVPlanes struct {
	Y, U, V       []byte
	YRowStride    int
	URowStride    int
	VRowStride    int
	Width, Height int
	UVPixelStride int // 1 = planar (separate U,V), 2 = semi-planar (interleaved)
	Rotation      int // degrees clockwise: 0, 90, 180 or 270; any other value is treated as 0 (spec.md §9)
}

// FromYUV assembles planes into NV21, converts to BGR, and rotates
// clockwise by Rotation degrees. The returned Image's dimensions are the
// post-rotation dimensions, per spec.md §4.1.
func FromYUV(p YUVPlanes) (Image, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return Image{}, fmt.Errorf("ingress: invalid dimensions %dx%d", p.Width, p.Height)
	}
	if p.UVPixelStride != 1 && p.UVPixelStride != 2 {
		return Image{}, fmt.Errorf("ingress: invalid uv_pixel_stride %d, want 1 or 2", p.UVPixelStride)
	}

	nv21, err := assembleNV21(p)
	if err != nil {
		return Image{}, fmt.Errorf("ingress: assembling NV21: %w", err)
	}

	nv21Mat, err := gocv.NewMatFromBytes(p.Height+p.Height/2, p.Width, gocv.MatTypeCV8UC1, nv21)
	if err != nil {
		return Image{}, fmt.Errorf("ingress: wrapping NV21 buffer: %w", err)
	}
	defer nv21Mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(nv21Mat, &bgr, gocv.ColorYUVToBGRNV21)

	rotated := rotate(bgr, normalizeRotation(p.Rotation))
	if rotated.Ptr() != bgr.Ptr() {
		bgr.Close()
	}

	return Image{Mat: rotated}, nil
}

// normalizeRotation maps any rotation value outside {0,90,180,270} to 0,
// per spec.md §9's "ambiguous source behaviors to preserve as-is".
func normalizeRotation(deg int) int {
	switch deg {
	case 90, 180, 270:
		return deg
	default:
		return 0
	}
}

// rotate rotates a BGR Mat clockwise by deg degrees (0, 90, 180, 270).
// deg==0 returns img unchanged (same underlying Mat, not a copy).
func rotate(img gocv.Mat, deg int) gocv.Mat {
	if deg == 0 {
		return img
	}
	out := gocv.NewMat()
	switch deg {
	case 90:
		gocv.Rotate(img, &out, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(img, &out, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(img, &out, gocv.Rotate90CounterClockwise)
	}
	return out
}

// assembleNV21 builds an NV21 buffer (full-res Y plane followed by a
// half-res VU-interleaved chroma plane) from the source planes, per
// spec.md §4.1's assembly rules.
func assembleNV21(p YUVPlanes) ([]byte, error) {
	w, h := p.Width, p.Height
	chromaW, chromaH := w/2, h/2
	out := make([]byte, w*h+2*chromaW*chromaH)

	copyPlane(out[:w*h], p.Y, w, h, p.YRowStride)

	chroma := out[w*h:]

	if p.UVPixelStride == 1 {
		assemblePlanarChroma(chroma, p, chromaW, chromaH)
		return out, nil
	}

	assembleSemiPlanarChroma(chroma, p, chromaW, chromaH)
	return out, nil
}

// copyPlane copies a w x h 8-bit plane from src (with the given row
// stride) into a tightly packed dst, row by row whenever stride != w.
func copyPlane(dst, src []byte, w, h, rowStride int) {
	if rowStride == w {
		copy(dst, src[:w*h])
		return
	}
	for y := 0; y < h; y++ {
		copy(dst[y*w:(y+1)*w], src[y*rowStride:y*rowStride+w])
	}
}

// assemblePlanarChroma handles uv_pixel_stride==1 (separate U, V planes):
// write V then U for every chroma site, per spec.md §4.1.
func assemblePlanarChroma(dst []byte, p YUVPlanes, chromaW, chromaH int) {
	for row := 0; row < chromaH; row++ {
		for col := 0; col < chromaW; col++ {
			srcIdx := row*p.VRowStride + col
			dst[(row*chromaW+col)*2+0] = p.V[srcIdx]
			dst[(row*chromaW+col)*2+1] = p.U[srcIdx]
		}
	}
}

// assembleSemiPlanarChroma handles uv_pixel_stride==2 (interleaved
// chroma). The in-memory order is detected by comparing the V and U
// slice base addresses: if V's address is lower than U's, the buffer is
// already VU-interleaved and is copied row by row; otherwise it is
// UV-interleaved and pairs must be swapped into VU order.
func assembleSemiPlanarChroma(dst []byte, p YUVPlanes, chromaW, chromaH int) {
	if len(p.V) > 0 && len(p.U) > 0 && addressOf(p.V) < addressOf(p.U) {
		// Already VU-interleaved: copy row by row honoring uv_row_stride.
		for row := 0; row < chromaH; row++ {
			srcOff := row * p.VRowStride
			copy(dst[row*chromaW*2:(row+1)*chromaW*2], p.V[srcOff:srcOff+chromaW*2])
		}
		return
	}

	// UV-interleaved: swap pairs into VU order.
	for row := 0; row < chromaH; row++ {
		srcOff := row * p.URowStride
		for col := 0; col < chromaW; col++ {
			u := p.U[srcOff+col*2+0]
			v := p.U[srcOff+col*2+1]
			dstIdx := (row*chromaW + col) * 2
			dst[dstIdx+0] = v
			dst[dstIdx+1] = u
		}
	}
}

// addressOf returns the base address of a byte slice's backing array,
// used only to detect in-memory interleave order per spec.md §4.1 — it
// never dereferences or mutates through the returned value.
func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
