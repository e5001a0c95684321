/*
DESCRIPTION
  result.go emits the final detection record as self-describing JSON,
  rounding confidence and box coordinates to fixed decimal precision
  before marshaling, and models the caller-owned release discipline
  spec.md §4.7/§5 describe at the Go API level.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package result builds and serializes the final detection record.
package result

import (
	"encoding/json"
	"strconv"
)

// ErrorCode is a symbolic failure tag for a Record that could not
// complete detection.
type ErrorCode string

const (
	// NotInitialized is returned when a detect call is made before Init
	// or after Release.
	NotInitialized ErrorCode = "NOT_INITIALIZED"
	// ImageLoadFailed is returned when the ingress stage could not read
	// or decode the source image.
	ImageLoadFailed ErrorCode = "IMAGE_LOAD_FAILED"
	// RuntimeError is returned for any inference-runtime failure,
	// including a recovered native-boundary panic.
	RuntimeError ErrorCode = "RUNTIME_ERROR"
	// PreprocessError is returned when the preprocessor could not build
	// an input tensor from the source image.
	PreprocessError ErrorCode = "PREPROCESS_ERROR"
	// NullResult is returned when the runtime produced no usable output
	// tensor.
	NullResult ErrorCode = "NULL_RESULT"
)

// Detection is one bounding box with its class and confidence, rounded
// to the precision spec.md §4.7 requires for serialization.
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float32 `json:"confidence"`
	X1         float32 `json:"x1"`
	Y1         float32 `json:"y1"`
	X2         float32 `json:"x2"`
	Y2         float32 `json:"y2"`
}

// Record is the self-describing textual record returned from every
// detect call: either a populated detection list, or an error/code pair
// with an empty list, never both.
type Record struct {
	Detections      []Detection `json:"detections"`
	Count           int         `json:"count"`
	InferenceTimeMs int64       `json:"inference_time_ms"`
	ImageWidth      int         `json:"image_width"`
	ImageHeight     int         `json:"image_height"`
	Error           string      `json:"error,omitempty"`
	Code            ErrorCode   `json:"code,omitempty"`

	json string // cached, lazily rendered serialized form
}

// confidencePrecision and coordinatePrecision are the decimal places
// spec.md §4.7 requires for confidence and box coordinates respectively.
const (
	confidencePrecision = 4
	coordinatePrecision = 2
)

// truncate rounds v to the given number of decimal places via
// strconv.FormatFloat/ParseFloat, matching spec.md §4.7's fixed-precision
// serialization requirement exactly rather than approximating it with
// arithmetic rounding.
func truncate(v float32, precision int) float32 {
	s := strconv.FormatFloat(float64(v), 'f', precision, 32)
	out, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return v
	}
	return float32(out)
}

// New builds a successful Record from a final detection list, rounding
// every detection's confidence and coordinates to the precision §4.7
// requires.
func New(detections []Detection, inferenceTimeMs int64, imageWidth, imageHeight int) *Record {
	rounded := make([]Detection, len(detections))
	for i, d := range detections {
		rounded[i] = Detection{
			ClassID:    d.ClassID,
			ClassName:  d.ClassName,
			Confidence: truncate(d.Confidence, confidencePrecision),
			X1:         truncate(d.X1, coordinatePrecision),
			Y1:         truncate(d.Y1, coordinatePrecision),
			X2:         truncate(d.X2, coordinatePrecision),
			Y2:         truncate(d.Y2, coordinatePrecision),
		}
	}
	return &Record{
		Detections:      rounded,
		Count:           len(rounded),
		InferenceTimeMs: inferenceTimeMs,
		ImageWidth:      imageWidth,
		ImageHeight:     imageHeight,
	}
}

// NewError builds a failure Record: detections is always empty, and
// error/code are the only meaningful fields, per spec.md §7's
// "a failed call returns a record with error and code set and detections
// empty".
func NewError(code ErrorCode, msg string) *Record {
	return &Record{
		Detections: []Detection{},
		Error:      msg,
		Code:       code,
	}
}

// JSON renders the record as JSON text, caching the result so repeated
// calls (e.g. from a cgo boundary that reads the string more than once)
// don't re-marshal.
func (r *Record) JSON() (string, error) {
	if r.json != "" {
		return r.json, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	r.json = string(b)
	return r.json, nil
}

// Release discards the record's cached serialized form. Go is garbage
// collected so Release has no memory-safety consequence on its own; it
// exists so cmd/detectorlib's cgo free_string boundary has a single,
// explicit place to call into rather than tracking raw C strings itself.
func (r *Record) Release() {
	if r == nil {
		return
	}
	r.json = ""
}
