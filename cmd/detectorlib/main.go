/*
DESCRIPTION
  main.go exposes the detector package's Go-native API as a C ABI
  (package main, cgo, //export, built with -buildmode=c-shared) over one
  process-wide *detector.Detector, so non-Go hosts can call init_ (the
  init entry point; init is a reserved name in Go), detect_from_path, detect_from_buffer, detect_from_yuv, set_classes,
  release, is_initialized, get_version and free_string directly.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"os"
	"strings"
	"sync"
	"unsafe"

	"github.com/ausocean/utils/logging"

	detect "github.com/ausocean/detect"
)

// version is the ABI/library version string returned by get_version.
const version = "1.0.0"

// versionCString is version as a C string, allocated once and never freed.
var versionCString = C.CString(version)

var (
	mu  sync.Mutex
	det *detect.Detector
	log = logging.New(logging.Info, os.Stderr, false)
)

func currentDetector() *detect.Detector {
	mu.Lock()
	defer mu.Unlock()
	if det == nil {
		det = detect.New(log)
	}
	return det
}

// init_ loads the ONNX model at modelPath and prepares the detector for
// use. Returns 1 on success, 0 on failure.
//
//export init_
func init_(modelPath *C.char) C.int {
	d := currentDetector()
	if err := d.Init(C.GoString(modelPath)); err != nil {
		log.Error("init failed", "error", err)
		return 0
	}
	return 1
}

// detect_from_path decodes the image at path and runs detection,
// returning a newly allocated C string the caller must pass to
// free_string.
//
//export detect_from_path
func detect_from_path(path *C.char, confThreshold, iouThreshold C.float) *C.char {
	d := currentDetector()
	rec := d.DetectFromPath(C.GoString(path), float32(confThreshold), float32(iouThreshold))
	return toCString(rec)
}

// detect_from_buffer runs detection on a packed BGRA buffer of the
// given width, height and row stride.
//
//export detect_from_buffer
func detect_from_buffer(buf *C.uchar, length C.int, width, height, stride C.int, confThreshold, iouThreshold C.float) *C.char {
	d := currentDetector()
	data := C.GoBytes(unsafe.Pointer(buf), length)
	rec := d.DetectFromBGRA(data, int(width), int(height), int(stride), float32(confThreshold), float32(iouThreshold))
	return toCString(rec)
}

// detect_from_yuv runs detection on a tri-planar YUV 4:2:0 camera
// frame.
//
//export detect_from_yuv
func detect_from_yuv(
	yBuf *C.uchar, yLen C.int, yStride C.int,
	uBuf *C.uchar, uLen C.int, uStride C.int,
	vBuf *C.uchar, vLen C.int, vStride C.int,
	width, height, uvPixelStride, rotation C.int,
	confThreshold, iouThreshold C.float,
) *C.char {
	d := currentDetector()
	y := C.GoBytes(unsafe.Pointer(yBuf), yLen)
	u := C.GoBytes(unsafe.Pointer(uBuf), uLen)
	v := C.GoBytes(unsafe.Pointer(vBuf), vLen)
	rec := d.DetectFromYUV(y, u, v, int(yStride), int(uStride), int(vStride),
		int(width), int(height), int(uvPixelStride), int(rotation),
		float32(confThreshold), float32(iouThreshold))
	return toCString(rec)
}

// set_classes replaces the class-name vocabulary from a single
// comma-separated string.
//
//export set_classes
func set_classes(namesCSV *C.char) {
	names := strings.Split(C.GoString(namesCSV), ",")
	currentDetector().SetClassNames(names)
}

// release discards the current session. Subsequent detect calls return
// NOT_INITIALIZED until init is called again.
//
//export release
func release() {
	currentDetector().Release()
}

// is_initialized returns 1 if the detector has an active session, 0
// otherwise.
//
//export is_initialized
func is_initialized() C.int {
	if currentDetector().IsInitialized() {
		return 1
	}
	return 0
}

// get_version returns the library's version string. The caller does not
// own the returned pointer and must not free it.
//
//export get_version
func get_version() *C.char {
	return versionCString
}

// free_string releases a string previously returned by detect_from_path,
// detect_from_buffer or detect_from_yuv.
//
//export free_string
func free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func toCString(rec interface{ JSON() (string, error) }) *C.char {
	s, err := rec.JSON()
	if err != nil {
		return C.CString(`{"error":"failed to serialize result","code":"RUNTIME_ERROR"}`)
	}
	return C.CString(s)
}

func main() {}
