/*
DESCRIPTION
  detect is a one-shot CLI: load a model, run detection on a single
  image, and print the resulting JSON record to stdout.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package main implements the detect command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ausocean/utils/logging"

	detect "github.com/ausocean/detect"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logVerbosity = logging.Info
	logSuppress  = false
)

const pkg = "detect: "

func main() {
	modelPath := flag.String("model", "", "path to the ONNX model file")
	imagePath := flag.String("image", "", "path to the image file to run detection on")
	classNames := flag.String("classes", "", "comma-separated class name vocabulary")
	confThreshold := flag.Float64("conf", 0.25, "confidence threshold")
	iouThreshold := flag.Float64("iou", 0.45, "IoU threshold for non-maximum suppression")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	log := logging.New(logVerbosity, os.Stderr, logSuppress)

	if *modelPath == "" || *imagePath == "" {
		log.Fatal(pkg + "model and image flags are required")
	}

	cfg := &detect.Config{
		ModelPath:     *modelPath,
		ConfThreshold: float32(*confThreshold),
		IoUThreshold:  float32(*iouThreshold),
		Logger:        log,
	}
	if *classNames != "" {
		cfg.ClassNames = strings.Split(*classNames, ",")
	}
	cfg.Validate()

	log.Info(pkg+"starting detection", "model", cfg.ModelPath, "image", *imagePath)

	d := detect.New(log)
	if err := d.Init(cfg.ModelPath); err != nil {
		log.Fatal(pkg+"could not initialize detector", "error", err)
	}
	defer d.Release()

	d.SetClassNames(cfg.ClassNames)

	rec := d.DetectFromPath(*imagePath, cfg.ConfThreshold, cfg.IoUThreshold)
	defer rec.Release()

	out, err := rec.JSON()
	if err != nil {
		log.Fatal(pkg+"could not serialize result", "error", err)
	}
	fmt.Println(out)
}
