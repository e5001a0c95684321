/*
DESCRIPTION
  detectd is a long-running detection daemon: it loads one model once
  and serves detect_from_path requests over a Unix domain socket, one at
  a time, using a capacity-1 token channel to serialize concurrent host
  requests onto the single underlying Detector.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package main implements the detectd detection daemon.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	detect "github.com/ausocean/detect"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "detectd.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

const pkg = "detectd: "

// request is one line of newline-delimited JSON read from the socket.
type request struct {
	Path          string  `json:"path"`
	ConfThreshold float32 `json:"conf_threshold"`
	IoUThreshold  float32 `json:"iou_threshold"`
}

// server holds the single shared Detector and the capacity-1 token
// channel that serializes concurrent connections onto it, generalizing
// the `filter.Motion` frame-channel idiom and the pool-of-one session
// pattern to this daemon's single in-flight-call requirement.
type server struct {
	log    logging.Logger
	det    *detect.Detector
	tokens chan struct{}
}

func newServer(log logging.Logger, det *detect.Detector) *server {
	s := &server{log: log, det: det, tokens: make(chan struct{}, 1)}
	s.tokens <- struct{}{}
	return s
}

func (s *server) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warning(pkg+"malformed request", "error", err)
			fmt.Fprintf(conn, `{"error":%q,"code":"PREPROCESS_ERROR"}`+"\n", err.Error())
			continue
		}

		<-s.tokens
		rec := s.det.DetectFromPath(req.Path, req.ConfThreshold, req.IoUThreshold)
		out, err := rec.JSON()
		rec.Release()
		s.tokens <- struct{}{}

		if err != nil {
			s.log.Error(pkg+"could not serialize result", "error", err)
			continue
		}
		fmt.Fprintln(conn, out)
	}
}

func main() {
	modelPath := flag.String("model", "", "path to the ONNX model file")
	socketPath := flag.String("socket", "/tmp/detectd.sock", "Unix domain socket path to listen on")
	classNames := flag.String("classes", "", "comma-separated class name vocabulary")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)

	if *modelPath == "" {
		log.Fatal(pkg + "model flag is required")
	}

	cfg := &detect.Config{ModelPath: *modelPath, Logger: log}
	if *classNames != "" {
		cfg.ClassNames = strings.Split(*classNames, ",")
	}
	cfg.Validate()

	log.Info(pkg+"starting detectd", "version", version, "model", cfg.ModelPath, "socket", *socketPath)

	det := detect.New(log)
	if err := det.Init(cfg.ModelPath); err != nil {
		log.Fatal(pkg+"could not initialize detector", "error", err)
	}
	defer det.Release()

	det.SetClassNames(cfg.ClassNames)

	os.Remove(*socketPath)
	listener, err := net.Listen("unix", *socketPath)
	if err != nil {
		log.Fatal(pkg+"could not listen on socket", "error", err)
	}
	defer listener.Close()

	srv := newServer(log, det)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error(pkg+"accept failed", "error", err)
			continue
		}
		go srv.handle(conn)
	}
}
