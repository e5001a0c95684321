/*
DESCRIPTION
  provider.go generalizes the single GPU-or-CPU toggle seen in the pogo
  detector reference into an ordered list of execution providers, tried
  in turn until one appends without error.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package onnxrt

import (
	ort "github.com/yalue/onnxruntime_go"

	"github.com/ausocean/utils/logging"
)

// provider is one candidate execution provider append attempt.
type provider struct {
	name   string
	append func(*ort.SessionOptions) error
}

// providers lists the platform-native accelerators to try, in priority
// order, before falling back to CPU. CPU is implicit: onnxruntime_go
// sessions always run on CPU when no other provider is appended, so it
// needs no explicit entry and can never fail.
var providers = []provider{
	{"CUDA", appendCUDA},
	{"CoreML", appendCoreML},
	{"DirectML", appendDirectML},
}

// selectProvider tries each candidate in order and stops at the first
// one that appends successfully, logging a Warning for every failure.
// If every accelerator fails to append, the session silently runs on
// CPU, which is always available.
func selectProvider(log logging.Logger, opts *ort.SessionOptions) {
	for _, p := range providers {
		if err := p.append(opts); err != nil {
			if log != nil {
				log.Warning("execution provider unavailable", "provider", p.name, "error", err)
			}
			continue
		}
		if log != nil {
			log.Info("selected execution provider", "provider", p.name)
		}
		return
	}
	if log != nil {
		log.Info("falling back to CPU execution provider")
	}
}

func appendCUDA(opts *ort.SessionOptions) error {
	cudaOpts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return err
	}
	defer cudaOpts.Destroy()
	return opts.AppendExecutionProviderCUDA(cudaOpts)
}

func appendCoreML(opts *ort.SessionOptions) error {
	return opts.AppendExecutionProviderCoreML(0)
}

func appendDirectML(opts *ort.SessionOptions) error {
	return opts.AppendExecutionProviderDirectML(0)
}
