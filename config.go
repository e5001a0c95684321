/*
DESCRIPTION
  config.go implements Config: the host-constructed, programmatic
  configuration surface for a Detector (there is no config file format,
  since the teacher has none). Validate follows revid/config.Config's
  LogInvalidField idiom: bad or unset fields are defaulted and logged
  rather than rejected outright.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package detector

import "github.com/ausocean/utils/logging"

// Default threshold values used by Validate when a field is unset or out
// of range.
const (
	defaultConfThreshold = 0.25
	defaultIoUThreshold  = 0.45
)

// Config is the programmatic configuration a host builds before calling
// Init: the model to load, the detection thresholds and class vocabulary
// to use, and the logger to report validation defaults through.
type Config struct {
	ModelPath     string
	ConfThreshold float32
	IoUThreshold  float32
	ClassNames    []string
	Logger        logging.Logger
}

// Validate defaults any bad or unset field in place, logging each one via
// LogInvalidField, mirroring revid/config.Config's per-field validation.
func (c *Config) Validate() {
	if c.ConfThreshold <= 0 || c.ConfThreshold > 1 {
		c.LogInvalidField("ConfThreshold", defaultConfThreshold)
		c.ConfThreshold = defaultConfThreshold
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		c.LogInvalidField("IoUThreshold", defaultIoUThreshold)
		c.IoUThreshold = defaultIoUThreshold
	}
	if len(c.ClassNames) == 0 {
		c.LogInvalidField("ClassNames", defaultClassNames)
		c.ClassNames = append([]string(nil), defaultClassNames...)
	}
}

// LogInvalidField logs that field was bad or unset and has been defaulted
// to def. It is a no-op if no Logger is set.
func (c *Config) LogInvalidField(field string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(field+" bad or unset, defaulting", field, def)
}
