package mppi

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

const (
	DefaultBatchSize      = 400
	DefaultTimeSteps      = 15
	DefaultModelDt        = 0.1
	DefaultIterationCount = 1
	DefaultTemperature    = 0.25
	DefaultVLimit         = 0.5
	DefaultWLimit         = 1.3
	DefaultVStd           = 0.2
	DefaultWStd           = 1.0
	DefaultRetryLimit     = 1
)

// ShiftPolicy selects how the mean sequence is warm-started between calls.
type ShiftPolicy string

const (
	// ShiftDuplicateLast drops the first step and repeats the last one.
	ShiftDuplicateLast ShiftPolicy = "duplicate_last"
	// ShiftZeroFill drops the first step and appends a zero control.
	ShiftZeroFill ShiftPolicy = "zero_fill"
	// ShiftNone keeps the sequence untouched between calls.
	ShiftNone ShiftPolicy = "none"
)

func (p ShiftPolicy) valid() bool {
	switch p {
	case ShiftDuplicateLast, ShiftZeroFill, ShiftNone:
		return true
	}
	return false
}

// Settings configures an Optimizer. Sizes are fixed for the optimizer lifetime.
type Settings struct {
	BatchSize           int         `yaml:"batch_size" json:"batch_size"`
	TimeSteps           int         `yaml:"time_steps" json:"time_steps"`
	ModelDt             float64     `yaml:"model_dt" json:"model_dt"`
	IterationCount      int         `yaml:"iteration_count" json:"iteration_count"`
	Temperature         float64     `yaml:"temperature" json:"temperature"`
	VLimit              float64     `yaml:"v_limit" json:"v_limit"`
	WLimit              float64     `yaml:"w_limit" json:"w_limit"`
	VStd                float64     `yaml:"v_std" json:"v_std"`
	WStd                float64     `yaml:"w_std" json:"w_std"`
	RetryAttemptLimit   int         `yaml:"retry_attempt_limit" json:"retry_attempt_limit"`
	ShiftPolicy         ShiftPolicy `yaml:"shift_policy" json:"shift_policy"`
	Workers             int         `yaml:"workers" json:"workers"`
	Seed                int64       `yaml:"seed" json:"seed"`
	ControllerFrequency float64     `yaml:"controller_frequency" json:"controller_frequency"`
}

func DefaultSettings() Settings {
	return Settings{
		BatchSize:         DefaultBatchSize,
		TimeSteps:         DefaultTimeSteps,
		ModelDt:           DefaultModelDt,
		IterationCount:    DefaultIterationCount,
		Temperature:       DefaultTemperature,
		VLimit:            DefaultVLimit,
		WLimit:            DefaultWLimit,
		VStd:              DefaultVStd,
		WStd:              DefaultWStd,
		RetryAttemptLimit: DefaultRetryLimit,
		ShiftPolicy:       ShiftDuplicateLast,
		Workers:           1,
	}
}

// Validate reports every violated constraint at once. The returned error matches
// ErrInvalidConfig.
func (s Settings) Validate() error {
	var errs error
	if s.BatchSize <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("batch_size must be positive, got %d", s.BatchSize))
	}
	if s.TimeSteps <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("time_steps must be positive, got %d", s.TimeSteps))
	}
	if s.IterationCount <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("iteration_count must be positive, got %d", s.IterationCount))
	}
	if !positive(s.ModelDt) {
		errs = multierr.Append(errs, fmt.Errorf("model_dt must be positive, got %f", s.ModelDt))
	}
	if !positive(s.Temperature) {
		errs = multierr.Append(errs, fmt.Errorf("temperature must be positive, got %f", s.Temperature))
	}
	if !positive(s.VLimit) || !positive(s.WLimit) {
		errs = multierr.Append(errs, fmt.Errorf("velocity limits must be positive, got v=%f w=%f", s.VLimit, s.WLimit))
	}
	if s.VStd < 0 || s.WStd < 0 || math.IsNaN(s.VStd) || math.IsNaN(s.WStd) {
		errs = multierr.Append(errs, fmt.Errorf("sampling std must not be negative, got v=%f w=%f", s.VStd, s.WStd))
	}
	if s.RetryAttemptLimit < 0 {
		errs = multierr.Append(errs, fmt.Errorf("retry_attempt_limit must not be negative, got %d", s.RetryAttemptLimit))
	}
	if s.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}
	if !s.ShiftPolicy.valid() {
		errs = multierr.Append(errs, fmt.Errorf("unknown shift_policy %q", s.ShiftPolicy))
	}
	if s.ControllerFrequency < 0 {
		errs = multierr.Append(errs, fmt.Errorf("controller_frequency must not be negative, got %f", s.ControllerFrequency))
	} else if s.ControllerFrequency > 0 && 1/s.ControllerFrequency > s.ModelDt+periodEps {
		errs = multierr.Append(errs, fmt.Errorf("controller period %.4fs exceeds model_dt %.4fs", 1/s.ControllerFrequency, s.ModelDt))
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}

const periodEps = 1e-6

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
