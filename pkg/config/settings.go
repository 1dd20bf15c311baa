package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/StricklySoft/stricklysoft-sys/pkg/args"
	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/diag"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// DefaultEnvPrefix prefixes every environment variable read by
// [LoadSettings].
const DefaultEnvPrefix = "STRICKLYSOFT_SYS"

// Settings configures the runtime support of a tool or test harness:
// call-chain tracking, profiling, metrics and diagnostics.
type Settings struct {
	// TrackerCapacity is the number of frames the call-chain tracker
	// holds before Push panics.
	TrackerCapacity int `env:"TRACKER_CAPACITY" envDefault:"256" yaml:"tracker_capacity" json:"tracker_capacity" flag:"tracker-capacity"`

	// ProfileCapacity is the number of distinct call sites the profile
	// records; later sites are counted as dropped.
	ProfileCapacity int `env:"PROFILE_CAPACITY" envDefault:"1024" yaml:"profile_capacity" json:"profile_capacity" flag:"profile-capacity"`

	// Profiling enables per-call-site timing.
	Profiling bool `env:"PROFILING" yaml:"profiling" json:"profiling" flag:"profile"`

	// MetricsNamespace prefixes exported profile metrics.
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"stricklysoft_sys" yaml:"metrics_namespace" json:"metrics_namespace"`

	Diag DiagSettings `env:"DIAG" yaml:"diag" json:"diag"`
}

// DiagSettings configures the diagnostic logger.
type DiagSettings struct {
	// Threshold is the lowest severity routed to standard error.
	Threshold diag.Severity `env:"THRESHOLD" envDefault:"warn" yaml:"threshold" json:"threshold" flag:"threshold"`

	// Level is the lowest severity written at all.
	Level diag.Severity `env:"LEVEL" envDefault:"info" yaml:"level" json:"level" flag:"level"`
}

// Validate implements [Validator].
func (s *Settings) Validate() error {
	return s.ValidateContext(context.Background())
}

// ValidateContext implements [ContextValidator].
func (s *Settings) ValidateContext(ctx context.Context) error {
	switch {
	case s.TrackerCapacity <= 0:
		return errors.Failf(ctx, errors.KindInvalidParameter,
			"config: tracker capacity %d must be positive", s.TrackerCapacity)
	case s.ProfileCapacity <= 0:
		return errors.Failf(ctx, errors.KindInvalidParameter,
			"config: profile capacity %d must be positive", s.ProfileCapacity)
	case s.MetricsNamespace == "":
		return errors.Fail(ctx, errors.KindInvalidParameter,
			"config: metrics namespace must not be empty")
	case s.Diag.Level > s.Diag.Threshold:
		return errors.Failf(ctx, errors.KindInvalidParameter,
			"config: diagnostic level %s is above threshold %s", s.Diag.Level, s.Diag.Threshold)
	}
	return nil
}

// LoadSettings resolves Settings from defaults, the optional file at
// path, STRICKLYSOFT_SYS_* environment variables and, when res is non-nil,
// command-line flags.
func LoadSettings(ctx context.Context, path string, res *args.Result) (Settings, error) {
	l := New().WithEnvPrefix(DefaultEnvPrefix)
	if path != "" {
		l.WithFile(path)
	}
	if res != nil {
		l.WithArgs(res)
	}
	var s Settings
	if err := l.Load(ctx, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FlagNames returns the long flag names Settings reads, for passing to
// [args.Parse].
func FlagNames() []string {
	return []string{"tracker-capacity", "profile-capacity", "profile", "threshold", "level"}
}

// NewTracker returns a tracker with the configured capacity.
func (s Settings) NewTracker() *callstack.Tracker {
	return callstack.NewTracker(s.TrackerCapacity)
}

// NewProfile returns a profile with the configured capacity, or nil when
// profiling is off.
func (s Settings) NewProfile() *callstack.Profile {
	if !s.Profiling {
		return nil
	}
	return callstack.NewProfile(s.ProfileCapacity)
}

// Logger returns a diagnostic logger with the configured severities.
func (s Settings) Logger() *slog.Logger {
	return diag.New(diag.HandlerOptions{
		Threshold: s.Diag.Threshold,
		Level:     s.Diag.Level,
	})
}

// Context returns ctx carrying a fresh tracker and, when profiling is
// on, a fresh profile.
func (s Settings) Context(ctx context.Context) context.Context {
	ctx = callstack.WithTracker(ctx, s.NewTracker())
	if p := s.NewProfile(); p != nil {
		ctx = callstack.WithProfile(ctx, p)
	}
	return ctx
}

// String summarizes the settings for startup logs.
func (s Settings) String() string {
	return fmt.Sprintf("tracker=%d profile=%d profiling=%t threshold=%s level=%s",
		s.TrackerCapacity, s.ProfileCapacity, s.Profiling, s.Diag.Threshold, s.Diag.Level)
}
