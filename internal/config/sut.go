package config

import "time"

// SUTConfig locates the payment form under test
type SUTConfig struct {
	URL string `koanf:"url" validate:"required,url"`
}

// BrowserConfig selects and tunes the playwright browser
type BrowserConfig struct {
	Name     string        `koanf:"name" validate:"oneof=chromium firefox webkit"`
	Headless bool          `koanf:"headless"`
	SlowMo   time.Duration `koanf:"slow_mo"`
}

// WaitConfig tunes the outcome waiter.
// Backend-confirmed outcomes get BackendTimeout, client-side validation
// outcomes get ClientTimeout.
type WaitConfig struct {
	PollInterval   time.Duration `koanf:"poll_interval" validate:"required"`
	BackendTimeout time.Duration `koanf:"backend_timeout" validate:"required"`
	ClientTimeout  time.Duration `koanf:"client_timeout" validate:"required"`
}

// VerifyConfig tunes the backend verifier's retry loop
type VerifyConfig struct {
	PollInterval time.Duration `koanf:"poll_interval" validate:"required"`
	MaxInterval  time.Duration `koanf:"max_interval" validate:"required"`
	MaxAttempts  int           `koanf:"max_attempts" validate:"required,min=1"`
	MaxWait      time.Duration `koanf:"max_wait" validate:"required"`
	// AbsenceWindow is how long the store is watched when no record is expected
	AbsenceWindow time.Duration `koanf:"absence_window" validate:"required"`
}
