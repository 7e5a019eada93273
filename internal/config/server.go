package config

import "time"

// StubConfig holds settings for the stand-in payment form server
type StubConfig struct {
	Port string `koanf:"port" validate:"required,numeric"`
	// GateURL points at an external bank gate; empty uses the built-in emulator
	GateURL string `koanf:"gate_url" validate:"omitempty,url"`
	// Amount is the price of the tour in kopecks
	Amount int64 `koanf:"amount" validate:"required,min=1"`
	// CommitLag delays the payment record insert after the response is sent
	CommitLag time.Duration `koanf:"commit_lag"`
	// RevealDelay keeps the result notification hidden behind a loading state
	RevealDelay time.Duration `koanf:"reveal_delay"`
}

// Addr returns the listen address for the stub server
func (c StubConfig) Addr() string {
	return ":" + c.Port
}
