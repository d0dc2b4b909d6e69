package domain

import "errors"

var (
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrNoLoadLevels     = errors.New("at least one load level is required")
	ErrInvalidLoadLevel = errors.New("unknown load level")
	ErrUnknownProvider  = errors.New("unsupported provider")
)

// GenerationRequest is the transient input to one menu generation.
type GenerationRequest struct {
	LoadLevels           []LoadLevel
	Duration             int
	Notes                string
	Provider             ProviderKey
	Credentials          string
	UseRetrieval         bool
	RetrievalCredentials string
}

// Validate checks the request shape. Credential requirements depend on
// the provider and are checked by the caller that owns the registry.
func (r GenerationRequest) Validate() error {
	if r.Duration <= 0 {
		return ErrInvalidDuration
	}
	if len(r.LoadLevels) == 0 {
		return ErrNoLoadLevels
	}
	for _, l := range r.LoadLevels {
		if !l.Valid() {
			return ErrInvalidLoadLevel
		}
	}
	if !r.Provider.Known() {
		return ErrUnknownProvider
	}
	return nil
}
