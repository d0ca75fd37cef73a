package platform

import (
	"time"

	"tymodoro/internal/core/session"
)

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

var _ session.IdleChecker = IdleProvider(nil)

// NewIdleProvider returns a platform-specific idle provider. Where idle time
// cannot be read it reports session.ErrIdleUnsupported.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, session.ErrIdleUnsupported
}
