package publish

import (
	"fmt"

	"github.com/conn-castle/sitepub/internal/messages"
)

// ConfigurationError reports a target that cannot be published to as configured.
// It is always returned before any process is started.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// CredentialError reports credentials that cannot be used as given.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf(messages.CredentialErrorFmt, e.Reason)
}

func credentialErrorf(format string, args ...any) *CredentialError {
	return &CredentialError{Reason: fmt.Sprintf(format, args...)}
}

// PublishError reports the step at which a publish attempt stopped.
// Err is usually a *proc.ProcessError carrying the tool's exit status and output tail.
type PublishError struct {
	Step string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf(messages.PublishStepFailedFmt, e.Step, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
