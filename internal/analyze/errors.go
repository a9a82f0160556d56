package analyze

import "fmt"

// ConfigurationError reports a template that cannot be analyzed as
// currently configured. Callers surface it as a client error, not a
// pipeline failure.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "template configuration: " + e.Reason
}

// DecodeError reports an upload that could not be decoded as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
