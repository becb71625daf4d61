package app

// ExitError is a custom error type that includes a specific exit code.
// The Message may be empty when the failure was already rendered.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}
