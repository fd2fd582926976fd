package licenses

import (
	"fmt"
	"go/version"
)

// MinimumGoVersion is the oldest runtime the reporter supports. It matches
// the go directive in go.mod.
const MinimumGoVersion = "go1.25"

// MissingInputError reports a missing manifest, storage directory or manifest field.
type MissingInputError struct {
	Path  string
	Field string
	Hint  string
}

func (e *MissingInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Unable to find `%s` field in %s", e.Field, e.Path)
	}
	return fmt.Sprintf("Unable to find %s", e.Path)
}

// RuntimeError reports an unsupported runtime version.
type RuntimeError struct {
	Current string
	Minimum string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("This program requires at least %s (running %s)", e.Minimum, e.Current)
}

// CheckRuntime fails when current is an older Go release than minimum.
// Development builds without a parseable version are accepted.
func CheckRuntime(current, minimum string) error {
	if !version.IsValid(current) {
		return nil
	}
	if version.Compare(current, minimum) < 0 {
		return &RuntimeError{Current: current, Minimum: minimum}
	}
	return nil
}
