package cli

import (
	"errors"
	"fmt"

	"github.com/mark3labs/apidesc/internal/declare"
	"github.com/mark3labs/apidesc/internal/spec"
)

var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// friendlyError turns loader and description errors into usage errors the
// user can act on. Other errors pass through unchanged.
func friendlyError(err error) error {
	var le *declare.LoadError
	if errors.As(err, &le) {
		msg := fmt.Sprintf("declaration: %s", le.Message)
		if le.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
		}
		return newUsageError(msg)
	}
	var se *spec.Error
	if errors.As(err, &se) {
		return newUsageError(fmt.Sprintf("description: %v", err))
	}
	return err
}
