package check

import (
	"errors"
	"strings"
)

// MessageSeparator joins rule messages in CheckError.Error.
const MessageSeparator = "\n"

// CheckError reports every violation found for one invocation.
//
// Messages holds each rule message verbatim, in evaluation order. Error joins
// them with MessageSeparator, so a substring of any one message matches the
// error text.
type CheckError struct {
	// Method is the action method path that was checked.
	Method string

	// Messages lists the violations in rule evaluation order.
	Messages []string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return strings.Join(e.Messages, MessageSeparator)
}

// IsCheckError returns true if err is or wraps a *CheckError.
func IsCheckError(err error) bool {
	var ce *CheckError
	return errors.As(err, &ce)
}
