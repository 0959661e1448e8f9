// internal/tcm/errors.go
package tcm

import (
	"errors"
	"fmt"
)

var errNotFinite = errors.New("value is not finite")

// ProtocolError is returned when the controller acknowledges a command
// with a failure status. Response is the raw line.
type ProtocolError struct {
	Response string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("tcm: error from controller: %s", e.Response)
}

// Status returns the status character of the ack frame.
func (e *ProtocolError) Status() byte {
	if e.Response == "" {
		return 0
	}
	return e.Response[len(e.Response)-1]
}

// ParseError is returned when a query response does not carry a number
// after its header.
type ParseError struct {
	Response string
	Payload  string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tcm: cannot parse temperature from %q: %v", e.Response, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
