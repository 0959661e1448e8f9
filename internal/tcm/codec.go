// internal/tcm/codec.go
package tcm

import (
	"math"
	"strconv"
	"strings"
)

// DefaultModule is the logical channel addressed when none is configured.
const DefaultModule = "TC1"

// ---- VERBS ----

const (
	VerbTarget = "TCADJTEMP"
	VerbActual = "TCACTUALTEMP"
)

// ---- SUFFIXES ----

const (
	SuffixQuery = "?"
	SuffixSet   = "="
	SuffixSave  = "!"
)

// ---- RESPONSE GEOMETRY ----

// Query responses carry a fixed-width header followed by the decimal payload.
const (
	TargetHeaderLen = 14
	ActualHeaderLen = 17
)

// AckPrefix marks an acknowledgement frame. The last character is the status code.
const AckPrefix = "CMD:"

// LineTerminator ends every outbound line.
const LineTerminator = "\r"

// Line builds the exact wire line for one command.
func Line(module, command string) string {
	return module + ":" + command + LineTerminator
}

// ---- COMMANDS ----

func QueryTarget() string { return VerbTarget + SuffixQuery }

func SetTarget(t float64) string { return VerbTarget + SuffixSet + FormatTemperature(t) }

func SaveTarget() string { return VerbTarget + SuffixSave }

func QueryActual() string { return VerbActual + SuffixQuery }

// FormatTemperature renders t as the shortest round-tripping decimal,
// always carrying a decimal point ("21.0", "12.5").
func FormatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ---- RESPONSES ----

// IsAck reports whether resp is an acknowledgement frame.
func IsAck(resp string) bool {
	return strings.HasPrefix(resp, AckPrefix)
}

// CheckAck returns a *ProtocolError when resp is an ack frame whose status
// is neither '1' nor '8'. Any other line passes through.
func CheckAck(resp string) error {
	if !IsAck(resp) {
		return nil
	}
	switch resp[len(resp)-1] {
	case '1', '8':
		return nil
	default:
		return &ProtocolError{Response: resp}
	}
}

// ParseTarget decodes a target-temperature query response.
func ParseTarget(resp string) (float64, error) {
	return parseAfterHeader(resp, TargetHeaderLen)
}

// ParseActual decodes an actual-temperature query response.
func ParseActual(resp string) (float64, error) {
	return parseAfterHeader(resp, ActualHeaderLen)
}

// parseAfterHeader skips a header of width bytes and parses the rest.
// A response shorter than the header yields an empty payload.
// NaN and infinities are rejected so a cached reading is never poisoned.
func parseAfterHeader(resp string, width int) (float64, error) {
	payload := ""
	if len(resp) > width {
		payload = resp[width:]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil {
		return 0, &ParseError{Response: resp, Payload: payload, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Response: resp, Payload: payload, Err: errNotFinite}
	}
	return v, nil
}
