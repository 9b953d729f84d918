package incregex

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when parsing a status name fails.
var ErrUnknownStatus = errors.New("incregex: unknown status")

// ErrUnknownMode is returned when parsing an entry mode name fails.
var ErrUnknownMode = errors.New("incregex: unknown mode")

// Status is the outcome of validating one input.
type Status uint8

const (
	// Invalid means no continuation of the input can ever match.
	Invalid Status = iota

	// PotentiallyValid means the input does not match yet, but some
	// continuation would.
	PotentiallyValid

	// Valid means the input matches in full.
	Valid
)

var statusNames = [...]string{
	Invalid:          "invalid",
	PotentiallyValid: "potentially_valid",
	Valid:            "valid",
}

// String returns the status name used on the wire.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s)
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Mode tells how new field content arrived.
type Mode uint8

const (
	// ModeType is keystroke entry: content that cannot lead to a match is
	// dropped as it is typed.
	ModeType Mode = iota

	// ModePaste is bulk entry: content is kept as given and only
	// classified, so a paste is never silently shortened.
	ModePaste
)

var modeNames = [...]string{
	ModeType:  "type",
	ModePaste: "paste",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode parses "type" or "paste". The empty string means ModeType.
func ParseMode(name string) (Mode, error) {
	if name == "" {
		return ModeType, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeType, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, m)
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
