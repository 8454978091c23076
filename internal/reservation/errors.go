package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeCheckInTooEarly   = "CHECKIN_TOO_EARLY"
	CodeRangeUnavailable  = "RANGE_UNAVAILABLE"
	CodeCleaningBlocked   = "CLEANING_BLOCKED"
	CodeLookupFailed      = "LOOKUP_FAILED"
	CodeDataLoadFailed    = "DATA_LOAD_FAILED"
	CodeDateParseFailed   = "DATE_PARSE_FAILED"
)

// ErrCleaningBlocked matches (errors.Is) a RangeUnavailableError caused by a
// room still waiting for cleaning.
var ErrCleaningBlocked = errors.New("room is waiting for cleaning")

type InvalidTransitionError struct {
	From    string
	To      Status
	Allowed []Status
}

func (e InvalidTransitionError) Error() string {
	allowed := "none (terminal state)"
	if len(e.Allowed) > 0 {
		parts := make([]string, len(e.Allowed))
		for i, s := range e.Allowed {
			parts[i] = string(s)
		}
		allowed = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("invalid state transition: from %s you can only change to: %s", e.From, allowed)
}

func (e InvalidTransitionError) Code() string { return CodeInvalidTransition }

type CheckInTooEarlyError struct {
	Scheduled time.Time
}

func (e CheckInTooEarlyError) Error() string {
	return "check-in is not allowed before the scheduled date. Check-in date: " + e.Scheduled.Format("02/01/2006")
}

func (e CheckInTooEarlyError) Code() string { return CodeCheckInTooEarly }

type RangeUnavailableError struct {
	RoomID   int64
	StartDay int
	EndDay   int
	Cleaning bool
}

func (e RangeUnavailableError) Error() string {
	if e.Cleaning {
		return "cannot book: the room is waiting for cleaning. Finish the cleaning first."
	}
	return "cannot book: the room is occupied in the selected range."
}

func (e RangeUnavailableError) Code() string {
	if e.Cleaning {
		return CodeCleaningBlocked
	}
	return CodeRangeUnavailable
}

func (e RangeUnavailableError) Is(target error) bool {
	return e.Cleaning && target == ErrCleaningBlocked
}

// LookupFailureError aborts the creation flow when a partner, product or hotel
// cannot be resolved.
type LookupFailureError struct {
	What string
	Err  error
}

func (e LookupFailureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lookup %s failed", e.What)
	}
	return fmt.Sprintf("lookup %s failed: %v", e.What, e.Err)
}

func (e LookupFailureError) Unwrap() error { return e.Err }
func (e LookupFailureError) Code() string  { return CodeLookupFailed }

type DataLoadError struct {
	What string
	Err  error
}

func (e DataLoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.What, e.Err)
}

func (e DataLoadError) Unwrap() error { return e.Err }
func (e DataLoadError) Code() string  { return CodeDataLoadFailed }

type DateParseError struct {
	Field string
	Value string
	Err   error
}

func (e DateParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e DateParseError) Unwrap() error { return e.Err }
func (e DateParseError) Code() string  { return CodeDateParseFailed }

// CodeOf returns the stable code of err, or "" when err carries none.
func CodeOf(err error) string {
	var c interface{ Code() string }
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
