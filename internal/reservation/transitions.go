package reservation

import "time"

var allowedTransitions = map[Status][]Status{
	StatusInitial:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusCheckIn, StatusCancelled, StatusNoShow},
	StatusCheckIn:        {StatusCheckOut, StatusCancelled},
	StatusCheckOut:       {StatusCleaningNeeded},
	StatusCleaningNeeded: {StatusRoomReady},
	StatusRoomReady:      {StatusConfirmed},
	StatusCancelled:      {}, // terminal
	StatusNoShow:         {}, // terminal
}

// Forward happy path used by the single "advance" action. Every step is also an
// edge of allowedTransitions.
var nextLogical = map[Status]Status{
	StatusInitial:        StatusConfirmed,
	StatusConfirmed:      StatusCheckIn,
	StatusCheckIn:        StatusCheckOut,
	StatusCheckOut:       StatusCleaningNeeded,
	StatusCleaningNeeded: StatusRoomReady,
	StatusRoomReady:      StatusConfirmed,
}

// backend methods on hotel.booking, one per target state
var backendMethods = map[Status]string{
	StatusConfirmed:      "action_confirm_booking",
	StatusCheckIn:        "action_check_in",
	StatusCheckOut:       "action_checkout",
	StatusCleaningNeeded: "action_mark_cleaning_needed",
	StatusRoomReady:      "action_mark_room_ready",
	StatusCancelled:      "action_cancel_booking",
	StatusNoShow:         "action_no_show",
}

// AllowedTransitions returns the states reachable from raw (legacy tokens are
// resolved first). The returned slice is a copy.
func AllowedTransitions(raw string) []Status {
	from, ok := Canonical(raw)
	if !ok {
		return nil
	}
	return append([]Status(nil), allowedTransitions[from]...)
}

func IsValidTransition(raw string, to Status) bool {
	for _, s := range AllowedTransitions(raw) {
		if s == to {
			return true
		}
	}
	return false
}

// NextLogicalState returns the forward step for raw, or false when the state has
// no forward step (terminal or unknown).
func NextLogicalState(raw string) (Status, bool) {
	from, ok := Canonical(raw)
	if !ok {
		return "", false
	}
	next, ok := nextLogical[from]
	return next, ok
}

// CheckTransition returns an InvalidTransitionError when to is not reachable
// from raw.
func CheckTransition(raw string, to Status) error {
	if IsValidTransition(raw, to) {
		return nil
	}
	return InvalidTransitionError{From: raw, To: to, Allowed: AllowedTransitions(raw)}
}

// CheckCheckIn rejects a check-in whose scheduled start day is after today.
func CheckCheckIn(dateStart string, now time.Time) error {
	start, err := ParseDate(dateStart)
	if err != nil {
		return DateParseError{Field: "date_start", Value: dateStart, Err: err}
	}
	if DateOnly(start).After(DateOnly(now)) {
		return CheckInTooEarlyError{Scheduled: start}
	}
	return nil
}

func BackendMethod(to Status) (string, bool) {
	m, ok := backendMethods[to]
	return m, ok
}
