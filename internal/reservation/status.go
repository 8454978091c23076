package reservation

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusInitial        Status = "initial"
	StatusConfirmed      Status = "confirmed"
	StatusCheckIn        Status = "checkin"
	StatusCheckOut       Status = "checkout"
	StatusCleaningNeeded Status = "cleaning_needed"
	StatusRoomReady      Status = "room_ready"
	StatusCancelled      Status = "cancelled"
	StatusNoShow         Status = "no_show"
)

// Tokens still emitted by older backend records. They are read-only: nothing in
// this module writes them back.
const (
	LegacyDraft           Status = "draft"
	LegacyConfirm         Status = "confirm"
	LegacyCheckIn         Status = "check_in"
	LegacyAllot           Status = "allot"
	LegacyCheckoutPending Status = "checkout_pending"
	LegacyPending         Status = "pending"
	LegacyRoomAssigned    Status = "room_assigned"
	LegacyCancel          Status = "cancel"
	LegacyDone            Status = "done"
)

// CanonicalStatuses is the lifecycle order used for legends and filters.
var CanonicalStatuses = []Status{
	StatusInitial,
	StatusConfirmed,
	StatusCheckIn,
	StatusCheckOut,
	StatusCleaningNeeded,
	StatusRoomReady,
	StatusCancelled,
	StatusNoShow,
}

var legacyAliases = map[Status]Status{
	LegacyDraft:           StatusInitial,
	LegacyPending:         StatusInitial,
	LegacyConfirm:         StatusConfirmed,
	LegacyAllot:           StatusConfirmed,
	LegacyRoomAssigned:    StatusConfirmed,
	LegacyCheckIn:         StatusCheckIn,
	LegacyCheckoutPending: StatusCheckIn,
	LegacyDone:            StatusCheckOut,
	LegacyCancel:          StatusCancelled,
}

func (s Status) IsCanonical() bool {
	for _, c := range CanonicalStatuses {
		if s == c {
			return true
		}
	}
	return false
}

func (s Status) IsLegacy() bool {
	_, ok := legacyAliases[s]
	return ok
}

// Canonical resolves a raw state token (canonical or legacy) to its canonical
// status. Unknown tokens report false.
func Canonical(raw string) (Status, bool) {
	s := Status(strings.TrimSpace(raw))
	if s.IsCanonical() {
		return s, true
	}
	if c, ok := legacyAliases[s]; ok {
		return c, true
	}
	return "", false
}

// ParseStatus accepts canonical tokens only. Use it for anything that will be
// written (transition targets, filters coming from the outside).
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if s.IsCanonical() {
		return s, nil
	}
	return "", fmt.Errorf("unknown status: %s", raw)
}

// Vacates reports whether a reservation in this state leaves its room free for
// new bookings.
func (s Status) Vacates() bool {
	return s == StatusCancelled || s == StatusRoomReady
}
