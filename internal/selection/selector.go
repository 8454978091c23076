package selection

import (
	"context"
	"sync"

	"frontdesk/internal/notify"
	"frontdesk/internal/reservation"
)

// Availability is the slice of the occupancy index the selector needs.
type Availability interface {
	IsDayOccupied(roomID int64, day int) bool
	IsRangeAvailable(roomID int64, startDay, endDay int) bool
}

// Committer turns a validated range into a reservation (create or reuse).
type Committer interface {
	Commit(ctx context.Context, roomID int64, startDay, endDay int) error
}

type CommitFunc func(ctx context.Context, roomID int64, startDay, endDay int) error

func (f CommitFunc) Commit(ctx context.Context, roomID int64, startDay, endDay int) error {
	return f(ctx, roomID, startDay, endDay)
}

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelecting  Phase = "selecting"
	PhaseCommitting Phase = "committing"
)

// State is a snapshot of the gesture. StartDay and EndDay are unordered; use
// Range for the normalised bounds.
type State struct {
	Phase         Phase `json:"phase"`
	RoomID        int64 `json:"roomId,omitempty"`
	StartDay      int   `json:"startDay,omitempty"`
	EndDay        int   `json:"endDay,omitempty"`
	HoveredDay    int   `json:"hoveredDay,omitempty"`
	HoveredRoomID int64 `json:"hoveredRoomId,omitempty"`
	Valid         bool  `json:"valid"`
	WarningShown  bool  `json:"-"`
}

func (s State) Active() bool { return s.Phase != PhaseIdle }

func (s State) Range() (int, int) {
	if s.StartDay > s.EndDay {
		return s.EndDay, s.StartDay
	}
	return s.StartDay, s.EndDay
}

// Selector is the drag-to-select gesture machine. Only one gesture exists at a
// time; every resolution path ends in idle.
type Selector struct {
	mu     sync.Mutex
	state  State
	avail  func() Availability
	isPast func(day int) bool
	commit Committer
	notify notify.Notifier
}

func New(avail func() Availability, isPast func(day int) bool, commit Committer, n notify.Notifier) *Selector {
	if n == nil {
		n = notify.Func(func(notify.Notice) {})
	}
	return &Selector{
		state:  idleState(),
		avail:  avail,
		isPast: isPast,
		commit: commit,
		notify: n,
	}
}

func idleState() State {
	return State{Phase: PhaseIdle, Valid: true}
}

func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Selector) Active() bool {
	return s.State().Active()
}

// Start begins a gesture on an eligible cell. It reports false when a gesture
// is already running, the day is in the past, or the cell is occupied.
func (s *Selector) Start(roomID int64, day int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Active() {
		return false
	}
	if s.isPast(day) || s.avail().IsDayOccupied(roomID, day) {
		return false
	}
	s.state = State{
		Phase:         PhaseSelecting,
		RoomID:        roomID,
		StartDay:      day,
		EndDay:        day,
		HoveredDay:    day,
		HoveredRoomID: roomID,
		Valid:         true,
	}
	return true
}

// Update moves the free end of the range. Other rooms and past days are
// ignored.
func (s *Selector) Update(roomID int64, day int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseSelecting || s.isPast(day) {
		return
	}
	s.state.HoveredDay = day
	s.state.HoveredRoomID = roomID
	if roomID != s.state.RoomID {
		return
	}

	s.state.EndDay = day
	lo, hi := s.state.Range()
	s.state.Valid = s.avail().IsRangeAvailable(s.state.RoomID, lo, hi)

	if !s.state.Valid && !s.state.WarningShown {
		s.state.WarningShown = true
		s.notify.Notify(overlapNotice())
	}
}

// Finalize resolves the gesture on pointer-up. A valid range is handed to the
// Committer; an invalid one is reported and dropped. The selector is idle when
// Finalize returns, and committed is false when there was nothing to commit.
func (s *Selector) Finalize(ctx context.Context) (committed bool, err error) {
	s.mu.Lock()
	if s.state.Phase != PhaseSelecting {
		s.mu.Unlock()
		return false, nil
	}
	st := s.state
	if !st.Valid {
		s.notify.Notify(overlapNotice())
		s.state = idleState()
		s.mu.Unlock()
		return false, nil
	}
	s.state.Phase = PhaseCommitting
	s.mu.Unlock()

	lo, hi := st.Range()
	err = s.commit.Commit(ctx, st.RoomID, lo, hi)

	s.mu.Lock()
	s.state = idleState()
	s.mu.Unlock()
	return err == nil, err
}

// Cancel drops the running gesture (Escape).
func (s *Selector) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseSelecting {
		return false
	}
	s.notify.Notify(notify.Notice{Type: notify.TypeInfo, Message: "Selection cancelled"})
	s.state = idleState()
	return true
}

// Contains reports whether roomID/day lies inside the active range.
func (s *Selector) Contains(roomID int64, day int) bool {
	st := s.State()
	if !st.Active() || st.RoomID != roomID {
		return false
	}
	lo, hi := st.Range()
	return day >= lo && day <= hi
}

func overlapNotice() notify.Notice {
	return notify.Notice{
		Type:    notify.TypeWarning,
		Title:   "Invalid selection",
		Message: "The selected range overlaps an existing reservation.",
		Code:    reservation.CodeRangeUnavailable,
	}
}
