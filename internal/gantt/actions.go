package gantt

import (
	"context"
	"fmt"

	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/reservation"
)

// Transitions lists the states a reservation may move to next.
func (b *Board) Transitions(reservationID int64) ([]reservation.StatusInfo, error) {
	b.mu.Lock()
	r, ok := b.reservationByID(reservationID)
	b.mu.Unlock()
	if !ok {
		return nil, ErrReservationNotFound
	}

	var out []reservation.StatusInfo
	for _, s := range reservation.AllowedTransitions(r.State) {
		out = append(out, reservation.StatusOf(string(s)))
	}
	return out, nil
}

// ChangeState validates and dispatches a lifecycle change, then reloads. The
// board never applies the change locally.
func (b *Board) ChangeState(ctx context.Context, reservationID int64, to reservation.Status) error {
	b.mu.Lock()
	r, ok := b.reservationByID(reservationID)
	now := b.now()
	b.mu.Unlock()
	if !ok {
		b.notify(notify.TypeWarning, "", "Reservation not found.", "")
		return ErrReservationNotFound
	}

	if err := reservation.CheckTransition(r.State, to); err != nil {
		b.notify(notify.TypeWarning, "Invalid transition", err.Error(), reservation.CodeOf(err))
		return err
	}
	if to == reservation.StatusCheckIn {
		if err := reservation.CheckCheckIn(r.DateStart, now); err != nil {
			b.notify(notify.TypeDanger, "Check-in not allowed", err.Error(), reservation.CodeOf(err))
			return err
		}
	}
	method, ok := reservation.BackendMethod(to)
	if !ok {
		err := reservation.InvalidTransitionError{From: r.State, To: to, Allowed: reservation.AllowedTransitions(r.State)}
		b.notify(notify.TypeWarning, "Invalid transition", err.Error(), err.Code())
		return err
	}

	if err := b.backend.RunAction(ctx, r.GroupID(), method); err != nil {
		b.notify(notify.TypeDanger, "", "Could not change the reservation state.", "")
		return fmt.Errorf("%s booking=%d: %w", method, r.GroupID(), err)
	}

	b.record(ctx, journal.Entry{
		Action:        journal.ActionStateChange,
		ReservationID: r.ID,
		BookingID:     r.GroupID(),
		RoomID:        r.RoomID,
		FromState:     r.State,
		ToState:       string(to),
		Summary:       method,
	})
	b.notify(notify.TypeSuccess, "", "Reservation state updated.", "")
	return b.Load(ctx)
}

// ApplyNextState moves a reservation one step along the front-desk flow.
func (b *Board) ApplyNextState(ctx context.Context, reservationID int64) error {
	b.mu.Lock()
	r, ok := b.reservationByID(reservationID)
	b.mu.Unlock()
	if !ok {
		b.notify(notify.TypeWarning, "", "Reservation not found.", "")
		return ErrReservationNotFound
	}

	next, ok := reservation.NextLogicalState(r.State)
	if !ok {
		err := reservation.InvalidTransitionError{From: r.State, Allowed: reservation.AllowedTransitions(r.State)}
		b.notify(notify.TypeInfo, "", "This reservation has no next state.", err.Code())
		return err
	}
	return b.ChangeState(ctx, reservationID, next)
}

func (b *Board) Confirm(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusConfirmed)
}

func (b *Board) CheckIn(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusCheckIn)
}

func (b *Board) CheckOut(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusCheckOut)
}

func (b *Board) MarkCleaning(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusCleaningNeeded)
}

func (b *Board) MarkRoomReady(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusRoomReady)
}

func (b *Board) Cancel(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusCancelled)
}

func (b *Board) MarkNoShow(ctx context.Context, id int64) error {
	return b.ChangeState(ctx, id, reservation.StatusNoShow)
}

// OpenReservation asks the shell to open the booking behind a bar.
func (b *Board) OpenReservation(ctx context.Context, reservationID int64) (Action, error) {
	b.mu.Lock()
	r, ok := b.reservationByID(reservationID)
	b.mu.Unlock()
	if !ok {
		return Action{}, ErrReservationNotFound
	}

	a := Action{Kind: ActionOpenBooking, BookingID: r.GroupID()}
	b.record(ctx, journal.Entry{
		Action:        journal.ActionOpenBooking,
		ReservationID: r.ID,
		BookingID:     r.GroupID(),
		RoomID:        r.RoomID,
	})
	shellFrom(ctx, b.shell).Open(ctx, a)
	return a, nil
}
