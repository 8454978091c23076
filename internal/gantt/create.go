package gantt

import (
	"context"
	"log"
	"time"

	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
)

const formDateTimeLayout = "2006-01-02 15:04:05"

// findReusable returns a room_ready reservation on roomID whose stay covers
// [from, to] by calendar day.
func findReusable(rs []reservation.Reservation, roomID int64, from, to time.Time) (reservation.Reservation, bool) {
	for _, r := range rs {
		if r.RoomID != roomID || !r.HasStatus(reservation.StatusRoomReady) {
			continue
		}
		start, end, err := r.Span()
		if err != nil {
			continue
		}
		if !reservation.DateOnly(start).After(from) && !reservation.DateOnly(end).Before(to) {
			return r, true
		}
	}
	return reservation.Reservation{}, false
}

// CreateReservation runs the creation flow for a committed selection: reuse a
// room_ready booking covering the range, or re-check availability and open a
// pre-filled new-booking form.
func (b *Board) CreateReservation(ctx context.Context, roomID int64, startDay, endDay int) error {
	if startDay > endDay {
		startDay, endDay = endDay, startDay
	}

	b.mu.Lock()
	month := b.month
	idx := b.index
	room, roomOK := b.roomByID(roomID)
	selectedHotel := b.hotelID
	reusable, reuseOK := findReusable(b.reservations, roomID, month.Date(startDay), month.Date(endDay))
	b.mu.Unlock()

	if reuseOK {
		return b.reuse(ctx, reusable)
	}

	if idx.HasCleaningReservationInRange(roomID, startDay, endDay) {
		err := reservation.RangeUnavailableError{RoomID: roomID, StartDay: startDay, EndDay: endDay, Cleaning: true}
		b.notify(notify.TypeWarning, "Room being cleaned",
			"The room is being cleaned. Finish the cleaning before booking it.", err.Code())
		return err
	}
	if !idx.IsRangeAvailable(roomID, startDay, endDay) {
		err := reservation.RangeUnavailableError{RoomID: roomID, StartDay: startDay, EndDay: endDay}
		b.notify(notify.TypeWarning, "Invalid reservation",
			"The room is occupied in the selected range.", err.Code())
		return err
	}
	if !roomOK {
		err := reservation.LookupFailureError{What: "room", Err: ErrRoomNotFound}
		b.notify(notify.TypeWarning, "", "Room not found.", err.Code())
		return err
	}

	now := b.now()
	checkIn := atClock(month, startDay, now)
	checkOut := atClock(month, endDay, now)

	hotelID := room.HotelID
	if hotelID == 0 {
		hotelID = selectedHotel
	}

	partnerID, err := b.backend.DefaultPartner(ctx)
	if err != nil {
		log.Printf("board default partner lookup failed user=%d err=%v", b.userID, err)
		partnerID = 0
	}

	productID, err := b.backend.ProductForRoom(ctx, roomID)
	if err != nil {
		lerr := reservation.LookupFailureError{What: "room product", Err: err}
		b.notify(notify.TypeDanger, "", "Could not resolve the room product: "+err.Error(), lerr.Code())
		return lerr
	}

	a := Action{
		Kind: ActionNewBooking,
		Context: &BookingContext{
			CheckIn:   checkIn.Format(formDateTimeLayout),
			CheckOut:  checkOut.Format(formDateTimeLayout),
			HotelID:   hotelID,
			UserID:    b.userID,
			PartnerID: partnerID,
			ProductID: productID,
			RoomID:    roomID,
		},
	}
	b.record(ctx, journal.Entry{
		Action:  journal.ActionNewBooking,
		RoomID:  roomID,
		Summary: a.Context.CheckIn + " -> " + a.Context.CheckOut,
		Data:    a.Context,
	})
	shellFrom(ctx, b.shell).Open(ctx, a)
	return nil
}

// atClock is day of month at now's wall-clock time of day.
func atClock(month occupancy.Month, day int, now time.Time) time.Time {
	return time.Date(month.Year, month.Month, day, now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
}

func (b *Board) reuse(ctx context.Context, r reservation.Reservation) error {
	shell := shellFrom(ctx, b.shell)
	if !shell.Confirm(ctx, "Create new reservation",
		"A room-ready reservation exists for this room. Create a new reservation based on it?") {
		return nil
	}

	newID, err := b.backend.ReuseRoomReady(ctx, r.GroupID())
	if err != nil {
		b.notify(notify.TypeDanger, "", err.Error(), "")
		return err
	}

	b.record(ctx, journal.Entry{
		Action:        journal.ActionReuse,
		ReservationID: r.ID,
		BookingID:     r.GroupID(),
		RoomID:        r.RoomID,
		Summary:       "reused room_ready booking",
		Data:          map[string]any{"new_booking_id": newID},
	})
	b.notify(notify.TypeSuccess, "", "New reservation created.", "")
	if err := b.Load(ctx); err != nil {
		log.Printf("board reload after reuse failed user=%d err=%v", b.userID, err)
	}
	shell.Open(ctx, Action{Kind: ActionOpenBooking, BookingID: newID})
	return nil
}

// ClickCell handles a plain click on an empty cell: a one-day booking.
func (b *Board) ClickCell(ctx context.Context, roomID int64, day int) error {
	if b.selector.Active() {
		return nil
	}
	month := b.Month()
	if !month.ValidDay(day) || b.isPast(day) {
		return nil
	}
	idx := b.Index()
	if idx.HasCleaningReservationInRange(roomID, day, day) {
		err := reservation.RangeUnavailableError{RoomID: roomID, StartDay: day, EndDay: day, Cleaning: true}
		b.notify(notify.TypeWarning, "Room being cleaned",
			"The room is being cleaned. Finish the cleaning before booking it.", err.Code())
		return err
	}
	if idx.IsDayOccupied(roomID, day) {
		return nil
	}
	return b.CreateReservation(ctx, roomID, day, day)
}
