package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/reservation"
)

var march2024 = Month{Year: 2024, Month: 3}

func res(id, booking, room int64, start, end, state string) reservation.Reservation {
	return reservation.Reservation{
		ID: id, BookingID: booking, RoomID: room,
		DateStart: start, DateEnd: end, State: state,
	}
}

func TestBuild_CheckoutDayIsFree(t *testing.T) {
	idx := Build(march2024, []reservation.Reservation{
		res(1, 10, 7, "2024-03-05", "2024-03-08", "checkin"),
	})

	for day := 5; day <= 7; day++ {
		assert.True(t, idx.IsDayOccupied(7, day), "day %d", day)
	}
	assert.False(t, idx.IsDayOccupied(7, 8))
	assert.False(t, idx.IsDayOccupied(7, 4))
	assert.True(t, idx.IsRangeAvailable(7, 8, 10))
	assert.False(t, idx.IsRangeAvailable(7, 10, 6), "bounds are order-insensitive")

	cell, ok := idx.At(7, 8)
	require.True(t, ok)
	assert.True(t, cell.ConflictOnly)
}

func TestBuild_PrimaryNightsAreExclusiveOfEnd(t *testing.T) {
	rs := []reservation.Reservation{
		res(1, 1, 1, "2024-03-01", "2024-03-04", "confirmed"),
		res(2, 2, 1, "2024-03-10T14:00:00", "2024-03-12T11:00:00", "confirmed"),
		res(3, 3, 2, "2024-03-20 12:00:00", "2024-03-31 10:00:00", "initial"),
	}
	idx := Build(march2024, rs)

	for _, r := range rs {
		start, end, err := r.Span()
		require.NoError(t, err)
		for day := 1; day <= march2024.DaysIn(); day++ {
			d := march2024.Date(day)
			want := !d.Before(reservation.DateOnly(start)) && d.Before(reservation.DateOnly(end))
			c, ok := idx.At(r.RoomID, day)
			primary := ok && !c.ConflictOnly && c.Reservation.ID == r.ID
			assert.Equal(t, want, primary, "reservation %d day %d", r.ID, day)
		}
	}
}

func TestIsDayOccupied_VacatingStates(t *testing.T) {
	for _, st := range []string{"cancelled", "cancel", "room_ready"} {
		idx := Build(march2024, []reservation.Reservation{res(1, 1, 3, "2024-03-10", "2024-03-12", st)})
		assert.False(t, idx.IsDayOccupied(3, 10), st)
		assert.True(t, idx.IsRangeAvailable(3, 9, 12), st)
	}
	for _, st := range []string{"initial", "confirmed", "checkin", "checkout", "cleaning_needed", "no_show", "check_in", "weird"} {
		idx := Build(march2024, []reservation.Reservation{res(1, 1, 3, "2024-03-10", "2024-03-12", st)})
		assert.True(t, idx.IsDayOccupied(3, 10), st)
	}
}

func TestBuild_CrossMonthOverflowDiscarded(t *testing.T) {
	idx := Build(march2024, []reservation.Reservation{
		res(1, 1, 1, "2024-02-27", "2024-03-03", "confirmed"),
		res(2, 2, 2, "2024-03-30", "2024-04-04", "confirmed"),
	})

	assert.True(t, idx.IsDayOccupied(1, 1))
	assert.True(t, idx.IsDayOccupied(1, 2))
	assert.False(t, idx.IsDayOccupied(1, 3))
	assert.True(t, idx.IsDayOccupied(2, 30))
	assert.True(t, idx.IsDayOccupied(2, 31))
	_, ok := idx.At(2, 1)
	assert.False(t, ok, "April days must not leak into March")
	_, ok = idx.At(1, 27)
	assert.False(t, ok, "February days must not leak into March")
}

func TestBuild_SkipsBadReservations(t *testing.T) {
	idx := Build(march2024, []reservation.Reservation{
		res(1, 1, 1, "not-a-date", "2024-03-03", "confirmed"),
		res(2, 2, 0, "2024-03-01", "2024-03-03", "confirmed"),
		res(3, 3, 1, "2024-03-09", "2024-03-05", "confirmed"),
		res(4, 4, 1, "2024-03-10", "2024-03-12", "confirmed"),
	})

	assert.Equal(t, 3, idx.Skipped())
	assert.True(t, idx.IsDayOccupied(1, 10))
	assert.False(t, idx.IsDayOccupied(1, 1))
	require.Len(t, idx.ReservationsForRoom(1), 1)
}

func TestBuild_ConflictMarkerNeverOverridesPrimary(t *testing.T) {
	outgoing := res(1, 1, 5, "2024-03-01", "2024-03-05", "checkin")
	incoming := res(2, 2, 5, "2024-03-05", "2024-03-08", "confirmed")

	for _, rs := range [][]reservation.Reservation{{outgoing, incoming}, {incoming, outgoing}} {
		idx := Build(march2024, rs)
		c, ok := idx.At(5, 5)
		require.True(t, ok)
		assert.False(t, c.ConflictOnly)
		assert.Equal(t, int64(2), c.Reservation.ID)
	}
}

func TestReservationsForRoom_Deduplicated(t *testing.T) {
	idx := Build(march2024, []reservation.Reservation{
		res(1, 1, 9, "2024-03-01", "2024-03-05", "confirmed"),
		res(2, 2, 9, "2024-03-10", "2024-03-15", "checkin"),
	})
	got := idx.ReservationsForRoom(9)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Nil(t, idx.ReservationsForRoom(404))
}

func TestHasCleaningReservationInRange(t *testing.T) {
	idx := Build(march2024, []reservation.Reservation{
		res(1, 1, 4, "2024-03-10", "2024-03-12", "cleaning_needed"),
	})
	assert.True(t, idx.HasCleaningReservationInRange(4, 8, 10))
	assert.True(t, idx.HasCleaningReservationInRange(4, 12, 12), "checkout-day marker counts")
	assert.False(t, idx.HasCleaningReservationInRange(4, 13, 20))
	assert.False(t, idx.HasCleaningReservationInRange(5, 1, 31))
}

func TestBuild_RebuildDropsStaleEntries(t *testing.T) {
	first := Build(march2024, []reservation.Reservation{res(1, 1, 1, "2024-03-01", "2024-03-05", "confirmed")})
	require.True(t, first.IsDayOccupied(1, 2))

	second := Build(march2024, nil)
	assert.False(t, second.IsDayOccupied(1, 2))
	assert.Empty(t, second.ReservationsForRoom(1))
}

func TestMonth(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, 29, m.DaysIn())
	assert.Equal(t, "2024-03", m.Add(1).String())
	assert.Equal(t, "2023-12", m.Add(-2).String())
	assert.Len(t, m.Days(), 29)
	assert.False(t, m.ValidDay(30))

	_, err = ParseMonth("2024/02")
	assert.Error(t, err)
}
