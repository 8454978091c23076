package gantt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
	"frontdesk/internal/selection"
)

func TestCreate_FromDragSelection(t *testing.T) {
	f := loadedFixture(t)
	ctx := context.Background()

	require.True(t, f.board.StartSelection(2, 13))
	f.board.MoveSelection(2, 14)
	committed, err := f.board.EndSelection(ctx)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, selection.PhaseIdle, f.board.Selection().Phase)

	require.Len(t, f.shell.Actions, 1)
	a := f.shell.Actions[0]
	assert.Equal(t, ActionNewBooking, a.Kind)
	assert.Equal(t, &BookingContext{
		CheckIn:   "2024-03-13 14:30:00",
		CheckOut:  "2024-03-14 14:30:00",
		HotelID:   1,
		UserID:    7,
		PartnerID: 55,
		ProductID: 902,
		RoomID:    2,
	}, a.Context)

	entries, _ := f.journal.List(ctx, journal.Filter{})
	require.Len(t, entries, 1)
	assert.Equal(t, journal.ActionNewBooking, entries[0].Action)
	assert.Equal(t, int64(2), entries[0].RoomID)
}

func TestCreate_ReversedBounds(t *testing.T) {
	f := loadedFixture(t)

	require.NoError(t, f.board.CreateReservation(context.Background(), 2, 14, 13))
	require.Len(t, f.shell.Actions, 1)
	assert.Equal(t, "2024-03-13 14:30:00", f.shell.Actions[0].Context.CheckIn)
}

func TestCreate_PartnerIsBestEffort(t *testing.T) {
	f := loadedFixture(t)
	f.backend.PartnerFn = func(context.Context) (int64, error) { return 0, errors.New("no partner") }

	require.NoError(t, f.board.CreateReservation(context.Background(), 2, 20, 21))
	require.Len(t, f.shell.Actions, 1)
	assert.Zero(t, f.shell.Actions[0].Context.PartnerID)
}

func TestCreate_ProductLookupFailure(t *testing.T) {
	f := loadedFixture(t)
	f.backend.ProductFn = func(context.Context, int64) (int64, error) {
		return 0, errors.New("room has no product template")
	}

	require.True(t, f.board.StartSelection(2, 20))
	committed, err := f.board.EndSelection(context.Background())
	assert.False(t, committed)

	var lerr reservation.LookupFailureError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, reservation.CodeLookupFailed, reservation.CodeOf(err))
	assert.Empty(t, f.shell.Actions)
	assert.Equal(t, []notify.Type{notify.TypeDanger}, noticeTypes(f.notices.Drain()))
	assert.False(t, f.board.Selection().Active())
}

func TestCreate_UnknownRoom(t *testing.T) {
	f := loadedFixture(t)

	err := f.board.CreateReservation(context.Background(), 99, 20, 21)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, f.shell.Actions)
}

func TestCreate_HotelFallsBackToSelection(t *testing.T) {
	f := newFixture(t)
	f.backend.MonthDataFn = func(context.Context, occupancy.Month, int64) (MonthData, error) {
		d := marchData()
		d.Rooms = append(d.Rooms, reservation.Room{ID: 5, Name: "Suite 105"})
		return d, nil
	}
	require.NoError(t, f.board.Load(context.Background()))

	require.NoError(t, f.board.CreateReservation(context.Background(), 5, 20, 20))
	require.Len(t, f.shell.Actions, 1)
	assert.Equal(t, int64(1), f.shell.Actions[0].Context.HotelID)
}

func TestCreate_CleaningBlocks(t *testing.T) {
	f := loadedFixture(t)

	err := f.board.CreateReservation(context.Background(), 3, 21, 22)
	require.ErrorIs(t, err, reservation.ErrCleaningBlocked)
	assert.Equal(t, reservation.CodeCleaningBlocked, reservation.CodeOf(err))
	assert.Empty(t, f.shell.Actions)
	assert.Equal(t, []notify.Type{notify.TypeWarning}, noticeTypes(f.notices.Drain()))
}

func TestCreate_RangeTakenMeanwhile(t *testing.T) {
	f := loadedFixture(t)

	err := f.board.CreateReservation(context.Background(), 2, 15, 16)
	var rerr reservation.RangeUnavailableError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, errors.Is(err, reservation.ErrCleaningBlocked))
	assert.Equal(t, reservation.CodeRangeUnavailable, reservation.CodeOf(err))
	assert.Empty(t, f.shell.Actions)
}

func TestCreate_ReusesRoomReadyBooking(t *testing.T) {
	f := loadedFixture(t)
	ctx := context.Background()

	require.NoError(t, f.board.CreateReservation(ctx, 2, 25, 27))

	assert.Len(t, f.shell.Prompts, 1)
	assert.Equal(t, []int64{103}, f.backend.reused)
	assert.Equal(t, []Action{{Kind: ActionOpenBooking, BookingID: 1003}}, f.shell.Actions)
	assert.Equal(t, 2, f.backend.loads())
	assert.Equal(t, []notify.Type{notify.TypeSuccess}, noticeTypes(f.notices.Drain()))

	entries, _ := f.journal.List(ctx, journal.Filter{BookingID: 103})
	require.Len(t, entries, 1)
	assert.Equal(t, journal.ActionReuse, entries[0].Action)
}

func TestCreate_ReuseDeclined(t *testing.T) {
	f := loadedFixture(t)
	ctx := WithShell(context.Background(), &Recorder{Answer: false})

	require.NoError(t, f.board.CreateReservation(ctx, 2, 25, 26))
	assert.Empty(t, f.backend.reused)
	assert.Empty(t, f.shell.Actions)
	assert.Equal(t, 1, f.backend.loads())
}

func TestCreate_ReuseOnlyWhenStayCoversRange(t *testing.T) {
	f := loadedFixture(t)

	// 14 ends on the 28th; the 29th falls outside it.
	require.NoError(t, f.board.CreateReservation(context.Background(), 2, 27, 29))
	assert.Empty(t, f.shell.Prompts)
	assert.Empty(t, f.backend.reused)
	require.Len(t, f.shell.Actions, 1)
	assert.Equal(t, ActionNewBooking, f.shell.Actions[0].Kind)
}

func TestCreate_NoShellDeclines(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBoard(Options{Backend: backend, Now: func() time.Time { return fixedNow }})
	require.NoError(t, b.Load(context.Background()))

	require.NoError(t, b.CreateReservation(context.Background(), 2, 25, 26))
	assert.Empty(t, backend.reused)
}

func TestClickCell(t *testing.T) {
	f := loadedFixture(t)
	ctx := context.Background()

	require.NoError(t, f.board.ClickCell(ctx, 2, 20))
	require.Len(t, f.shell.Actions, 1)
	c := f.shell.Actions[0].Context
	assert.Equal(t, "2024-03-20 14:30:00", c.CheckIn)
	assert.Equal(t, c.CheckIn, c.CheckOut)

	require.NoError(t, f.board.ClickCell(ctx, 2, 9), "past day")
	require.NoError(t, f.board.ClickCell(ctx, 2, 15), "occupied")
	require.NoError(t, f.board.ClickCell(ctx, 2, 32), "outside the month")
	assert.Len(t, f.shell.Actions, 1)

	err := f.board.ClickCell(ctx, 3, 22)
	assert.ErrorIs(t, err, reservation.ErrCleaningBlocked, "checkout day of a stay waiting for cleaning")
}

func TestClickCell_IgnoredDuringDrag(t *testing.T) {
	f := loadedFixture(t)

	require.True(t, f.board.StartSelection(2, 13))
	require.NoError(t, f.board.ClickCell(context.Background(), 2, 20))
	assert.Empty(t, f.shell.Actions)
}
