package gantt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
)

type actionCall struct {
	bookingID int64
	method    string
}

type fakeBackend struct {
	mu sync.Mutex

	HotelsFn    func(ctx context.Context) ([]reservation.Hotel, error)
	MonthDataFn func(ctx context.Context, m occupancy.Month, hotelID int64) (MonthData, error)
	PartnerFn   func(ctx context.Context) (int64, error)
	ProductFn   func(ctx context.Context, roomID int64) (int64, error)
	ReuseFn     func(ctx context.Context, bookingID int64) (int64, error)
	ActionFn    func(ctx context.Context, bookingID int64, method string) error

	monthCalls []int64
	actions    []actionCall
	reused     []int64
}

func (f *fakeBackend) Hotels(ctx context.Context) ([]reservation.Hotel, error) {
	if f.HotelsFn != nil {
		return f.HotelsFn(ctx)
	}
	return []reservation.Hotel{{ID: 1, Name: "Hotel Central"}, {ID: 2, Name: "Hotel Plaza"}}, nil
}

func (f *fakeBackend) MonthData(ctx context.Context, m occupancy.Month, hotelID int64) (MonthData, error) {
	f.mu.Lock()
	f.monthCalls = append(f.monthCalls, hotelID)
	f.mu.Unlock()
	if f.MonthDataFn != nil {
		return f.MonthDataFn(ctx, m, hotelID)
	}
	return marchData(), nil
}

func (f *fakeBackend) DefaultPartner(ctx context.Context) (int64, error) {
	if f.PartnerFn != nil {
		return f.PartnerFn(ctx)
	}
	return 55, nil
}

func (f *fakeBackend) ProductForRoom(ctx context.Context, roomID int64) (int64, error) {
	if f.ProductFn != nil {
		return f.ProductFn(ctx, roomID)
	}
	return 900 + roomID, nil
}

func (f *fakeBackend) ReuseRoomReady(ctx context.Context, bookingID int64) (int64, error) {
	f.mu.Lock()
	f.reused = append(f.reused, bookingID)
	f.mu.Unlock()
	if f.ReuseFn != nil {
		return f.ReuseFn(ctx, bookingID)
	}
	return 900 + bookingID, nil
}

func (f *fakeBackend) RunAction(ctx context.Context, bookingID int64, method string) error {
	f.mu.Lock()
	f.actions = append(f.actions, actionCall{bookingID, method})
	f.mu.Unlock()
	if f.ActionFn != nil {
		return f.ActionFn(ctx, bookingID, method)
	}
	return nil
}

func (f *fakeBackend) loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.monthCalls)
}

// 2024-03-10 is a Sunday.
var fixedNow = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func stay(id, booking, room int64, start, end, state, customer string) reservation.Reservation {
	return reservation.Reservation{
		ID: id, BookingID: booking, RoomID: room,
		DateStart: start, DateEnd: end, State: state,
		CustomerName: customer, TotalAmount: decimal.NewFromInt(300), CurrencySymbol: "$",
	}
}

func marchData() MonthData {
	return MonthData{
		Rooms: []reservation.Room{
			{ID: 1, Name: "Suite 101", HotelID: 1, Capacity: 3},
			{ID: 2, Name: "Suite 102", HotelID: 1, Capacity: 2},
			{ID: 3, Name: "Double 201", HotelID: 1, Capacity: 2},
			{ID: 4, Name: "Single 301", HotelID: 2, Capacity: 1},
		},
		Reservations: []reservation.Reservation{
			stay(11, 100, 1, "2024-03-08", "2024-03-12", "checkin", "Jane Doe"),
			stay(12, 101, 2, "2024-03-15", "2024-03-18", "confirmed", "Carlos Mendoza"),
			stay(13, 102, 3, "2024-03-20", "2024-03-22", "cleaning_needed", "Ana Ruiz"),
			stay(14, 103, 2, "2024-03-25", "2024-03-28", "room_ready", "Luis Soto"),
			stay(15, 104, 1, "2024-03-14", "2024-03-16", "confirmed", "Maria Lopez"),
			stay(16, 104, 3, "2024-03-16", "2024-03-19", "confirmed", "Maria Lopez"),
			stay(17, 105, 4, "2024-03-01", "2024-03-05", "checkin", "Pedro Diaz"),
			stay(18, 106, 2, "2024-03-10", "2024-03-12", "confirmed", "Rosa Vega"),
			stay(19, 107, 3, "2024-02-27", "2024-03-03", "checkout", "Old Guest"),
			stay(20, 108, 3, "2024-04-02", "2024-04-04", "confirmed", "Future Guest"),
		},
		Info: reservation.MonthInfo{MonthName: "March 2024", FirstDayStr: "2024-03-01"},
	}
}

type fixture struct {
	board   *Board
	backend *fakeBackend
	shell   *Recorder
	journal *journal.Memory
	notices *notify.Queue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: &fakeBackend{},
		shell:   &Recorder{Answer: true},
		journal: journal.NewMemory(0),
		notices: notify.NewQueue(0),
	}
	f.board = NewBoard(Options{
		Backend: f.backend,
		Journal: f.journal,
		Notices: f.notices,
		Shell:   f.shell,
		Now:     func() time.Time { return fixedNow },
		UserID:  7,
	})
	return f
}

func loadedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, f.board.Load(context.Background()))
	f.notices.Drain()
	return f
}

func noticeTypes(ns []notify.Notice) []notify.Type {
	out := make([]notify.Type, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Type)
	}
	return out
}

func TestLoad_SelectsFirstHotelAndBuildsIndex(t *testing.T) {
	f := loadedFixture(t)

	assert.Equal(t, int64(1), f.board.HotelID())
	assert.Equal(t, []int64{1}, f.backend.monthCalls)
	assert.Len(t, f.board.Hotels(), 2)
	assert.False(t, f.board.Loading())

	idx := f.board.Index()
	assert.True(t, idx.IsDayOccupied(1, 10))
	assert.False(t, idx.IsDayOccupied(1, 12), "checkout day is free")
}

func TestLoad_OperatorHotelIsKept(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBoard(Options{Backend: backend, Now: func() time.Time { return fixedNow }, HotelID: 2})
	require.NoError(t, b.Load(context.Background()))
	assert.Equal(t, []int64{2}, backend.monthCalls)
}

func TestLoad_FailureFallsBackToEmpty(t *testing.T) {
	f := loadedFixture(t)
	f.backend.MonthDataFn = func(context.Context, occupancy.Month, int64) (MonthData, error) {
		return MonthData{}, errors.New("connection refused")
	}

	err := f.board.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, reservation.CodeDataLoadFailed, reservation.CodeOf(err))
	assert.Empty(t, f.board.FilteredRooms())
	assert.Empty(t, f.board.Bars())
	assert.False(t, f.board.Index().IsDayOccupied(1, 10))
	assert.Equal(t, []notify.Type{notify.TypeDanger}, noticeTypes(f.notices.Drain()))
}

func TestLoad_HotelFailureStillLoadsMonth(t *testing.T) {
	f := newFixture(t)
	f.backend.HotelsFn = func(context.Context) ([]reservation.Hotel, error) {
		return nil, errors.New("boom")
	}

	require.NoError(t, f.board.Load(context.Background()))
	assert.Empty(t, f.board.Hotels())
	assert.Equal(t, []int64{0}, f.backend.monthCalls)
	assert.Equal(t, []notify.Type{notify.TypeDanger}, noticeTypes(f.notices.Drain()))
}

func TestLoad_StaleResponseIsDropped(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	april := occupancy.Month{Year: 2024, Month: time.April}

	f.backend.MonthDataFn = func(_ context.Context, m occupancy.Month, _ int64) (MonthData, error) {
		if m.Month == time.March {
			close(started)
			<-release
			return marchData(), nil
		}
		return MonthData{
			Rooms:        []reservation.Room{{ID: 1, Name: "Suite 101", HotelID: 1}},
			Reservations: []reservation.Reservation{stay(30, 300, 1, "2024-04-02", "2024-04-05", "confirmed", "April Guest")},
		}, nil
	}

	done := make(chan error, 1)
	go func() { done <- f.board.Load(context.Background()) }()
	<-started

	require.NoError(t, f.board.SetMonth(context.Background(), april))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, april, f.board.Month())
	got := f.board.FilteredReservations()
	require.Len(t, got, 1)
	assert.Equal(t, int64(30), got[0].ID)
	assert.True(t, f.board.Index().IsDayOccupied(1, 3))
}

func TestFilters(t *testing.T) {
	f := loadedFixture(t)
	ctx := context.Background()

	rooms := f.board.FilteredRooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, []string{"Double", "Suite"}, f.board.RoomTypes())

	f.board.SetRoomType("Suite")
	assert.Len(t, f.board.FilteredRooms(), 2)
	rows := f.board.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].GridRow)
	assert.Equal(t, 3, rows[1].GridRow)

	require.NoError(t, f.board.SetHotel(ctx, 2))
	rooms = f.board.FilteredRooms()
	require.Len(t, rooms, 1, "changing hotel clears the room-type filter")
	assert.Equal(t, int64(4), rooms[0].ID)
	assert.Equal(t, []string{"Single"}, f.board.RoomTypes())

	require.NoError(t, f.board.SetHotel(ctx, 0))
	assert.Len(t, f.board.FilteredRooms(), 4)
}

func TestStateFilter(t *testing.T) {
	f := loadedFixture(t)

	require.NoError(t, f.board.SetStateFilter("checkin"))
	got := f.board.FilteredReservations()
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, int64(17), got[1].ID)

	assert.Error(t, f.board.SetStateFilter("check_in"), "filters take canonical states only")
	require.NoError(t, f.board.SetStateFilter(""))
	assert.Len(t, f.board.FilteredReservations(), 10)
}

func TestKPIs(t *testing.T) {
	f := loadedFixture(t)

	// rooms 1..3 visible; only room 1 has a checked-in guest.
	assert.Equal(t, 33, f.board.OccupancyRate())
	assert.Equal(t, 7, f.board.ActiveReservationsCount())

	require.NoError(t, f.board.SetHotel(context.Background(), 2))
	assert.Equal(t, 100, f.board.OccupancyRate())
}

func TestOccupancyRate_NoRooms(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 0, f.board.OccupancyRate())
}

func TestMonthNavigation(t *testing.T) {
	f := loadedFixture(t)
	ctx := context.Background()

	require.NoError(t, f.board.NextMonth(ctx))
	assert.Equal(t, "2024-04", f.board.Month().String())
	require.NoError(t, f.board.PrevMonth(ctx))
	require.NoError(t, f.board.PrevMonth(ctx))
	assert.Equal(t, "2024-02", f.board.Month().String())
	require.NoError(t, f.board.GoToToday(ctx))
	assert.Equal(t, "2024-03", f.board.Month().String())
	assert.Equal(t, 5, f.backend.loads())

	opts := f.board.MonthOptions()
	require.Len(t, opts, 13)
	assert.Equal(t, "2023-09", opts[0].Value)
	assert.Equal(t, "2024-09", opts[12].Value)
	assert.True(t, opts[6].Selected)
	assert.Equal(t, "March 2024", opts[6].Label)
}
