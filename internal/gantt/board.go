package gantt

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
	"frontdesk/internal/selection"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomNotFound        = errors.New("room not found")
)

// Journal records operator actions. A nil Journal disables recording.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

type Options struct {
	Backend  Backend
	Journal  Journal
	Notices  *notify.Queue
	Shell    Shell
	Now      func() time.Time
	Location *time.Location
	Layout   Layout

	UserID  int64
	HotelID int64

	// Debug enables per-load logging.
	Debug bool
}

// Board is the reservation Gantt view-model for one operator session. All
// state is guarded by mu; backend calls run without it.
type Board struct {
	mu sync.Mutex

	backend Backend
	journal Journal
	notices *notify.Queue
	shell   Shell
	clock   func() time.Time
	loc     *time.Location
	layout  Layout
	userID  int64
	debug   bool

	month        occupancy.Month
	hotels       []reservation.Hotel
	hotelsLoaded bool
	hotelID      int64
	roomType     string
	stateFilter  reservation.Status

	rooms        []reservation.Room
	reservations []reservation.Reservation
	info         reservation.MonthInfo
	index        *occupancy.Index
	loadErr      error

	loading bool
	seq     uint64

	selector *selection.Selector
}

func NewBoard(opts Options) *Board {
	b := &Board{
		backend: opts.Backend,
		journal: opts.Journal,
		notices: opts.Notices,
		shell:   opts.Shell,
		clock:   opts.Now,
		loc:     opts.Location,
		layout:  opts.Layout,
		userID:  opts.UserID,
		hotelID: opts.HotelID,
		debug:   opts.Debug,
	}
	if b.notices == nil {
		b.notices = notify.NewQueue(0)
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.layout == (Layout{}) {
		b.layout = DefaultLayout
	}
	b.month = occupancy.MonthOf(b.now())
	b.index = occupancy.Build(b.month, nil)
	b.selector = selection.New(b.availability, b.isPast, selection.CommitFunc(b.CreateReservation), b.notices)
	return b
}

func (b *Board) now() time.Time {
	return b.clock().In(b.loc)
}

// today is midnight of the operator's local calendar day.
func (b *Board) today() time.Time {
	return reservation.DateOnly(b.now())
}

func (b *Board) isPast(day int) bool {
	b.mu.Lock()
	month := b.month
	b.mu.Unlock()
	return month.Date(day).Before(b.today())
}

func (b *Board) availability() selection.Availability {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

func (b *Board) notify(t notify.Type, title, msg, code string) {
	b.notices.Notify(notify.Notice{Type: t, Title: title, Message: msg, Code: code})
}

// Notices drains the pending notices.
func (b *Board) Notices() []notify.Notice {
	return b.notices.Drain()
}

// Load fetches hotels (once) and the month's rooms and reservations, then
// rebuilds the occupancy index. A response overtaken by a newer Load is
// dropped.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	month := b.month
	needHotels := !b.hotelsLoaded
	b.loading = true
	b.mu.Unlock()

	if needHotels {
		hotels, err := b.backend.Hotels(ctx)
		b.mu.Lock()
		if err != nil {
			b.hotels = nil
			b.notify(notify.TypeDanger, "", "Could not load hotels.", reservation.CodeDataLoadFailed)
			log.Printf("board hotels load failed user=%d err=%v", b.userID, err)
		} else {
			b.hotels = hotels
			b.hotelsLoaded = true
			if b.hotelID == 0 && len(hotels) > 0 {
				b.hotelID = hotels[0].ID
			}
		}
		b.mu.Unlock()
	}

	b.mu.Lock()
	hotelID := b.hotelID
	b.mu.Unlock()

	data, err := b.backend.MonthData(ctx, month, hotelID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.seq {
		if b.debug {
			log.Printf("board stale load dropped user=%d seq=%d latest=%d month=%s", b.userID, seq, b.seq, month)
		}
		return nil
	}
	b.loading = false

	if err != nil {
		b.loadErr = reservation.DataLoadError{What: "gantt data", Err: err}
		b.rooms = nil
		b.reservations = nil
		b.info = reservation.MonthInfo{}
		b.index = occupancy.Build(month, nil)
		b.notify(notify.TypeDanger, "", "Could not load the calendar data: "+err.Error(), reservation.CodeDataLoadFailed)
		log.Printf("board load failed user=%d month=%s hotel=%d err=%v", b.userID, month, hotelID, err)
		return b.loadErr
	}

	b.loadErr = nil
	b.rooms = data.Rooms
	b.reservations = data.Reservations
	b.info = data.Info
	b.index = occupancy.Build(month, data.Reservations)
	if b.debug {
		log.Printf("board loaded user=%d month=%s hotel=%d rooms=%d reservations=%d skipped=%d",
			b.userID, month, hotelID, len(data.Rooms), len(data.Reservations), b.index.Skipped())
	}
	return nil
}

// Refresh reloads the current view.
func (b *Board) Refresh(ctx context.Context) error {
	return b.Load(ctx)
}

func (b *Board) SetMonth(ctx context.Context, m occupancy.Month) error {
	b.mu.Lock()
	b.month = m
	b.mu.Unlock()
	b.selector.Cancel()
	return b.Load(ctx)
}

func (b *Board) PrevMonth(ctx context.Context) error {
	return b.SetMonth(ctx, b.Month().Add(-1))
}

func (b *Board) NextMonth(ctx context.Context) error {
	return b.SetMonth(ctx, b.Month().Add(1))
}

func (b *Board) GoToToday(ctx context.Context) error {
	return b.SetMonth(ctx, occupancy.MonthOf(b.now()))
}

// SetHotel switches hotel and clears the room-type filter. 0 shows every hotel.
func (b *Board) SetHotel(ctx context.Context, hotelID int64) error {
	b.mu.Lock()
	b.hotelID = hotelID
	b.roomType = ""
	b.mu.Unlock()
	return b.Load(ctx)
}

func (b *Board) SetRoomType(roomType string) {
	b.mu.Lock()
	b.roomType = roomType
	b.mu.Unlock()
}

// SetStateFilter restricts the visible bars to one canonical state; ""
// clears it.
func (b *Board) SetStateFilter(raw string) error {
	var st reservation.Status
	if raw != "" {
		s, err := reservation.ParseStatus(raw)
		if err != nil {
			return err
		}
		st = s
	}
	b.mu.Lock()
	b.stateFilter = st
	b.mu.Unlock()
	return nil
}

func (b *Board) Month() occupancy.Month {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.month
}

func (b *Board) HotelID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hotelID
}

func (b *Board) Hotels() []reservation.Hotel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]reservation.Hotel(nil), b.hotels...)
}

// Info is the month metadata sent by the backend with the last load.
func (b *Board) Info() reservation.MonthInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Index returns the occupancy index of the last applied load.
func (b *Board) Index() *occupancy.Index {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

func (b *Board) reservationByID(id int64) (reservation.Reservation, bool) {
	for _, r := range b.reservations {
		if r.ID == id {
			return r, true
		}
	}
	return reservation.Reservation{}, false
}

func (b *Board) roomByID(id int64) (reservation.Room, bool) {
	for _, r := range b.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return reservation.Room{}, false
}

func (b *Board) record(ctx context.Context, e journal.Entry) {
	if b.journal == nil {
		return
	}
	e.ActorID = b.userID
	if err := b.journal.Record(ctx, e); err != nil {
		log.Printf("board journal write failed user=%d action=%s err=%v", b.userID, e.Action, err)
	}
}

// Selection gestures.

func (b *Board) StartSelection(roomID int64, day int) bool {
	if !b.Month().ValidDay(day) {
		return false
	}
	return b.selector.Start(roomID, day)
}

func (b *Board) MoveSelection(roomID int64, day int) {
	if !b.Month().ValidDay(day) {
		return
	}
	b.selector.Update(roomID, day)
}

func (b *Board) EndSelection(ctx context.Context) (bool, error) {
	return b.selector.Finalize(ctx)
}

func (b *Board) CancelSelection() bool {
	return b.selector.Cancel()
}

func (b *Board) Selection() selection.State {
	return b.selector.State()
}
