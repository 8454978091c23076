package gantt

import (
	"fmt"
	"math"
	"sort"
	"time"

	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
)

// Layout is the pixel geometry of the grid, used for hit-testing.
type Layout struct {
	HeaderHeight    float64 `json:"headerHeight"`
	RowHeight       float64 `json:"rowHeight"`
	RoomColumnWidth float64 `json:"roomColumnWidth"`
	DayWidth        float64 `json:"dayWidth"`
}

var DefaultLayout = Layout{HeaderHeight: 48, RowHeight: 40, RoomColumnWidth: 160, DayWidth: 36}

// firstRoomRow is the CSS grid row of the first room; row 1 is the day header.
const firstRoomRow = 2

var segmentPalette = []string{
	"#4CAF50", "#2196F3", "#FF9800", "#9C27B0",
	"#F44336", "#00BCD4", "#795548", "#607D8B",
}

// Row is one visible room line of the grid.
type Row struct {
	Index    int    `json:"index"`
	GridRow  int    `json:"gridRow"`
	RoomID   int64  `json:"roomId"`
	Name     string `json:"name"`
	RoomType string `json:"roomType"`
	HotelID  int64  `json:"hotelId,omitempty"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status,omitempty"`
}

type Bar struct {
	ReservationID int64  `json:"reservationId"`
	BookingID     int64  `json:"bookingId"`
	RoomID        int64  `json:"roomId"`
	GridRow       int    `json:"gridRow"`
	StartDay      int    `json:"startDay"`
	Span          int    `json:"span"`
	GridColumn    string `json:"gridColumn"`
	ClippedStart  bool   `json:"clippedStart,omitempty"`
	ClippedEnd    bool   `json:"clippedEnd,omitempty"`

	Label        string `json:"label"`
	Duration     string `json:"duration"`
	State        string `json:"state"`
	Color        string `json:"color"`
	CheckoutSoon bool   `json:"checkoutSoon,omitempty"`

	SegmentIndex int    `json:"segmentIndex,omitempty"`
	SegmentColor string `json:"segmentColor,omitempty"`
	IsFirst      bool   `json:"isFirstSegment,omitempty"`
	IsLast       bool   `json:"isLastSegment,omitempty"`
	HasNext      bool   `json:"hasNextSegment,omitempty"`
}

type DayHeader struct {
	Day       int      `json:"day"`
	Weekday   string   `json:"weekday"`
	IsToday   bool     `json:"isToday"`
	IsWeekend bool     `json:"isWeekend"`
	IsPast    bool     `json:"isPast"`
	Classes   []string `json:"classes"`
}

type MonthOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Overlay is the rendered drag selection.
type Overlay struct {
	Visible    bool   `json:"visible"`
	GridRow    int    `json:"gridRow,omitempty"`
	GridColumn string `json:"gridColumn,omitempty"`
	Text       string `json:"text,omitempty"`
	Valid      bool   `json:"valid"`
}

// ConnectorView is a vertical link between two visible rows on the day a
// booking changes room.
type ConnectorView struct {
	BookingID  int64  `json:"bookingId"`
	FromRoomID int64  `json:"fromRoomId"`
	ToRoomID   int64  `json:"toRoomId"`
	Day        int    `json:"day"`
	GridColumn string `json:"gridColumn"`
	GridRow    string `json:"gridRow"`
}

func (b *Board) hotelRoomsLocked() []reservation.Room {
	if b.hotelID == 0 {
		return b.rooms
	}
	var out []reservation.Room
	for _, r := range b.rooms {
		if r.HotelID == b.hotelID {
			out = append(out, r)
		}
	}
	return out
}

func (b *Board) filteredRoomsLocked() []reservation.Room {
	rooms := b.hotelRoomsLocked()
	if b.roomType == "" {
		return rooms
	}
	var out []reservation.Room
	for _, r := range rooms {
		if r.RoomType() == b.roomType {
			out = append(out, r)
		}
	}
	return out
}

// FilteredRooms applies the hotel and room-type filters.
func (b *Board) FilteredRooms() []reservation.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]reservation.Room(nil), b.filteredRoomsLocked()...)
}

// RoomTypes lists the distinct room types of the selected hotel, sorted.
func (b *Board) RoomTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := map[string]bool{}
	var out []string
	for _, r := range b.hotelRoomsLocked() {
		t := r.RoomType()
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (b *Board) filteredReservationsLocked() []reservation.Reservation {
	if b.stateFilter == "" {
		return b.reservations
	}
	var out []reservation.Reservation
	for _, r := range b.reservations {
		if r.HasStatus(b.stateFilter) {
			out = append(out, r)
		}
	}
	return out
}

// FilteredReservations applies the state filter.
func (b *Board) FilteredReservations() []reservation.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]reservation.Reservation(nil), b.filteredReservationsLocked()...)
}

// OccupancyRate is the share of visible rooms holding a checked-in guest, as
// a whole percentage capped at 100.
func (b *Board) OccupancyRate() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	rooms := b.filteredRoomsLocked()
	if len(rooms) == 0 {
		return 0
	}
	visible := make(map[int64]bool, len(rooms))
	for _, r := range rooms {
		visible[r.ID] = true
	}
	occupied := map[int64]bool{}
	for _, r := range b.reservations {
		if r.HasStatus(reservation.StatusCheckIn) && visible[r.RoomID] {
			occupied[r.RoomID] = true
		}
	}
	rate := int(math.Round(float64(len(occupied)) * 100 / float64(len(rooms))))
	if rate > 100 {
		rate = 100
	}
	return rate
}

// ActiveReservationsCount counts loaded reservations that are confirmed or
// checked in.
func (b *Board) ActiveReservationsCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, r := range b.reservations {
		if r.HasStatus(reservation.StatusConfirmed) || r.HasStatus(reservation.StatusCheckIn) {
			n++
		}
	}
	return n
}

func (b *Board) rowsLocked() []Row {
	rooms := b.filteredRoomsLocked()
	rows := make([]Row, 0, len(rooms))
	for i, r := range rooms {
		rows = append(rows, Row{
			Index:    i,
			GridRow:  i + firstRoomRow,
			RoomID:   r.ID,
			Name:     r.Name,
			RoomType: r.RoomType(),
			HotelID:  r.HotelID,
			Capacity: r.Capacity,
			Status:   r.Status,
		})
	}
	return rows
}

// Rows is the ordered list of visible room rows.
func (b *Board) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rowsLocked()
}

// RowAt returns the room row under vertical offset y.
func (b *Board) RowAt(y float64) (Row, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := b.layout
	if y < l.HeaderHeight || l.RowHeight <= 0 {
		return Row{}, false
	}
	i := int((y - l.HeaderHeight) / l.RowHeight)
	rows := b.rowsLocked()
	if i < 0 || i >= len(rows) {
		return Row{}, false
	}
	return rows[i], true
}

// DayAt returns the day column under horizontal offset x.
func (b *Board) DayAt(x float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := b.layout
	if x < l.RoomColumnWidth || l.DayWidth <= 0 {
		return 0, false
	}
	day := int((x-l.RoomColumnWidth)/l.DayWidth) + 1
	if !b.month.ValidDay(day) {
		return 0, false
	}
	return day, true
}

// Hit resolves a pointer position to a room and day.
func (b *Board) Hit(x, y float64) (roomID int64, day int, ok bool) {
	row, ok := b.RowAt(y)
	if !ok {
		return 0, 0, false
	}
	day, ok = b.DayAt(x)
	if !ok {
		return 0, 0, false
	}
	return row.RoomID, day, true
}

// placement clamps the stay to the month. Bars cover the checkout day too.
func placement(month occupancy.Month, r reservation.Reservation) (startDay, span int, clippedStart, clippedEnd, ok bool) {
	start, end, err := r.Span()
	if err != nil {
		return 0, 0, false, false, false
	}
	monthStart := month.First()
	monthEnd := month.First().AddDate(0, 1, 0).Add(-time.Nanosecond)

	barStart, barEnd := start, end
	if barStart.Before(monthStart) {
		barStart, clippedStart = monthStart, true
	}
	if barEnd.After(monthEnd) {
		barEnd, clippedEnd = monthEnd, true
	}
	if barEnd.Before(monthStart) || barStart.After(monthEnd) {
		return 0, 0, false, false, false
	}

	startDay = barStart.Day()
	span = barEnd.Day() - startDay + 1
	if span < 1 {
		span = 1
	}
	if span > month.DaysIn() {
		span = month.DaysIn()
	}
	return startDay, span, clippedStart, clippedEnd, true
}

func (b *Board) barLocked(r reservation.Reservation, gridRow int, now time.Time) (Bar, bool) {
	startDay, span, cs, ce, ok := placement(b.month, r)
	if !ok {
		return Bar{}, false
	}
	bar := Bar{
		ReservationID: r.ID,
		BookingID:     r.GroupID(),
		RoomID:        r.RoomID,
		GridRow:       gridRow,
		StartDay:      startDay,
		Span:          span,
		GridColumn:    fmt.Sprintf("%d / %d", startDay, startDay+span),
		ClippedStart:  cs,
		ClippedEnd:    ce,
		Label:         reservation.ShortCustomerName(r.CustomerName),
		Duration:      reservation.DurationLabel(r),
		State:         r.State,
		Color:         reservation.StatusOf(r.State).Color,
		CheckoutSoon:  r.IsCheckoutSoon(now),
	}
	if seg, ok := b.index.SegmentFor(r.ID); ok && seg.IsRoomChange() {
		bar.SegmentIndex = seg.Index
		bar.SegmentColor = segmentPalette[seg.Index%len(segmentPalette)]
		bar.IsFirst = seg.IsFirst
		bar.IsLast = seg.IsLast
		bar.HasNext = seg.HasNext
	}
	return bar, true
}

// BarPlacement places one reservation on its room row. It reports false when
// the reservation is unknown, its room is not visible, or it falls outside
// the month.
func (b *Board) BarPlacement(reservationID int64) (Bar, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.reservationByID(reservationID)
	if !ok {
		return Bar{}, false
	}
	for _, row := range b.rowsLocked() {
		if row.RoomID == r.RoomID {
			return b.barLocked(r, row.GridRow, b.now())
		}
	}
	return Bar{}, false
}

// Bars places every filtered reservation on the visible rows.
func (b *Board) Bars() []Bar {
	b.mu.Lock()
	defer b.mu.Unlock()

	rowOf := map[int64]int{}
	for _, row := range b.rowsLocked() {
		rowOf[row.RoomID] = row.GridRow
	}
	now := b.now()
	var out []Bar
	for _, r := range b.filteredReservationsLocked() {
		gridRow, ok := rowOf[r.RoomID]
		if !ok {
			continue
		}
		if bar, ok := b.barLocked(r, gridRow, now); ok {
			out = append(out, bar)
		}
	}
	return out
}

// CrossRoomConnectors links visible rows where a booking moves between rooms
// inside the month.
func (b *Board) CrossRoomConnectors() []ConnectorView {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows := b.rowsLocked()
	rowOf := make(map[int64]int, len(rows))
	for _, row := range rows {
		rowOf[row.RoomID] = row.GridRow
	}

	var out []ConnectorView
	for _, row := range rows {
		for _, c := range b.index.Connectors(row.RoomID) {
			toRow, ok := rowOf[c.ToRoomID]
			if !ok || !b.month.Contains(c.FromDate) || !b.month.Contains(c.ToDate) {
				continue
			}
			top, bottom := row.GridRow, toRow
			if top > bottom {
				top, bottom = bottom, top
			}
			day := c.FromDate.Day()
			out = append(out, ConnectorView{
				BookingID:  c.BookingID,
				FromRoomID: c.FromRoomID,
				ToRoomID:   c.ToRoomID,
				Day:        day,
				GridColumn: fmt.Sprintf("%d / %d", day, day+1),
				GridRow:    fmt.Sprintf("%d / %d", top, bottom+1),
			})
		}
	}
	return out
}

// DayHeaders describes the month's day columns.
func (b *Board) DayHeaders() []DayHeader {
	month := b.Month()
	today := b.today()

	out := make([]DayHeader, 0, month.DaysIn())
	for _, day := range month.Days() {
		d := month.Date(day)
		h := DayHeader{
			Day:       day,
			Weekday:   d.Weekday().String()[:3],
			IsToday:   d.Equal(today),
			IsWeekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			IsPast:    d.Before(today),
		}
		if h.IsToday {
			h.Classes = append(h.Classes, "today")
		}
		if h.IsWeekend {
			h.Classes = append(h.Classes, "weekend")
		}
		if h.IsPast {
			h.Classes = append(h.Classes, "past-day")
		}
		out = append(out, h)
	}
	return out
}

const monthOptionsRadius = 6

// MonthOptions lists the months selectable around today.
func (b *Board) MonthOptions() []MonthOption {
	current := b.Month()
	base := occupancy.MonthOf(b.now())

	out := make([]MonthOption, 0, 2*monthOptionsRadius+1)
	for i := -monthOptionsRadius; i <= monthOptionsRadius; i++ {
		m := base.Add(i)
		out = append(out, MonthOption{
			Value:    m.String(),
			Label:    m.First().Format("January 2006"),
			Selected: m == current,
		})
	}
	return out
}

// SelectionOverlay renders the active drag selection.
func (b *Board) SelectionOverlay() Overlay {
	st := b.selector.State()
	if !st.Active() {
		return Overlay{Valid: true}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	gridRow := 0
	for _, row := range b.rowsLocked() {
		if row.RoomID == st.RoomID {
			gridRow = row.GridRow
			break
		}
	}
	if gridRow == 0 {
		return Overlay{Valid: st.Valid}
	}

	lo, hi := st.Range()
	n := hi - lo + 1
	unit := "days"
	if n == 1 {
		unit = "day"
	}
	text := fmt.Sprintf("%s - %s (%d %s)",
		b.month.Date(lo).Format("02/01"), b.month.Date(hi).Format("02/01"), n, unit)
	if !st.Valid {
		text += " - conflicts with an existing reservation"
	}
	return Overlay{
		Visible:    true,
		GridRow:    gridRow,
		GridColumn: fmt.Sprintf("%d / span %d", lo, n),
		Text:       text,
		Valid:      st.Valid,
	}
}

// Legend is the canonical status legend.
func (b *Board) Legend() []reservation.StatusInfo {
	return reservation.Legend()
}
