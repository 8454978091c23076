package occupancy

import (
	"sort"
	"time"

	"frontdesk/internal/reservation"
)

// Cell is what one room/day slot of the grid holds. ConflictOnly marks the
// inclusive checkout day of a stay that no primary night claimed.
type Cell struct {
	Reservation  reservation.Reservation
	ConflictOnly bool
}

// Index is the per-room, per-day view of one month. It is built wholesale by
// Build and never patched afterwards.
type Index struct {
	month    Month
	cells    map[int64]map[int]Cell
	segments map[int64][]Segment
	segOf    map[int64]segmentRef
	skipped  int
}

type segmentRef struct {
	bookingID int64
	index     int
}

type spanned struct {
	res        reservation.Reservation
	start, end time.Time
}

// Build indexes reservations for month. Reservations with unparseable dates or
// without a room are skipped; they never abort the build.
func Build(month Month, reservations []reservation.Reservation) *Index {
	idx := &Index{
		month:    month,
		cells:    make(map[int64]map[int]Cell),
		segments: make(map[int64][]Segment),
		segOf:    make(map[int64]segmentRef),
	}

	var order []int64
	groups := make(map[int64][]spanned)
	for _, r := range reservations {
		if r.RoomID == 0 {
			idx.skipped++
			continue
		}
		start, end, err := r.Span()
		if err != nil {
			idx.skipped++
			continue
		}
		id := r.GroupID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], spanned{res: r, start: start, end: end})
	}

	for _, bookingID := range order {
		group := groups[bookingID]
		sort.SliceStable(group, func(i, j int) bool { return group[i].start.Before(group[j].start) })

		idx.addSegments(bookingID, group)
		for _, s := range group {
			idx.markPrimary(s)
			idx.markConflict(s)
		}
	}
	return idx
}

func (idx *Index) room(roomID int64) map[int]Cell {
	m, ok := idx.cells[roomID]
	if !ok {
		m = make(map[int]Cell)
		idx.cells[roomID] = m
	}
	return m
}

// markPrimary walks [start, end) by calendar day: the checkout day stays free.
func (idx *Index) markPrimary(s spanned) {
	cells := idx.room(s.res.RoomID)
	checkout := reservation.DateOnly(s.end)
	for d := reservation.DateOnly(s.start); d.Before(checkout); d = d.AddDate(0, 0, 1) {
		if idx.month.Contains(d) {
			cells[d.Day()] = Cell{Reservation: s.res}
		}
	}
}

// markConflict walks [start, end] and only fills empty cells.
func (idx *Index) markConflict(s spanned) {
	cells := idx.room(s.res.RoomID)
	checkout := reservation.DateOnly(s.end)
	for d := reservation.DateOnly(s.start); !d.After(checkout); d = d.AddDate(0, 0, 1) {
		if !idx.month.Contains(d) {
			continue
		}
		if _, taken := cells[d.Day()]; !taken {
			cells[d.Day()] = Cell{Reservation: s.res, ConflictOnly: true}
		}
	}
}

func (idx *Index) Month() Month { return idx.month }

// Skipped counts reservations left out because of bad dates or a missing room.
func (idx *Index) Skipped() int { return idx.skipped }

// At returns the cell for roomID/day, conflict markers included.
func (idx *Index) At(roomID int64, day int) (Cell, bool) {
	cells, ok := idx.cells[roomID]
	if !ok {
		return Cell{}, false
	}
	c, ok := cells[day]
	return c, ok
}

// IsDayOccupied is true when a primary night holds a reservation whose state
// does not vacate the room (cancelled and room_ready do).
func (idx *Index) IsDayOccupied(roomID int64, day int) bool {
	c, ok := idx.At(roomID, day)
	if !ok || c.ConflictOnly {
		return false
	}
	st, known := c.Reservation.Status()
	if !known {
		return true
	}
	return !st.Vacates()
}

// IsRangeAvailable checks every day of the inclusive range; bounds may come in
// either order.
func (idx *Index) IsRangeAvailable(roomID int64, startDay, endDay int) bool {
	lo, hi := ordered(startDay, endDay)
	for day := lo; day <= hi; day++ {
		if idx.IsDayOccupied(roomID, day) {
			return false
		}
	}
	return true
}

// HasCleaningReservationInRange is true when any cell in range, checkout-day
// markers included, belongs to a reservation waiting for cleaning.
func (idx *Index) HasCleaningReservationInRange(roomID int64, startDay, endDay int) bool {
	lo, hi := ordered(startDay, endDay)
	for day := lo; day <= hi; day++ {
		c, ok := idx.At(roomID, day)
		if ok && c.Reservation.HasStatus(reservation.StatusCleaningNeeded) {
			return true
		}
	}
	return false
}

// ReservationsForRoom lists the distinct reservations present in the room this
// month, in order of their first visible day.
func (idx *Index) ReservationsForRoom(roomID int64) []reservation.Reservation {
	cells, ok := idx.cells[roomID]
	if !ok {
		return nil
	}
	days := make([]int, 0, len(cells))
	for d := range cells {
		days = append(days, d)
	}
	sort.Ints(days)

	seen := make(map[int64]bool)
	var out []reservation.Reservation
	for _, d := range days {
		r := cells[d].Reservation
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
