package occupancy

import (
	"sort"
	"time"

	"frontdesk/internal/reservation"
)

// Segment is a run of a booking's reservations that stays in one room without
// a gap longer than a day.
type Segment struct {
	BookingID      int64                     `json:"bookingId"`
	Index          int                       `json:"index"`
	RoomID         int64                     `json:"roomId"`
	Start          time.Time                 `json:"start"`
	End            time.Time                 `json:"end"`
	Reservations   []reservation.Reservation `json:"-"`
	IsFirst        bool                      `json:"isFirstSegment"`
	IsLast         bool                      `json:"isLastSegment"`
	HasNext        bool                      `json:"hasNextSegment"`
	Total          int                       `json:"totalSegments"`
	NextRoomID     int64                     `json:"nextSegmentRoomId,omitempty"`
	PreviousRoomID int64                     `json:"previousSegmentRoomId,omitempty"`
}

// IsRoomChange reports whether the booking moved between rooms or had gaps.
func (s Segment) IsRoomChange() bool { return s.Total > 1 }

const maxSegmentGap = 24 * time.Hour

// addSegments expects group sorted by start.
func (idx *Index) addSegments(bookingID int64, group []spanned) {
	if len(group) == 0 {
		return
	}

	var segs []Segment
	cur := Segment{
		BookingID:    bookingID,
		RoomID:       group[0].res.RoomID,
		Start:        group[0].start,
		End:          group[0].end,
		Reservations: []reservation.Reservation{group[0].res},
	}
	for _, s := range group[1:] {
		if s.res.RoomID == cur.RoomID && s.start.Sub(cur.End) <= maxSegmentGap {
			cur.Reservations = append(cur.Reservations, s.res)
			if s.end.After(cur.End) {
				cur.End = s.end
			}
			continue
		}
		segs = append(segs, cur)
		cur = Segment{
			BookingID:    bookingID,
			Index:        len(segs),
			RoomID:       s.res.RoomID,
			Start:        s.start,
			End:          s.end,
			Reservations: []reservation.Reservation{s.res},
		}
	}
	segs = append(segs, cur)

	for i := range segs {
		segs[i].Total = len(segs)
		segs[i].IsFirst = i == 0
		segs[i].IsLast = i == len(segs)-1
		segs[i].HasNext = i < len(segs)-1
		if segs[i].HasNext {
			segs[i].NextRoomID = segs[i+1].RoomID
		}
		if i > 0 {
			segs[i].PreviousRoomID = segs[i-1].RoomID
		}
		for _, r := range segs[i].Reservations {
			idx.segOf[r.ID] = segmentRef{bookingID: bookingID, index: i}
		}
	}
	idx.segments[bookingID] = segs
}

// Segments returns the segments of a booking in time order.
func (idx *Index) Segments(bookingID int64) []Segment {
	return idx.segments[bookingID]
}

// SegmentFor returns the segment holding the reservation.
func (idx *Index) SegmentFor(reservationID int64) (Segment, bool) {
	ref, ok := idx.segOf[reservationID]
	if !ok {
		return Segment{}, false
	}
	return idx.segments[ref.bookingID][ref.index], true
}

// Connector links the end of one segment to the start of the next one when the
// booking changes room.
type Connector struct {
	BookingID  int64     `json:"bookingId"`
	FromRoomID int64     `json:"fromRoomId"`
	ToRoomID   int64     `json:"toRoomId"`
	FromDate   time.Time `json:"fromDate"`
	ToDate     time.Time `json:"toDate"`
	Index      int       `json:"index"`
}

// Connectors lists room changes leaving roomID.
func (idx *Index) Connectors(roomID int64) []Connector {
	var out []Connector
	for bookingID, segs := range idx.segments {
		for i := 0; i < len(segs)-1; i++ {
			cur, next := segs[i], segs[i+1]
			if cur.RoomID != roomID || next.RoomID == cur.RoomID {
				continue
			}
			out = append(out, Connector{
				BookingID:  bookingID,
				FromRoomID: cur.RoomID,
				ToRoomID:   next.RoomID,
				FromDate:   cur.End,
				ToDate:     next.Start,
				Index:      i,
			})
		}
	}
	sortConnectors(out)
	return out
}

func sortConnectors(cs []Connector) {
	sort.Slice(cs, func(i, j int) bool { return connectorLess(cs[i], cs[j]) })
}

func connectorLess(a, b Connector) bool {
	if !a.FromDate.Equal(b.FromDate) {
		return a.FromDate.Before(b.FromDate)
	}
	if a.BookingID != b.BookingID {
		return a.BookingID < b.BookingID
	}
	return a.Index < b.Index
}
