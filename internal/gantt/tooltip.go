package gantt

import "frontdesk/internal/reservation"

type SegmentInfo struct {
	Index              int    `json:"index"`
	Total              int    `json:"total"`
	Position           string `json:"position"`
	PreviousRoomID     int64  `json:"previousRoomId,omitempty"`
	PreviousRoomName   string `json:"previousRoomName,omitempty"`
	NextRoomID         int64  `json:"nextRoomId,omitempty"`
	NextRoomName       string `json:"nextRoomName,omitempty"`
	ConnectedBookingID int64  `json:"connectedBookingId,omitempty"`
}

type Tooltip struct {
	ReservationID int64                  `json:"reservationId"`
	BookingID     int64                  `json:"bookingId"`
	Customer      string                 `json:"customer"`
	Room          string                 `json:"room"`
	CheckIn       string                 `json:"checkIn"`
	CheckOut      string                 `json:"checkOut"`
	Nights        string                 `json:"nights"`
	Price         string                 `json:"price"`
	Status        reservation.StatusInfo `json:"status"`
	CheckoutSoon  bool                   `json:"checkoutSoon,omitempty"`
	Segment       *SegmentInfo           `json:"segment,omitempty"`
}

const tooltipDateLayout = "02/01/2006"

// Tooltip assembles the hover card of a reservation.
func (b *Board) Tooltip(reservationID int64) (Tooltip, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.reservationByID(reservationID)
	if !ok {
		return Tooltip{}, false
	}

	t := Tooltip{
		ReservationID: r.ID,
		BookingID:     r.GroupID(),
		Customer:      r.CustomerName,
		Room:          r.RoomName,
		Nights:        reservation.DurationLabel(r),
		Price:         reservation.FormatPrice(r.TotalAmount, r.CurrencySymbol),
		Status:        reservation.StatusOf(r.State),
		CheckoutSoon:  r.IsCheckoutSoon(b.now()),
	}
	if t.Customer == "" {
		t.Customer = "N/A"
	}
	if room, ok := b.roomByID(r.RoomID); ok && t.Room == "" {
		t.Room = room.Name
	}
	if d, err := reservation.ParseDate(r.DateStart); err == nil {
		t.CheckIn = d.Format(tooltipDateLayout)
	}
	if d, err := reservation.ParseDate(r.DateEnd); err == nil {
		t.CheckOut = d.Format(tooltipDateLayout)
	}

	seg, ok := b.index.SegmentFor(r.ID)
	if ok && (seg.IsRoomChange() || r.ConnectedBookingID != 0) {
		info := &SegmentInfo{
			Index:              seg.Index,
			Total:              seg.Total,
			PreviousRoomID:     seg.PreviousRoomID,
			NextRoomID:         seg.NextRoomID,
			ConnectedBookingID: r.ConnectedBookingID,
		}
		switch {
		case seg.Total <= 1:
			info.Position = "single"
		case seg.IsFirst:
			info.Position = "first"
		case seg.IsLast:
			info.Position = "last"
		default:
			info.Position = "middle"
		}
		if room, ok := b.roomByID(seg.PreviousRoomID); ok {
			info.PreviousRoomName = room.Name
		}
		if room, ok := b.roomByID(seg.NextRoomID); ok {
			info.NextRoomName = room.Name
		}
		t.Segment = info
	}
	return t, true
}
