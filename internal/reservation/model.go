package reservation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is one room segment of a booking as delivered by the backend.
// DateStart and DateEnd are kept as received; use Span to parse them.
type Reservation struct {
	ID             int64           `json:"id"`
	BookingID      int64           `json:"bookingId"`
	RoomID         int64           `json:"roomId"`
	RoomName       string          `json:"roomName,omitempty"`
	DateStart      string          `json:"dateStart"`
	DateEnd        string          `json:"dateEnd"`
	State          string          `json:"state"`
	CustomerName   string          `json:"customerName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CurrencySymbol string          `json:"currencySymbol"`

	ConnectedBookingID      int64 `json:"connectedBookingId,omitempty"`
	IsRoomChangeOrigin      bool  `json:"isRoomChangeOrigin,omitempty"`
	IsRoomChangeDestination bool  `json:"isRoomChangeDestination,omitempty"`
}

// GroupID is the booking the reservation belongs to, falling back to the
// reservation itself when the backend sent no booking reference.
func (r Reservation) GroupID() int64 {
	if r.BookingID != 0 {
		return r.BookingID
	}
	return r.ID
}

// Status resolves the raw state; unknown tokens report false.
func (r Reservation) Status() (Status, bool) {
	return Canonical(r.State)
}

func (r Reservation) HasStatus(s Status) bool {
	c, ok := r.Status()
	return ok && c == s
}

var errEndBeforeStart = errors.New("date_end before date_start")

// Span parses both boundaries. It fails on unparseable dates and when the end
// precedes the start.
func (r Reservation) Span() (start, end time.Time, err error) {
	start, err = ParseDate(r.DateStart)
	if err != nil {
		return time.Time{}, time.Time{}, DateParseError{Field: "date_start", Value: r.DateStart, Err: err}
	}
	end, err = ParseDate(r.DateEnd)
	if err != nil {
		return time.Time{}, time.Time{}, DateParseError{Field: "date_end", Value: r.DateEnd, Err: err}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, DateParseError{Field: "date_end", Value: r.DateEnd, Err: errEndBeforeStart}
	}
	return start, end, nil
}

// IsCheckoutSoon reports a stay ending today or tomorrow that has not been
// checked out yet.
func (r Reservation) IsCheckoutSoon(now time.Time) bool {
	if r.HasStatus(StatusCheckOut) {
		return false
	}
	end, err := ParseDate(r.DateEnd)
	if err != nil {
		return false
	}
	diff := DateOnly(end).Sub(DateOnly(now))
	return diff == 0 || diff == 24*time.Hour
}

type Room struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	HotelID   int64           `json:"hotelId,omitempty"`
	HotelName string          `json:"hotelName,omitempty"`
	MaxAdult  int             `json:"maxAdult"`
	MaxChild  int             `json:"maxChild"`
	Capacity  int             `json:"capacity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status,omitempty"`
}

// RoomType is the first whitespace-delimited token of the room name.
func (r Room) RoomType() string {
	f := strings.Fields(r.Name)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MonthInfo struct {
	Days        []int  `json:"days"`
	MonthName   string `json:"monthName"`
	FirstDayStr string `json:"firstDayStr"`
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses the ISO date and datetime forms the backend emits. The
// result keeps the wall clock as written, in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		hh, mm, ss := t.Clock()
		return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
}

// DateOnly truncates t to midnight of its own calendar day, expressed in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights is the inclusive display duration: whole days between the two
// boundaries plus one, never less than one.
func Nights(start, end time.Time) int {
	days := end.Sub(start).Hours()/24 + 1
	n := int(math.Round(days))
	if n < 1 {
		n = 1
	}
	return n
}

// DurationLabel renders Nights as "3d". Unparseable spans render "0d".
func DurationLabel(r Reservation) string {
	start, err := ParseDate(r.DateStart)
	if err != nil {
		return "0d"
	}
	end, err := ParseDate(r.DateEnd)
	if err != nil {
		return "0d"
	}
	return fmt.Sprintf("%dd", Nights(start, end))
}

// FormatPrice renders "$ 120.00"; "$" is used when no symbol is known.
func FormatPrice(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	return symbol + " " + amount.StringFixed(2)
}

// ShortCustomerName upper-cases and truncates a name for bar labels.
func ShortCustomerName(name string) string {
	up := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(up) > 8 {
		return string(up[:8]) + "..."
	}
	return string(up)
}
