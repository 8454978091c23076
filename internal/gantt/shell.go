package gantt

import "context"

type ActionKind string

const (
	ActionOpenBooking ActionKind = "open_booking"
	ActionNewBooking  ActionKind = "new_booking"
)

// BookingContext pre-fills the new-booking form. Times use
// "2006-01-02 15:04:05".
type BookingContext struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	HotelID   int64  `json:"hotel_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	PartnerID int64  `json:"partner_id,omitempty"`
	ProductID int64  `json:"product_id"`
	RoomID    int64  `json:"room_id"`
}

// Action asks the host shell to open a form.
type Action struct {
	Kind      ActionKind      `json:"kind"`
	BookingID int64           `json:"bookingId,omitempty"`
	Context   *BookingContext `json:"context,omitempty"`
}

// Shell is the host UI. Confirm blocks until the operator answers.
type Shell interface {
	Confirm(ctx context.Context, title, message string) bool
	Open(ctx context.Context, a Action)
}

type shellKey struct{}

// WithShell scopes a shell to one request; it wins over the board default.
func WithShell(ctx context.Context, s Shell) context.Context {
	return context.WithValue(ctx, shellKey{}, s)
}

func shellFrom(ctx context.Context, fallback Shell) Shell {
	if s, ok := ctx.Value(shellKey{}).(Shell); ok && s != nil {
		return s
	}
	if fallback != nil {
		return fallback
	}
	return declineShell{}
}

// declineShell refuses every prompt and drops every action.
type declineShell struct{}

func (declineShell) Confirm(context.Context, string, string) bool { return false }
func (declineShell) Open(context.Context, Action)                {}

// Recorder is a Shell that answers prompts with a fixed reply and keeps the
// actions it was asked to open.
type Recorder struct {
	Answer  bool
	Prompts []string
	Actions []Action
}

func (r *Recorder) Confirm(_ context.Context, title, message string) bool {
	r.Prompts = append(r.Prompts, title+": "+message)
	return r.Answer
}

func (r *Recorder) Open(_ context.Context, a Action) {
	r.Actions = append(r.Actions, a)
}
