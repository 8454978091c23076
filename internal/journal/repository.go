package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"frontdesk/pkg/db"
)

type Action string

const (
	ActionStateChange Action = "state_change"
	ActionReuse       Action = "reuse_room_ready"
	ActionNewBooking  Action = "new_booking_form"
	ActionOpenBooking Action = "open_booking"
)

// Entry is one operator action dispatched from the board.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Action        Action    `json:"action"`
	ActorID       int64     `json:"actorId"`
	ReservationID int64     `json:"reservationId,omitempty"`
	BookingID     int64     `json:"bookingId,omitempty"`
	RoomID        int64     `json:"roomId,omitempty"`
	FromState     string    `json:"fromState,omitempty"`
	ToState       string    `json:"toState,omitempty"`
	Summary       string    `json:"summary"`
	Data          any       `json:"data,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record stores e, filling in the id and timestamp when missing.
func (r *Repository) Record(ctx context.Context, e Entry) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return Insert(ctx, tx, e)
	})
}

func Insert(ctx context.Context, tx pgx.Tx, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	s, err := encodeData(e)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO board_events (id, action, actor_id, reservation_id, booking_id, room_id, from_state, to_state, summary, data, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CAST($10 AS jsonb), $11)
`
	_, err = tx.Exec(ctx, q,
		e.ID, string(e.Action), e.ActorID, e.ReservationID, e.BookingID, e.RoomID,
		e.FromState, e.ToState, e.Summary, s, e.OccurredAt,
	)
	return err
}

// encodeData renders the entry payload as JSON, or nil when there is none.
func encodeData(e Entry) (*string, error) {
	if e.Data == nil {
		return nil, nil
	}
	b, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal journal data action=%s: %w", e.Action, err)
	}
	s := string(b)
	return &s, nil
}

type Filter struct {
	BookingID int64
	Limit     int
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// List returns the newest entries first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	const q = `
SELECT id, action, actor_id, reservation_id, booking_id, room_id, from_state, to_state, summary, COALESCE(data, '{}'::jsonb), occurred_at
FROM board_events
WHERE ($1::bigint = 0 OR booking_id = $1)
ORDER BY occurred_at DESC, created_at DESC
LIMIT $2
`
	rows, err := r.db.Query(ctx, q, f.BookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			action string
			data   map[string]any
		)
		if err := rows.Scan(&e.ID, &action, &e.ActorID, &e.ReservationID, &e.BookingID, &e.RoomID,
			&e.FromState, &e.ToState, &e.Summary, &data, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		if len(data) > 0 {
			e.Data = data
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
