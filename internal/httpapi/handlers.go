package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"frontdesk/internal/api"
	"frontdesk/internal/gantt"
	"frontdesk/internal/journal"
	"frontdesk/internal/notify"
	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
	"frontdesk/internal/selection"
)

type JournalReader interface {
	List(ctx context.Context, f journal.Filter) ([]journal.Entry, error)
}

type BoardHandlers struct {
	Boards  *Registry
	Journal JournalReader
	Debug   bool
}

type Snapshot struct {
	SessionID string `json:"sessionId"`
	Month     string `json:"month"`
	MonthName string `json:"monthName"`
	HotelID   int64  `json:"hotelId"`

	Hotels       []reservation.Hotel `json:"hotels"`
	RoomTypes    []string            `json:"roomTypes"`
	MonthOptions []gantt.MonthOption `json:"monthOptions"`
	DayHeaders   []gantt.DayHeader   `json:"dayHeaders"`

	Rows       []gantt.Row           `json:"rows"`
	Bars       []gantt.Bar           `json:"bars"`
	Connectors []gantt.ConnectorView `json:"connectors"`
	Selection  gantt.Overlay         `json:"selection"`

	OccupancyRate      int `json:"occupancyRate"`
	ActiveReservations int `json:"activeReservations"`

	Notices []notify.Notice `json:"notices"`
}

// Result is the reply of every board mutation: what the shell must open and
// what to tell the operator.
type Result struct {
	OK        bool            `json:"ok"`
	Actions   []gantt.Action  `json:"actions"`
	Prompts   []string        `json:"prompts,omitempty"`
	Selection gantt.Overlay   `json:"selection"`
	Notices   []notify.Notice `json:"notices"`
}

type CellRequest struct {
	RoomID       int64 `json:"room_id"`
	Day          int   `json:"day"`
	ConfirmReuse bool  `json:"confirm_reuse"`
}

type HitRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StateRequest struct {
	State string `json:"state"`
}

func (h BoardHandlers) session(w http.ResponseWriter, r *http.Request) (*boardSession, bool) {
	op := api.OperatorFromContext(r.Context())
	if op == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing operator identity")
		return nil, false
	}
	s := h.Boards.Acquire(op, strings.TrimSpace(r.Header.Get(api.HeaderBoardSession)))
	w.Header().Set(api.HeaderBoardSession, s.ID)
	return s, true
}

// ensureLoaded runs the first load of a fresh session.
func (h BoardHandlers) ensureLoaded(ctx context.Context, s *boardSession) {
	s.firstLoad(func() {
		if err := s.Board.Load(ctx); err != nil && h.Debug {
			log.Printf("[httpapi] initial load session=%s user=%d err=%v", s.ID, s.UserID, err)
		}
	})
}

func snapshot(s *boardSession) Snapshot {
	b := s.Board
	return Snapshot{
		SessionID:          s.ID,
		Month:              b.Month().String(),
		MonthName:          b.Info().MonthName,
		HotelID:            b.HotelID(),
		Hotels:             b.Hotels(),
		RoomTypes:          b.RoomTypes(),
		MonthOptions:       b.MonthOptions(),
		DayHeaders:         b.DayHeaders(),
		Rows:               b.Rows(),
		Bars:               b.Bars(),
		Connectors:         b.CrossRoomConnectors(),
		Selection:          b.SelectionOverlay(),
		OccupancyRate:      b.OccupancyRate(),
		ActiveReservations: b.ActiveReservationsCount(),
		Notices:            b.Notices(),
	}
}

// Board applies the view query (month, hotel, room_type, state) and returns
// the snapshot. Only a changed month or hotel triggers a reload.
func (h BoardHandlers) Board(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	b := s.Board
	q := r.URL.Query()

	if q.Has("state") {
		if err := b.SetStateFilter(q.Get("state")); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid state")
			return
		}
	}

	reload := false
	if v := q.Get("month"); v != "" {
		m, err := occupancy.ParseMonth(v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid month")
			return
		}
		if m != b.Month() {
			s.reload(func() { _ = b.SetMonth(ctx, m) })
			reload = true
		}
	}
	if q.Has("hotel") {
		hotelID, err := strconv.ParseInt(q.Get("hotel"), 10, 64)
		if err != nil || hotelID < 0 {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid hotel")
			return
		}
		if hotelID != b.HotelID() {
			s.reload(func() { _ = b.SetHotel(ctx, hotelID) })
			reload = true
		}
	}
	if !reload {
		h.ensureLoaded(ctx, s)
	}
	if q.Has("room_type") {
		b.SetRoomType(q.Get("room_type"))
	}

	api.WriteJSON(w, http.StatusOK, snapshot(s))
}

func (h BoardHandlers) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	// Load failures are reported through the snapshot notices.
	s.reload(func() { _ = s.Board.Refresh(r.Context()) })
	api.WriteJSON(w, http.StatusOK, snapshot(s))
}

func (h BoardHandlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	op := api.OperatorFromContext(r.Context())
	if op == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing operator identity")
		return
	}
	if !h.Boards.Close(op, r.Header.Get(api.HeaderBoardSession)) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "board session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return false
	}
	return true
}

func result(b *gantt.Board, shell *gantt.Recorder, ok bool) Result {
	res := Result{
		OK:        ok,
		Actions:   shell.Actions,
		Prompts:   shell.Prompts,
		Selection: b.SelectionOverlay(),
		Notices:   b.Notices(),
	}
	if res.Actions == nil {
		res.Actions = []gantt.Action{}
	}
	return res
}

// Selection drives the drag gesture: start, move, end or cancel.
func (h BoardHandlers) Selection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	b := s.Board
	step := chi.URLParam(r, "step")

	var req CellRequest
	if step != "cancel" && step != "end" {
		if !decode(w, r, &req) {
			return
		}
	} else if r.ContentLength > 0 {
		if !decode(w, r, &req) {
			return
		}
	}

	shell := &gantt.Recorder{Answer: req.ConfirmReuse}
	done := false
	switch step {
	case "start":
		h.ensureLoaded(r.Context(), s)
		done = b.StartSelection(req.RoomID, req.Day)
	case "move":
		b.MoveSelection(req.RoomID, req.Day)
		done = b.Selection().Phase == selection.PhaseSelecting
	case "end":
		committed, err := b.EndSelection(gantt.WithShell(r.Context(), shell))
		if err != nil {
			writeBoardError(w, b, err)
			return
		}
		done = committed
	case "cancel":
		done = b.CancelSelection()
	default:
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown selection step")
		return
	}

	api.WriteJSON(w, http.StatusOK, result(b, shell, done))
}

func (h BoardHandlers) ClickCell(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CellRequest
	if !decode(w, r, &req) {
		return
	}
	h.ensureLoaded(r.Context(), s)

	shell := &gantt.Recorder{Answer: req.ConfirmReuse}
	if err := s.Board.ClickCell(gantt.WithShell(r.Context(), shell), req.RoomID, req.Day); err != nil {
		writeBoardError(w, s.Board, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result(s.Board, shell, len(shell.Actions) > 0))
}

func (h BoardHandlers) Hit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req HitRequest
	if !decode(w, r, &req) {
		return
	}
	roomID, day, hit := s.Board.Hit(req.X, req.Y)
	api.WriteJSON(w, http.StatusOK, map[string]any{"hit": hit, "room_id": roomID, "day": day})
}

func reservationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation id")
		return 0, false
	}
	return id, true
}

func (h BoardHandlers) Tooltip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	h.ensureLoaded(r.Context(), s)
	tip, found := s.Board.Tooltip(id)
	if !found {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, tip)
}

func (h BoardHandlers) Transitions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	h.ensureLoaded(r.Context(), s)
	items, err := s.Board.Transitions(id)
	if err != nil {
		writeBoardError(w, s.Board, err)
		return
	}
	if items == nil {
		items = []reservation.StatusInfo{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h BoardHandlers) ChangeState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	var req StateRequest
	if !decode(w, r, &req) {
		return
	}
	to, err := reservation.ParseStatus(req.State)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid state")
		return
	}
	h.ensureLoaded(r.Context(), s)

	shell := &gantt.Recorder{}
	if err := s.Board.ChangeState(gantt.WithShell(r.Context(), shell), id, to); err != nil {
		writeBoardError(w, s.Board, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result(s.Board, shell, true))
}

func (h BoardHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	h.ensureLoaded(r.Context(), s)

	shell := &gantt.Recorder{}
	if err := s.Board.ApplyNextState(gantt.WithShell(r.Context(), shell), id); err != nil {
		writeBoardError(w, s.Board, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result(s.Board, shell, true))
}

func (h BoardHandlers) Open(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	h.ensureLoaded(r.Context(), s)

	shell := &gantt.Recorder{}
	if _, err := s.Board.OpenReservation(gantt.WithShell(r.Context(), shell), id); err != nil {
		writeBoardError(w, s.Board, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result(s.Board, shell, true))
}

func (h BoardHandlers) JournalList(w http.ResponseWriter, r *http.Request) {
	if api.OperatorFromContext(r.Context()) == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing operator identity")
		return
	}

	var f journal.Filter
	q := r.URL.Query()
	if v := q.Get("booking_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking_id")
			return
		}
		f.BookingID = id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid limit")
			return
		}
		f.Limit = n
	}

	if h.Journal == nil {
		api.WriteJSON(w, http.StatusOK, map[string]any{"items": []journal.Entry{}})
		return
	}
	items, err := h.Journal.List(r.Context(), f)
	if err != nil {
		log.Printf("[httpapi] journal list failed err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []journal.Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type statusView struct {
	reservation.StatusInfo
	Transitions []reservation.Status `json:"transitions"`
	Next        reservation.Status   `json:"next,omitempty"`
	Method      string               `json:"method,omitempty"`
}

// Statuses lists the lifecycle: display metadata, allowed targets and the
// backend method that enters each state.
func Statuses(w http.ResponseWriter, r *http.Request) {
	items := make([]statusView, 0, len(reservation.CanonicalStatuses))
	for _, st := range reservation.CanonicalStatuses {
		v := statusView{
			StatusInfo:  reservation.StatusOf(string(st)),
			Transitions: reservation.AllowedTransitions(string(st)),
		}
		v.Next, _ = reservation.NextLogicalState(string(st))
		v.Method, _ = reservation.BackendMethod(st)
		items = append(items, v)
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func Legend(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": reservation.Legend()})
}

// boardError is the error envelope of board operations. Notices queued on the
// board travel with it so the browser still shows them.
type boardError struct {
	Error   api.APIError    `json:"error"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

// writeBoardError maps board errors onto the JSON error envelope.
func writeBoardError(w http.ResponseWriter, b *gantt.Board, err error) {
	notices := b.Notices()
	reply := func(status int, code, message string) {
		api.WriteJSON(w, status, boardError{
			Error:   api.APIError{Code: code, Message: message},
			Notices: notices,
		})
	}

	if errors.Is(err, gantt.ErrReservationNotFound) {
		reply(http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}
	switch code := reservation.CodeOf(err); code {
	case reservation.CodeInvalidTransition, reservation.CodeCheckInTooEarly,
		reservation.CodeRangeUnavailable, reservation.CodeCleaningBlocked:
		reply(http.StatusConflict, code, err.Error())
	case reservation.CodeDateParseFailed:
		reply(http.StatusUnprocessableEntity, code, err.Error())
	case reservation.CodeLookupFailed, reservation.CodeDataLoadFailed:
		reply(http.StatusBadGateway, code, err.Error())
	default:
		log.Printf("[httpapi] backend call failed err=%v", err)
		reply(http.StatusBadGateway, "BACKEND_FAILED", "the booking service rejected the request")
	}
}
