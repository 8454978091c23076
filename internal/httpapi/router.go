package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"frontdesk/internal/api"
	"frontdesk/internal/gantt"
	"frontdesk/pkg/config"
	"frontdesk/pkg/session"
)

// Journal records board actions and lists them back.
type Journal interface {
	gantt.Journal
	JournalReader
}

type Dependencies struct {
	Cfg     config.Config
	Backend gantt.Backend
	Journal Journal

	// Now overrides the clock for boards and token checks.
	Now func() time.Time
	// SessionTTL bounds how long an idle board is kept.
	SessionTTL time.Duration
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	debug := deps.Cfg.AppEnv != "prod"
	loc := deps.Cfg.Location()
	boards := NewRegistry(func(op *session.Operator) *gantt.Board {
		return gantt.NewBoard(gantt.Options{
			Backend:  deps.Backend,
			Journal:  deps.Journal,
			Now:      deps.Now,
			Location: loc,
			UserID:   op.UserID,
			HotelID:  op.HotelID,
			Debug:    debug,
		})
	}, deps.SessionTTL)
	boardHandlers := BoardHandlers{Boards: boards, Journal: deps.Journal, Debug: debug}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			MaxAgeSeconds:  600,
		}))

		// Static lifecycle metadata
		r.Get("/statuses", Statuses)
		r.Get("/legend", Legend)

		// Operator board APIs
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg, deps.Now))

			r.Get("/board", boardHandlers.Board)
			r.Delete("/board", boardHandlers.CloseSession)
			r.Post("/board/reload", boardHandlers.Reload)
			r.Post("/board/selection/{step}", boardHandlers.Selection)
			r.Post("/board/cells/click", boardHandlers.ClickCell)
			r.Post("/board/hit", boardHandlers.Hit)

			r.Get("/reservations/{id}/tooltip", boardHandlers.Tooltip)
			r.Get("/reservations/{id}/transitions", boardHandlers.Transitions)
			r.Post("/reservations/{id}/state", boardHandlers.ChangeState)
			r.Post("/reservations/{id}/advance", boardHandlers.Advance)
			r.Post("/reservations/{id}/open", boardHandlers.Open)

			r.Get("/journal", boardHandlers.JournalList)
		})
	})

	return r
}
