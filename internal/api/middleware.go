package api

import (
	"net/http"
	"strconv"
	"strings"

	"frontdesk/pkg/session"
)

const (
	HeaderUserID       = "X-User-Id"
	HeaderHotelID      = "X-Hotel-Id"
	HeaderBoardSession = "X-Board-Session"
)

// DevOperatorAuth trusts the operator identity sent in plain headers. Local
// development only.
//
// Contract:
// - Caller provides the backend user id via `X-User-Id` header or `?user_id=`.
// - `X-Hotel-Id` optionally sets the operator's default hotel.
func DevOperatorAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if raw == "" {
				raw = strings.TrimSpace(r.URL.Query().Get("user_id"))
			}
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing operator identity")
				return
			}
			uid, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || uid <= 0 {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid operator identity")
				return
			}

			op := &session.Operator{UserID: uid}
			if h := strings.TrimSpace(r.Header.Get(HeaderHotelID)); h != "" {
				hotelID, err := strconv.ParseInt(h, 10, 64)
				if err != nil || hotelID < 0 {
					WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid hotel id")
					return
				}
				op.HotelID = hotelID
			}

			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), op)))
		})
	}
}
