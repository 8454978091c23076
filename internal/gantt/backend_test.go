package gantt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/occupancy"
	"frontdesk/pkg/hotelrpc"
)

func TestRPCBackend_MonthDataConvertsPayload(t *testing.T) {
	var gotParams map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotParams = req.Params

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{
			"success": true,
			"rooms": []any{
				map[string]any{"id": 1, "name": "Suite 101", "list_price": 80, "price": 0, "hotel_id": []any{1, "Plaza"}},
				map[string]any{"id": 2, "name": "Suite 102", "list_price": 80, "price": 95.5, "hotel_id": false},
			},
			"reservations": []any{
				map[string]any{
					"id": 11, "booking_id": []any{100, "BK100"}, "room_id": []any{1, "Suite 101"},
					"date_start": "2024-03-08 14:00:00", "date_end": "2024-03-12 11:00:00",
					"state": "checkin", "customer_name": false, "total_amount": 420.25,
					"currency_symbol": "$", "connected_booking_id": false,
				},
				map[string]any{
					"id": 12, "booking_id": 101, "room_id": []any{2, "Suite 102"},
					"date_start": false, "date_end": false, "state": "confirmed", "total_amount": false,
				},
			},
			"month_info": map[string]any{"month_name": "March 2024", "days": []int{1, 2}, "first_day_str": "2024-03-01"},
		}})
	}))
	t.Cleanup(srv.Close)

	b := RPCBackend{Client: hotelrpc.New(srv.URL, "hotel", "", "", time.Second)}
	data, err := b.MonthData(context.Background(), occupancy.Month{Year: 2024, Month: time.March}, 1)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", gotParams["target_date"])
	assert.EqualValues(t, 1, gotParams["hotel_id"])

	require.Len(t, data.Rooms, 2)
	assert.Equal(t, "80", data.Rooms[0].Price.String(), "zero price falls back to list price")
	assert.Equal(t, "Plaza", data.Rooms[0].HotelName)
	assert.Equal(t, "95.5", data.Rooms[1].Price.String())
	assert.Zero(t, data.Rooms[1].HotelID)

	require.Len(t, data.Reservations, 2)
	r := data.Reservations[0]
	assert.Equal(t, int64(100), r.BookingID)
	assert.Equal(t, int64(1), r.RoomID)
	assert.Equal(t, "", r.CustomerName)
	assert.Equal(t, "420.25", r.TotalAmount.String())
	assert.Equal(t, "March 2024", data.Info.MonthName)

	undated := data.Reservations[1]
	assert.Empty(t, undated.DateStart)
	assert.True(t, undated.TotalAmount.IsZero())

	idx := occupancy.Build(occupancy.Month{Year: 2024, Month: time.March}, data.Reservations)
	assert.Equal(t, 1, idx.Skipped(), "only the undated reservation is skipped")
	assert.True(t, idx.IsDayOccupied(1, 8))
	assert.False(t, idx.IsDayOccupied(2, 8))
}
