package gantt

import (
	"context"

	"frontdesk/internal/occupancy"
	"frontdesk/internal/reservation"
	"frontdesk/pkg/hotelrpc"
)

// Backend is the booking service as the board sees it.
type Backend interface {
	Hotels(ctx context.Context) ([]reservation.Hotel, error)
	MonthData(ctx context.Context, month occupancy.Month, hotelID int64) (MonthData, error)
	DefaultPartner(ctx context.Context) (int64, error)
	ProductForRoom(ctx context.Context, roomID int64) (int64, error)
	ReuseRoomReady(ctx context.Context, bookingID int64) (int64, error)
	RunAction(ctx context.Context, bookingID int64, method string) error
}

type MonthData struct {
	Rooms        []reservation.Room
	Reservations []reservation.Reservation
	Info         reservation.MonthInfo
}

// RPCBackend adapts the JSON-RPC client.
type RPCBackend struct {
	Client *hotelrpc.Client
}

func (b RPCBackend) Hotels(ctx context.Context) ([]reservation.Hotel, error) {
	hs, err := b.Client.GetHotels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reservation.Hotel, 0, len(hs))
	for _, h := range hs {
		out = append(out, reservation.Hotel{ID: h.ID, Name: h.Name})
	}
	return out, nil
}

func (b RPCBackend) MonthData(ctx context.Context, month occupancy.Month, hotelID int64) (MonthData, error) {
	data, err := b.Client.GanttData(ctx, month.First(), hotelID)
	if err != nil {
		return MonthData{}, err
	}

	out := MonthData{
		Rooms:        make([]reservation.Room, 0, len(data.Rooms)),
		Reservations: make([]reservation.Reservation, 0, len(data.Reservations)),
		Info: reservation.MonthInfo{
			Days:        data.MonthInfo.Days,
			MonthName:   data.MonthInfo.MonthName,
			FirstDayStr: data.MonthInfo.FirstDayStr,
		},
	}
	for _, r := range data.Rooms {
		price := r.Price.Decimal
		if price.IsZero() {
			price = r.ListPrice.Decimal
		}
		out.Rooms = append(out.Rooms, reservation.Room{
			ID:        r.ID,
			Name:      r.Name,
			HotelID:   r.Hotel.ID,
			HotelName: r.Hotel.Name,
			MaxAdult:  r.MaxAdult,
			MaxChild:  r.MaxChild,
			Capacity:  r.Capacity,
			Price:     price,
			Status:    string(r.Status),
		})
	}
	for _, r := range data.Reservations {
		out.Reservations = append(out.Reservations, reservation.Reservation{
			ID:                      r.ID,
			BookingID:               r.BookingID.ID,
			RoomID:                  r.Room.ID,
			RoomName:                r.Room.Name,
			DateStart:               string(r.DateStart),
			DateEnd:                 string(r.DateEnd),
			State:                   string(r.State),
			CustomerName:            string(r.CustomerName),
			TotalAmount:             r.TotalAmount.Decimal,
			CurrencySymbol:          string(r.CurrencySymbol),
			ConnectedBookingID:      r.ConnectedBookingID.ID,
			IsRoomChangeOrigin:      r.IsRoomChangeOrigin,
			IsRoomChangeDestination: r.IsRoomChangeDestination,
		})
	}
	return out, nil
}

func (b RPCBackend) DefaultPartner(ctx context.Context) (int64, error) {
	return b.Client.DefaultPartner(ctx)
}

func (b RPCBackend) ProductForRoom(ctx context.Context, roomID int64) (int64, error) {
	return b.Client.ProductFromTemplate(ctx, roomID)
}

func (b RPCBackend) ReuseRoomReady(ctx context.Context, bookingID int64) (int64, error) {
	return b.Client.ReuseRoomReadyBooking(ctx, bookingID)
}

func (b RPCBackend) RunAction(ctx context.Context, bookingID int64, method string) error {
	return b.Client.RunBookingAction(ctx, bookingID, method)
}
