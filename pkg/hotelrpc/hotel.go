package hotelrpc

import (
	"context"
	"fmt"
	"time"
)

type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Room struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	ListPrice Amount   `json:"list_price"`
	MaxAdult  int      `json:"max_adult"`
	MaxChild  int      `json:"max_child"`
	Hotel     Many2One `json:"hotel_id"`
	Capacity  int      `json:"capacity"`
	Price     Amount   `json:"price"`
	Status    Text     `json:"status"`
}

// Reservation is one gantt line. Dates stay as received; an empty date
// arrives as false and decodes to "".
type Reservation struct {
	ID                      int64    `json:"id"`
	BookingID               Many2One `json:"booking_id"`
	DateStart               Text     `json:"date_start"`
	DateEnd                 Text     `json:"date_end"`
	State                   Text     `json:"state"`
	CustomerName            Text     `json:"customer_name"`
	Room                    Many2One `json:"room_id"`
	TotalAmount             Amount   `json:"total_amount"`
	CurrencySymbol          Text     `json:"currency_symbol"`
	ConnectedBookingID      Many2One `json:"connected_booking_id"`
	IsRoomChangeOrigin      bool     `json:"is_room_change_origin"`
	IsRoomChangeDestination bool     `json:"is_room_change_destination"`
}

type MonthInfo struct {
	MonthName   string `json:"month_name"`
	Days        []int  `json:"days"`
	FirstDayStr string `json:"first_day_str"`
}

type GanttData struct {
	Rooms        []Room        `json:"rooms"`
	Reservations []Reservation `json:"reservations"`
	MonthInfo    MonthInfo     `json:"month_info"`
}

const (
	routeHotels         = "/hotel/get_hotels"
	routeGanttData      = "/hotel/gantt_data"
	routeDefaultPartner = "/hotel/get_default_partner"
	routeProduct        = "/hotel/get_product_from_template"
	routeReuse          = "/hotel/reuse_room_ready_booking"

	BookingModel = "hotel.booking"
)

func (c *Client) GetHotels(ctx context.Context) ([]Hotel, error) {
	var out struct {
		routeStatus
		Hotels []Hotel `json:"hotels"`
	}
	if err := c.call(ctx, routeHotels, nil, &out); err != nil {
		return nil, err
	}
	if err := out.check(routeHotels); err != nil {
		return nil, err
	}
	return out.Hotels, nil
}

// GanttData loads rooms and reservations for the month containing target.
// hotelID 0 means every hotel.
func (c *Client) GanttData(ctx context.Context, target time.Time, hotelID int64) (*GanttData, error) {
	params := map[string]any{"target_date": target.Format("2006-01-02")}
	if hotelID != 0 {
		params["hotel_id"] = hotelID
	}

	var out struct {
		routeStatus
		GanttData
	}
	if err := c.call(ctx, routeGanttData, params, &out); err != nil {
		return nil, err
	}
	if err := out.check(routeGanttData); err != nil {
		return nil, err
	}
	return &out.GanttData, nil
}

// DefaultPartner returns the walk-in customer id, or 0 when the backend has none.
func (c *Client) DefaultPartner(ctx context.Context) (int64, error) {
	var out struct {
		routeStatus
		PartnerID Many2One `json:"default_partner_id"`
	}
	if err := c.call(ctx, routeDefaultPartner, nil, &out); err != nil {
		return 0, err
	}
	if err := out.check(routeDefaultPartner); err != nil {
		return 0, err
	}
	return out.PartnerID.ID, nil
}

// ProductFromTemplate maps a room (product template) id to its sellable
// product id.
func (c *Client) ProductFromTemplate(ctx context.Context, templateID int64) (int64, error) {
	var out struct {
		routeStatus
		ProductID Many2One `json:"product_id"`
	}
	if err := c.call(ctx, routeProduct, map[string]any{"template_id": templateID}, &out); err != nil {
		return 0, err
	}
	if err := out.check(routeProduct); err != nil {
		return 0, err
	}
	if out.ProductID.ID == 0 {
		return 0, &RouteError{Route: routeProduct, Message: fmt.Sprintf("no product for template %d", templateID)}
	}
	return out.ProductID.ID, nil
}

// ReuseRoomReadyBooking clones a room_ready booking into a new one and
// returns the new booking id.
func (c *Client) ReuseRoomReadyBooking(ctx context.Context, bookingID int64) (int64, error) {
	var out struct {
		routeStatus
		NewBookingID Many2One `json:"new_booking_id"`
	}
	if err := c.call(ctx, routeReuse, map[string]any{"booking_id": bookingID}, &out); err != nil {
		return 0, err
	}
	if err := out.check(routeReuse); err != nil {
		return 0, err
	}
	return out.NewBookingID.ID, nil
}

// CallKw invokes a model method through the generic dataset endpoint.
func (c *Client) CallKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	path := fmt.Sprintf("/web/dataset/call_kw/%s/%s", model, method)
	return c.call(ctx, path, map[string]any{
		"model":  model,
		"method": method,
		"args":   args,
		"kwargs": kwargs,
	}, out)
}

// RunBookingAction calls a state action (action_check_in, ...) on one booking.
func (c *Client) RunBookingAction(ctx context.Context, bookingID int64, method string) error {
	return c.CallKw(ctx, BookingModel, method, []any{[]int64{bookingID}}, nil, nil)
}
