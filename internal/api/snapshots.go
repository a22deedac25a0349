package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"opsdesk/internal/models"
)

// Filters narrows a snapshot fetch. Zero values mean "no filter"; an empty
// result under any filter is a valid snapshot, not an error.
type Filters struct {
	From     time.Time
	To       time.Time
	Assignee int64
	Statuses []string
}

func (f Filters) query() url.Values {
	q := url.Values{}
	if !f.From.IsZero() {
		q.Set("from", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.Format("2006-01-02"))
	}
	if f.Assignee != 0 {
		q.Set("assignee", fmt.Sprintf("%d", f.Assignee))
	}
	for _, s := range f.Statuses {
		q.Add("status", s)
	}
	return q
}

// Arrivals fetches bookings expected to arrive inside the filter window.
func (c *Client) Arrivals(ctx context.Context, f Filters) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.do(ctx, "arrivals", http.MethodGet, "/api/bookings/arrivals", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Departures fetches in-house bookings due to depart inside the filter window.
func (c *Client) Departures(ctx context.Context, f Filters) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.do(ctx, "departures", http.MethodGet, "/api/bookings/departures", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InHouse fetches all currently checked-in bookings.
func (c *Client) InHouse(ctx context.Context, f Filters) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.do(ctx, "inHouse", http.MethodGet, "/api/bookings/in-house", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomAvailability fetches the per-room-type availability summary.
func (c *Client) RoomAvailability(ctx context.Context) ([]models.RoomAvailabilitySummary, error) {
	var out []models.RoomAvailabilitySummary
	if err := c.do(ctx, "roomAvailability", http.MethodGet, "/api/rooms/availability", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomStatuses fetches the status projection for every room.
func (c *Client) RoomStatuses(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	if err := c.do(ctx, "roomStatus", http.MethodGet, "/api/rooms/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks fetches housekeeping tasks, optionally narrowed by assignee and status.
func (c *Client) Tasks(ctx context.Context, f Filters) ([]models.HousekeepingTask, error) {
	var out []models.HousekeepingTask
	if err := c.do(ctx, "tasks", http.MethodGet, "/api/housekeeping/tasks", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Folio fetches the billing aggregate for one booking, used by the checkout
// workflow to show what is owed before collecting payment.
func (c *Client) Folio(ctx context.Context, bookingID int64) (*models.Folio, error) {
	var out models.Folio
	path := fmt.Sprintf("/api/bookings/%d/folio", bookingID)
	if err := c.do(ctx, "folio", http.MethodGet, path, nil, nil, &out); err != nil {
		if e, ok := err.(*Error); ok {
			e.EntityID = bookingID
		}
		return nil, err
	}
	return &out, nil
}
