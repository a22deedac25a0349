package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"opsdesk/internal/models"
)

// ErrTransitionInFlight means a transition for the same entity is still
// awaiting its response. The caller keeps its control disabled and must not
// submit again; transitions are never safe to duplicate.
var ErrTransitionInFlight = errors.New("transition already in flight for this entity")

// CheckOutPayload carries the payment collected at checkout.
type CheckOutPayload struct {
	PaymentMethod string  `json:"payment_method"`
	PaymentAmount float64 `json:"payment_amount"`
}

// transition performs exactly one write request for one entity. No retries:
// a failure is returned for the user to act on, never silently re-sent.
func (c *Client) transition(ctx context.Context, op, kind string, id int64, path string, payload, out interface{}) error {
	if err := c.acquire(kind, id); err != nil {
		return err
	}
	defer c.release(kind, id)

	if err := c.do(ctx, op, http.MethodPost, path, nil, payload, out); err != nil {
		if e, ok := err.(*Error); ok {
			e.EntityID = id
		}
		return err
	}
	return nil
}

// CheckIn requests the arrival → in-house transition for one booking and
// returns the updated booking as the server reports it.
func (c *Client) CheckIn(ctx context.Context, bookingID int64) (*models.Booking, error) {
	var out models.Booking
	path := fmt.Sprintf("/api/bookings/%d/check-in", bookingID)
	if err := c.transition(ctx, "checkIn", "booking", bookingID, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckOut requests the in-house → departed transition, collecting payment.
func (c *Client) CheckOut(ctx context.Context, bookingID int64, payload CheckOutPayload) (*models.Booking, error) {
	var out models.Booking
	path := fmt.Sprintf("/api/bookings/%d/check-out", bookingID)
	if err := c.transition(ctx, "checkOut", "booking", bookingID, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartTask requests pending → in_progress for one housekeeping task.
func (c *Client) StartTask(ctx context.Context, taskID int64) (*models.HousekeepingTask, error) {
	return c.taskTransition(ctx, "startTask", taskID, "start")
}

// CompleteTask requests in_progress → completed.
func (c *Client) CompleteTask(ctx context.Context, taskID int64) (*models.HousekeepingTask, error) {
	return c.taskTransition(ctx, "completeTask", taskID, "complete")
}

// VerifyTask requests completed → verified.
func (c *Client) VerifyTask(ctx context.Context, taskID int64) (*models.HousekeepingTask, error) {
	return c.taskTransition(ctx, "verifyTask", taskID, "verify")
}

func (c *Client) taskTransition(ctx context.Context, op string, taskID int64, verb string) (*models.HousekeepingTask, error) {
	var out models.HousekeepingTask
	path := fmt.Sprintf("/api/housekeeping/tasks/%d/%s", taskID, verb)
	if err := c.transition(ctx, op, "task", taskID, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dispatch routes a named action to its endpoint. Workflows use this so the
// confirm step stays a single bound call.
func (c *Client) Dispatch(ctx context.Context, action models.Action, entityID int64, payload *CheckOutPayload) error {
	switch action {
	case models.ActionCheckIn:
		_, err := c.CheckIn(ctx, entityID)
		return err
	case models.ActionCheckOut:
		var p CheckOutPayload
		if payload != nil {
			p = *payload
		}
		_, err := c.CheckOut(ctx, entityID, p)
		return err
	case models.ActionStartTask:
		_, err := c.StartTask(ctx, entityID)
		return err
	case models.ActionCompleteTask:
		_, err := c.CompleteTask(ctx, entityID)
		return err
	case models.ActionVerifyTask:
		_, err := c.VerifyTask(ctx, entityID)
		return err
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}
