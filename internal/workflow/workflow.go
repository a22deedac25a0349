// Package workflow models the short confirm-and-submit interaction a view
// runs for one transition: open on an entity, show details (fetching the folio
// for checkouts), then submit exactly once on confirm. Cancelling at any point
// before confirm touches nothing on the server.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"opsdesk/internal/api"
	"opsdesk/internal/models"
)

// Phase is where a workflow currently is.
type Phase string

const (
	PhaseOpen       Phase = "open"
	PhaseSubmitting Phase = "submitting"
	PhaseClosed     Phase = "closed"
)

// ErrSubmitInFlight means confirm was pressed again while the first submit is
// still outstanding. The duplicate press is ignored by the caller.
var ErrSubmitInFlight = errors.New("workflow: submit already in flight")

// ErrClosed means the workflow has already finished or been cancelled.
var ErrClosed = errors.New("workflow: already closed")

// Workflow is one in-progress transition confirmation. Only Confirm has a
// side effect; it is dispatched at most once per outstanding request.
type Workflow struct {
	ID       string
	Action   models.Action
	EntityID int64
	Folio    *models.Folio // populated for checkouts, nil otherwise

	dispatch  func(ctx context.Context, payload *api.CheckOutPayload) error
	onSuccess func()

	mu     sync.Mutex
	phase  Phase
	errMsg string
}

func newWorkflow(action models.Action, entityID int64, client *api.Client, onSuccess func()) *Workflow {
	return &Workflow{
		ID:       uuid.NewString(),
		Action:   action,
		EntityID: entityID,
		dispatch: func(ctx context.Context, payload *api.CheckOutPayload) error {
			return client.Dispatch(ctx, action, entityID, payload)
		},
		onSuccess: onSuccess,
		phase:     PhaseOpen,
	}
}

// NewCheckIn opens a check-in confirmation for a booking. The transition must
// be allowed from the booking's current status or no workflow is created.
func NewCheckIn(client *api.Client, b models.Booking, onSuccess func()) (*Workflow, error) {
	if !models.ValidBookingTransition(models.ActionCheckIn, b.Status) {
		return nil, fmt.Errorf("booking #%d is %s, cannot check in", b.ID, b.Status)
	}
	return newWorkflow(models.ActionCheckIn, b.ID, client, onSuccess), nil
}

// NewCheckOut opens a check-out confirmation. It fetches the booking's folio
// so the view can show the balance before collecting payment; the fetch is
// read-only, so a cancel after this point still has no server-side effect.
func NewCheckOut(ctx context.Context, client *api.Client, b models.Booking, onSuccess func()) (*Workflow, error) {
	if !models.ValidBookingTransition(models.ActionCheckOut, b.Status) {
		return nil, fmt.Errorf("booking #%d is %s, cannot check out", b.ID, b.Status)
	}
	folio, err := client.Folio(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	w := newWorkflow(models.ActionCheckOut, b.ID, client, onSuccess)
	w.Folio = folio
	return w, nil
}

// NewTaskAction opens a confirmation for one housekeeping transition. The
// action must match the task's current status exactly; a forced skip (verify
// on a pending task) is refused here before it ever reaches the wire.
func NewTaskAction(client *api.Client, t models.HousekeepingTask, action models.Action, viewer models.Viewer, onSuccess func()) (*Workflow, error) {
	if !models.ValidTaskTransition(action, t.Status) {
		return nil, fmt.Errorf("task #%d is %s, cannot %s", t.ID, t.Status, action)
	}
	if action == models.ActionVerifyTask && !viewer.CanVerifyTasks() {
		return nil, fmt.Errorf("role %s cannot verify tasks", viewer.Role)
	}
	return newWorkflow(action, t.ID, client, onSuccess), nil
}

// Phase returns the workflow's current phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// ErrorMessage returns the text shown in the workflow's error slot, or "".
func (w *Workflow) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// Confirm submits the transition once. On success the workflow closes and the
// success callback fires so the owner refreshes its snapshot. On failure the
// workflow stays open with the server's message for correction or cancel.
func (w *Workflow) Confirm(ctx context.Context, payload *api.CheckOutPayload) error {
	w.mu.Lock()
	switch w.phase {
	case PhaseClosed:
		w.mu.Unlock()
		return ErrClosed
	case PhaseSubmitting:
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	w.phase = PhaseSubmitting
	w.errMsg = ""
	w.mu.Unlock()

	err := w.dispatch(ctx, payload)

	w.mu.Lock()
	if err != nil {
		w.phase = PhaseOpen
		w.errMsg = api.Message(err)
		w.mu.Unlock()
		return err
	}
	w.phase = PhaseClosed
	w.mu.Unlock()

	if w.onSuccess != nil {
		w.onSuccess()
	}
	return nil
}

// Cancel closes the workflow without submitting anything. Safe at any point;
// it never causes a server-side mutation.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	if w.phase == PhaseOpen {
		w.phase = PhaseClosed
	}
	w.mu.Unlock()
}
