package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opsdesk/internal/api"
	"opsdesk/internal/config"
	"opsdesk/internal/events"
	"opsdesk/internal/export"
	"opsdesk/internal/models"
	"opsdesk/internal/sync"
	"opsdesk/internal/workflow"
)

// adminServer is the local control surface the rendering shell talks to:
// manual refresh, shift export and the transition endpoints. It binds on the
// monitoring port and also serves /metrics when Prometheus is enabled.
type adminServer struct {
	cfg          *config.Config
	client       *api.Client
	bus          *events.EventBus
	viewer       models.Viewer
	frontDesk    *sync.Scheduler
	housekeeping *sync.Scheduler
}

func newAdminServer(cfg *config.Config, client *api.Client, bus *events.EventBus, viewer models.Viewer, frontDesk, housekeeping *sync.Scheduler) *adminServer {
	return &adminServer{
		cfg:          cfg,
		client:       client,
		bus:          bus,
		viewer:       viewer,
		frontDesk:    frontDesk,
		housekeeping: housekeeping,
	}
}

func (s *adminServer) serve(ctx context.Context) {
	mux := http.NewServeMux()
	if s.cfg.Monitoring.PrometheusEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/action", s.handleAction)

	port := s.cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("admin server error: %v", err)
	}
}

func (s *adminServer) schedulerFor(scope string) *sync.Scheduler {
	switch scope {
	case sync.ScopeFrontDesk:
		return s.frontDesk
	case sync.ScopeHousekeeping:
		return s.housekeeping
	}
	return nil
}

// handleRefresh triggers an immediate refresh for one scope or both.
func (s *adminServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		s.frontDesk.TriggerNow()
		s.housekeeping.TriggerNow()
		w.WriteHeader(http.StatusAccepted)
		return
	}
	sched := s.schedulerFor(scope)
	if sched == nil {
		http.Error(w, "unknown scope: "+scope, http.StatusBadRequest)
		return
	}
	sched.TriggerNow()
	w.WriteHeader(http.StatusAccepted)
}

func (s *adminServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	path, err := export.ShiftReport(s.cfg.Exports.Path, s.frontDesk.Last(), s.housekeeping.Last())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Printf("shift report exported to %s", path)
	json.NewEncoder(w).Encode(map[string]string{"path": path})
}

// handleAction runs one transition workflow end to end: locate the entity in
// the latest snapshot, open the matching workflow, confirm once, and report
// the outcome. The shell keeps the triggering control disabled until this
// returns.
func (s *adminServer) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	action := models.Action(q.Get("action"))
	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	wf, payload, err := s.openWorkflow(r.Context(), action, id, q.Get("payment_method"), q.Get("payment_amount"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	confirmErr := wf.Confirm(r.Context(), payload)
	outcome := "success"
	message := ""
	if confirmErr != nil {
		outcome = "failure"
		message = api.Message(confirmErr)
	}
	s.bus.Publish(events.EventTransitionCompleted, events.TransitionCompletedPayload{
		Action:     string(action),
		EntityID:   id,
		WorkflowID: wf.ID,
		Outcome:    outcome,
		Message:    message,
	})

	if confirmErr != nil {
		status := http.StatusBadGateway
		if api.IsRejected(confirmErr) {
			status = http.StatusConflict
		} else if api.IsAuth(confirmErr) {
			status = http.StatusUnauthorized
		}
		http.Error(w, message, status)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"workflow": wf.ID, "outcome": outcome})
}

// openWorkflow builds the workflow for an action against the entity as it
// appears in the latest applied snapshot. Acting on an entity the boards have
// not seen yet is refused; the shell should refresh first.
func (s *adminServer) openWorkflow(ctx context.Context, action models.Action, id int64, method, amount string) (*workflow.Workflow, *api.CheckOutPayload, error) {
	onSuccess := func() { s.schedulerForAction(action).TriggerNow() }

	switch action {
	case models.ActionCheckIn:
		b, ok := findBooking(s.frontDesk.Last(), id)
		if !ok {
			return nil, nil, fmt.Errorf("booking #%d not in current snapshot", id)
		}
		wf, err := workflow.NewCheckIn(s.client, b, onSuccess)
		return wf, nil, err

	case models.ActionCheckOut:
		b, ok := findBooking(s.frontDesk.Last(), id)
		if !ok {
			return nil, nil, fmt.Errorf("booking #%d not in current snapshot", id)
		}
		wf, err := workflow.NewCheckOut(ctx, s.client, b, onSuccess)
		if err != nil {
			return nil, nil, err
		}
		amt, _ := strconv.ParseFloat(amount, 64)
		return wf, &api.CheckOutPayload{PaymentMethod: method, PaymentAmount: amt}, nil

	case models.ActionStartTask, models.ActionCompleteTask, models.ActionVerifyTask:
		t, ok := findTask(s.housekeeping.Last(), id)
		if !ok {
			return nil, nil, fmt.Errorf("task #%d not in current snapshot", id)
		}
		wf, err := workflow.NewTaskAction(s.client, t, action, s.viewer, onSuccess)
		return wf, nil, err

	default:
		return nil, nil, fmt.Errorf("unknown action: %s", action)
	}
}

func (s *adminServer) schedulerForAction(action models.Action) *sync.Scheduler {
	switch action {
	case models.ActionCheckIn, models.ActionCheckOut:
		return s.frontDesk
	default:
		return s.housekeeping
	}
}

func findBooking(snap *sync.Snapshot, id int64) (models.Booking, bool) {
	if snap == nil {
		return models.Booking{}, false
	}
	for _, list := range [][]models.Booking{snap.Arrivals, snap.InHouse, snap.Departures} {
		for _, b := range list {
			if b.ID == id {
				return b, true
			}
		}
	}
	return models.Booking{}, false
}

func findTask(snap *sync.Snapshot, id int64) (models.HousekeepingTask, bool) {
	if snap == nil {
		return models.HousekeepingTask{}, false
	}
	for _, t := range snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.HousekeepingTask{}, false
}
