package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"opsdesk/internal/models"
)

// fakeBackend is an in-memory stand-in for the POS server. It owns the state
// machines the way the real backend does: transitions are validated against
// current status and rejected with a message when out of order.
type fakeBackend struct {
	mu       sync.Mutex
	bookings map[int64]*models.Booking
	folios   map[int64]*models.Folio
	tasks    map[int64]*models.HousekeepingTask

	checkInGate chan struct{} // when non-nil, check-in blocks until closed
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		bookings: make(map[int64]*models.Booking),
		folios:   make(map[int64]*models.Folio),
		tasks:    make(map[int64]*models.HousekeepingTask),
	}
}

func (f *fakeBackend) addBooking(b models.Booking, folio *models.Folio) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[b.ID] = &b
	if folio != nil {
		f.folios[b.ID] = folio
	}
}

func (f *fakeBackend) addTask(t models.HousekeepingTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = &t
}

func (f *fakeBackend) bookingsWithStatus(status models.BookingStatus) []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Booking{}
	for _, b := range f.bookings {
		if b.Status == status {
			out = append(out, *b)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func reject(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"message": message})
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/bookings/arrivals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.bookingsWithStatus(models.BookingPendingArrival))
	})
	mux.HandleFunc("/api/bookings/departures", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.bookingsWithStatus(models.BookingInHouse))
	})
	mux.HandleFunc("/api/bookings/in-house", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.bookingsWithStatus(models.BookingInHouse))
	})
	mux.HandleFunc("/api/rooms/availability", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.RoomAvailabilitySummary{})
	})
	mux.HandleFunc("/api/rooms/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Room{})
	})
	mux.HandleFunc("/api/housekeeping/tasks", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		out := []models.HousekeepingTask{}
		for _, t := range f.tasks {
			out = append(out, *t)
		}
		f.mu.Unlock()
		writeJSON(w, out)
	})

	mux.HandleFunc("/api/bookings/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// api bookings {id} {verb}
		if len(parts) != 4 {
			http.NotFound(w, r)
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		switch parts[3] {
		case "folio":
			f.mu.Lock()
			folio, ok := f.folios[id]
			f.mu.Unlock()
			if !ok {
				reject(w, http.StatusNotFound, "folio not found")
				return
			}
			writeJSON(w, folio)
		case "check-in":
			if gate := f.checkInGate; gate != nil {
				<-gate
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			b, ok := f.bookings[id]
			if !ok {
				reject(w, http.StatusNotFound, "booking not found")
				return
			}
			if b.Status != models.BookingPendingArrival {
				reject(w, http.StatusConflict, "booking is not pending arrival")
				return
			}
			b.Status = models.BookingInHouse
			writeJSON(w, b)
		case "check-out":
			var payload CheckOutPayload
			json.NewDecoder(r.Body).Decode(&payload)
			f.mu.Lock()
			defer f.mu.Unlock()
			b, ok := f.bookings[id]
			if !ok {
				reject(w, http.StatusNotFound, "booking not found")
				return
			}
			if b.Status != models.BookingInHouse {
				reject(w, http.StatusConflict, "booking is not in house")
				return
			}
			if folio := f.folios[id]; folio != nil {
				folio.PaidAmount += payload.PaymentAmount
				folio.Balance = folio.TotalAmount - folio.PaidAmount
			}
			b.Status = models.BookingDeparted
			writeJSON(w, b)
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/api/housekeeping/tasks/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 5 {
			http.NotFound(w, r)
			return
		}
		id, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		t, ok := f.tasks[id]
		if !ok {
			reject(w, http.StatusNotFound, "task not found")
			return
		}
		var action models.Action
		switch parts[4] {
		case "start":
			action = models.ActionStartTask
		case "complete":
			action = models.ActionCompleteTask
		case "verify":
			action = models.ActionVerifyTask
		default:
			http.NotFound(w, r)
			return
		}
		if !models.ValidTaskTransition(action, t.Status) {
			reject(w, http.StatusConflict, "invalid transition from "+string(t.Status))
			return
		}
		switch action {
		case models.ActionStartTask:
			t.Status = models.TaskInProgress
		case models.ActionCompleteTask:
			t.Status = models.TaskCompleted
		case models.ActionVerifyTask:
			t.Status = models.TaskVerified
		}
		writeJSON(w, t)
	})

	return mux
}

func newTestClient(t *testing.T, f *fakeBackend) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", 5*time.Second)
}

func TestCheckInRoundTrip(t *testing.T) {
	f := newFakeBackend()
	f.addBooking(models.Booking{ID: 1, GuestName: "Ada", Status: models.BookingPendingArrival}, nil)
	c := newTestClient(t, f)
	ctx := context.Background()

	arrivals, err := c.Arrivals(ctx, Filters{})
	if err != nil {
		t.Fatalf("Arrivals failed: %v", err)
	}
	if len(arrivals) != 1 || arrivals[0].ID != 1 {
		t.Fatalf("expected booking 1 in arrivals, got %+v", arrivals)
	}

	updated, err := c.CheckIn(ctx, 1)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if updated.Status != models.BookingInHouse {
		t.Errorf("expected in_house after check-in, got %s", updated.Status)
	}

	arrivals, err = c.Arrivals(ctx, Filters{})
	if err != nil {
		t.Fatalf("Arrivals refetch failed: %v", err)
	}
	if len(arrivals) != 0 {
		t.Errorf("expected booking 1 gone from arrivals, got %+v", arrivals)
	}

	inHouse, err := c.InHouse(ctx, Filters{})
	if err != nil {
		t.Fatalf("InHouse failed: %v", err)
	}
	if len(inHouse) != 1 || inHouse[0].ID != 1 {
		t.Errorf("expected booking 1 in in-house, got %+v", inHouse)
	}
}

func TestTaskLifecycle(t *testing.T) {
	f := newFakeBackend()
	f.addTask(models.HousekeepingTask{ID: 7, Status: models.TaskPending})
	c := newTestClient(t, f)
	ctx := context.Background()

	t.Run("SequentialTransitions", func(t *testing.T) {
		if _, err := c.StartTask(ctx, 7); err != nil {
			t.Fatalf("StartTask failed: %v", err)
		}
		if _, err := c.CompleteTask(ctx, 7); err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
		task, err := c.VerifyTask(ctx, 7)
		if err != nil {
			t.Fatalf("VerifyTask failed: %v", err)
		}
		if task.Status != models.TaskVerified {
			t.Errorf("expected verified, got %s", task.Status)
		}
	})

	t.Run("SkippedTransitionRejected", func(t *testing.T) {
		f.addTask(models.HousekeepingTask{ID: 8, Status: models.TaskPending})

		_, err := c.CompleteTask(ctx, 8)
		if err == nil {
			t.Fatal("expected complete-before-start to be rejected")
		}
		if !IsRejected(err) {
			t.Errorf("expected a rejection, got %v", err)
		}

		tasks, err := c.Tasks(ctx, Filters{})
		if err != nil {
			t.Fatalf("Tasks failed: %v", err)
		}
		for _, task := range tasks {
			if task.ID == 8 && task.Status != models.TaskPending {
				t.Errorf("expected task 8 still pending after rejection, got %s", task.Status)
			}
		}
	})
}

func TestCheckOutSettlesFolio(t *testing.T) {
	f := newFakeBackend()
	f.addBooking(
		models.Booking{ID: 3, GuestName: "Grace", Status: models.BookingInHouse},
		&models.Folio{ID: 30, BookingID: 3, TotalAmount: 100, PaidAmount: 0, Balance: 100},
	)
	c := newTestClient(t, f)
	ctx := context.Background()

	folio, err := c.Folio(ctx, 3)
	if err != nil {
		t.Fatalf("Folio failed: %v", err)
	}
	if folio.Balance != 100 {
		t.Fatalf("expected balance 100, got %.2f", folio.Balance)
	}

	if _, err := c.CheckOut(ctx, 3, CheckOutPayload{PaymentMethod: "card", PaymentAmount: 100}); err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}

	folio, err = c.Folio(ctx, 3)
	if err != nil {
		t.Fatalf("Folio refetch failed: %v", err)
	}
	if folio.Balance != 0 {
		t.Errorf("expected balance 0 after checkout, got %.2f", folio.Balance)
	}

	inHouse, err := c.InHouse(ctx, Filters{})
	if err != nil {
		t.Fatalf("InHouse failed: %v", err)
	}
	if len(inHouse) != 0 {
		t.Errorf("expected booking gone from in-house after checkout, got %+v", inHouse)
	}
}

func TestEmptyCollectionsAreValid(t *testing.T) {
	f := newFakeBackend()
	c := newTestClient(t, f)

	arrivals, err := c.Arrivals(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("empty arrivals should not be an error: %v", err)
	}
	if len(arrivals) != 0 {
		t.Errorf("expected empty arrivals, got %+v", arrivals)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Run("AuthFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject(w, http.StatusUnauthorized, "session expired")
		}))
		defer server.Close()
		c := NewClient(server.URL, "stale", time.Second)

		_, err := c.Arrivals(context.Background(), Filters{})
		if !IsAuth(err) {
			t.Errorf("expected auth error, got %v", err)
		}
		if IsRejected(err) {
			t.Error("auth failure must not be classified as a validation rejection")
		}
	})

	t.Run("TransportFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listening anymore

		c := NewClient(server.URL, "token", time.Second)
		_, err := c.Arrivals(context.Background(), Filters{})
		if !IsTransport(err) {
			t.Errorf("expected transport error, got %v", err)
		}
	})

	t.Run("RejectionMessageVerbatim", func(t *testing.T) {
		f := newFakeBackend()
		f.addBooking(models.Booking{ID: 5, Status: models.BookingDeparted}, nil)
		c := newTestClient(t, f)

		_, err := c.CheckIn(context.Background(), 5)
		if !IsRejected(err) {
			t.Fatalf("expected rejection, got %v", err)
		}
		if got := Message(err); got != "booking is not pending arrival" {
			t.Errorf("expected server message verbatim, got %q", got)
		}
	})
}

func TestTransitionInFlightGuard(t *testing.T) {
	f := newFakeBackend()
	f.addBooking(models.Booking{ID: 9, Status: models.BookingPendingArrival}, nil)
	gate := make(chan struct{})
	f.checkInGate = gate
	c := newTestClient(t, f)

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.CheckIn(context.Background(), 9)
		firstDone <- err
	}()

	// wait for the first request to be in flight
	deadline := time.After(2 * time.Second)
	for {
		c.mu.Lock()
		busy := len(c.inflight) == 1
		c.mu.Unlock()
		if busy {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first check-in never became in-flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := c.CheckIn(context.Background(), 9)
	if err != ErrTransitionInFlight {
		t.Errorf("expected ErrTransitionInFlight for duplicate submit, got %v", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}

	// guard released after the response was observed
	if _, err := c.CheckIn(context.Background(), 9); !IsRejected(err) {
		t.Errorf("expected rejection (already in house), got %v", err)
	}
}
