package models

import "time"

// Booking is a guest reservation as reported by the backend. The backend owns
// the lifecycle; this client only displays the reported status and requests
// transitions against it.
type Booking struct {
	ID              int64         `json:"id"`
	GuestID         int64         `json:"guest_id"`
	GuestName       string        `json:"guest_name"`
	Status          BookingStatus `json:"status"`
	Rooms           []RoomRef     `json:"rooms"` // ordered, first entry is primary
	ExpectedArrival time.Time     `json:"expected_arrival"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	FolioID         int64         `json:"folio_id,omitempty"`
	Folio           *Folio        `json:"folio,omitempty"`
}

// PrimaryRoom returns the primary room number, or "" when no room is assigned yet.
func (b *Booking) PrimaryRoom() string {
	if len(b.Rooms) == 0 {
		return ""
	}
	return b.Rooms[0].Number
}

// RoomRef links a booking to one assigned room.
type RoomRef struct {
	RoomID int64  `json:"room_id"`
	Number string `json:"number"`
}

// Folio is the billing aggregate for one booking. Balance is computed by the
// server; the client must never recompute it from total and paid.
type Folio struct {
	ID          int64   `json:"id"`
	BookingID   int64   `json:"booking_id"`
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	Balance     float64 `json:"balance"`
}
