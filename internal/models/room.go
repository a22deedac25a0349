package models

// Room is the server's status projection for one physical room.
type Room struct {
	ID     int64      `json:"id"`
	Number string     `json:"number"`
	Floor  int        `json:"floor"`
	Type   string     `json:"type"`
	Status RoomStatus `json:"status"`
}

// RoomAvailabilitySummary is a per-room-type aggregate, recomputed by the
// server on every fetch. Read-only on this side.
type RoomAvailabilitySummary struct {
	RoomType    string `json:"room_type"`
	Available   int    `json:"available"`
	Occupied    int    `json:"occupied"`
	Reserved    int    `json:"reserved"`
	Maintenance int    `json:"maintenance"`
}

// Floor is one entry of the property's room directory, loaded from a local
// YAML file so empty floors still render on boards and reports.
type Floor struct {
	Number int    `yaml:"number" json:"number"`
	Name   string `yaml:"name" json:"name"`
}
