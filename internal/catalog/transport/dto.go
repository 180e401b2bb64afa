package transport

import "time"

// StatusResponse describes the live catalog snapshot.
type StatusResponse struct {
	Source   string    `json:"source"`
	Products int       `json:"products"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReloadResponse is returned after a reload or upload made a new snapshot live.
type ReloadResponse struct {
	Message string         `json:"message"`
	Catalog StatusResponse `json:"catalog"`
}
