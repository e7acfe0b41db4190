package models

import "time"

// SyncReport summarizes one deferred-sync pass.
type SyncReport struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  int       `json:"attempted"`
	Synced     int       `json:"synced"`
	Failed     int       `json:"failed"`
	// Error is set when the pass could not start (offline, store failure).
	Error string `json:"error,omitempty"`
}
