package entity

import "time"

type SaveState string

const (
	SaveStateSaved  SaveState = "saved"
	SaveStateSaving SaveState = "saving"
	SaveStateError  SaveState = "error"
)

type SaveStatus struct {
	State         SaveState  `json:"state"`
	Error         string     `json:"error,omitempty"`
	LastSavedAt   *time.Time `json:"lastSavedAt,omitempty"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
	// Seq increases with every announced transition. Listeners drop statuses older than
	// the last one they applied, since broadcasts may arrive out of order.
	Seq           uint64     `json:"seq"`
}
