package model

import "time"

// FounderAssignment records the founder code granted to this install.
// For a given device identity at most one assignment is ever created; the
// allocation backend is the authority on that invariant, the client only
// persists what it is given.
type FounderAssignment struct {
	FounderCode    string         `json:"founder_code"`
	DeviceIdentity DeviceIdentity `json:"device_identity"`
	AssignedAt     time.Time      `json:"assigned_at"`
}
