package domain

import "time"

// CompositeStatus is the latest-known combined view of connectivity and
// content outcomes for one URL. It is derived on every read and never
// persisted. Timestamp and Duration always come from the latest connectivity
// entry; Status and Details may be overridden by a newer content entry.
type CompositeStatus struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  int64     `json:"duration_ms"`
	Status    LogStatus `json:"status"`
	Details   string    `json:"details"`
}
