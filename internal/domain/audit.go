package domain

import "time"

// AuditEntry represents a single audit log record for an administrative or
// query action.
type AuditEntry struct {
	ID        string
	Username  string
	Action    string
	Detail    string
	Status    string // "OK", "DENIED", "ERROR"
	CreatedAt time.Time
}
