package entities

import "time"

// StoredSnapshot is a generated snapshot kept for later retrieval, keyed by
// its assigned identifier.
type StoredSnapshot struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Format    string          `json:"format"`
	CreatedAt time.Time       `json:"created_at"`
	Snapshot  *SnapshotOutput `json:"snapshot"`
}
