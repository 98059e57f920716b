package snapshot

import (
	"time"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

// GenerateSnapshotResponse represents a generated snapshot. Markdown is set
// only when the markdown output format was requested.
type GenerateSnapshotResponse struct {
	ID        string                   `json:"id"`
	Filename  string                   `json:"filename"`
	Format    string                   `json:"format"`
	CreatedAt time.Time                `json:"created_at"`
	Snapshot  *entities.SnapshotOutput `json:"snapshot,omitempty"`
	Markdown  string                   `json:"markdown,omitempty"`
}

// SnapshotListItem represents one snapshot in a listing.
type SnapshotListItem struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	CreatedAt     time.Time `json:"created_at"`
	AvgConfidence float64   `json:"avg_confidence"`
	TotalSections int       `json:"total_sections"`
	IsValid       bool      `json:"is_valid"`
}

// ListSnapshotsResponse represents the snapshot listing.
type ListSnapshotsResponse struct {
	Snapshots  []SnapshotListItem `json:"snapshots"`
	TotalCount int                `json:"total_count"`
}

// SectionResponse represents one section of a stored snapshot.
type SectionResponse struct {
	SnapshotID    string   `json:"snapshot_id"`
	Name          string   `json:"name"`
	Content       string   `json:"content"`
	Confidence    float64  `json:"confidence"`
	MissingFields []string `json:"missing_fields"`
}
