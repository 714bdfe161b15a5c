package model

import "time"

// FileRecord describes one uploaded or derived document in a session.
// The bytes themselves live behind the BlobStore port; this record only
// carries bookkeeping. ParentID links a derived file back to the input
// it was produced from (provenance, not ownership).
type FileRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalName string    `json:"original_filename"`
	Path         string    `json:"file_path"`
	Size         int64     `json:"file_size"`
	PageCount    int       `json:"page_count"`
	CreatedAt    time.Time `json:"created_at"`
	ParentID     string    `json:"parent_id,omitempty"`
	Temporary    bool      `json:"is_temporary"`
}
