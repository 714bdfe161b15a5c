package adapter

import (
	"context"

	"pdf-assistant/internal/domain/model"
)

// DocumentEngine is the boundary to the document-operations
// collaborator. The transformation itself is opaque to the pipeline;
// the contract is:
//   - deterministic given identical inputs,
//   - the result always carries a fresh id distinct from every input,
//   - ParentID links the result to the primary (first) input,
//   - failure is atomic: no partial result is ever returned.
type DocumentEngine interface {
	Apply(ctx context.Context, op model.Operation, inputs []model.FileRecord, params map[string]any, sessionID string) (*model.FileRecord, error)
}
