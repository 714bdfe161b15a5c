// Package docengine holds the document-operations collaborators behind
// the DocumentEngine port. The pipeline treats them as opaque: fresh
// result ids, provenance to the primary input, atomic failure.
package docengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/adapter"
)

var _ adapter.DocumentEngine = (*LocalEngine)(nil)

// Namespace for deriving result ids. SHA1-based uuids keep the engine
// deterministic for identical inputs while staying distinct from every
// input id.
var resultNamespace = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

// LocalEngine performs the seven operations over stored blobs with
// synthetic byte/page arithmetic. It honors the full engine contract
// and stands in wherever a real codec service is not wired.
type LocalEngine struct {
	blobs adapter.BlobStore
}

func NewLocalEngine(blobs adapter.BlobStore) *LocalEngine {
	return &LocalEngine{blobs: blobs}
}

func (e *LocalEngine) Apply(ctx context.Context, op model.Operation, inputs []model.FileRecord, params map[string]any, sessionID string) (*model.FileRecord, error) {
	if len(inputs) == 0 {
		return nil, errors.New("no input files")
	}
	primary := inputs[0]

	content, err := e.readAll(ctx, sessionID, inputs)
	if err != nil {
		return nil, err
	}

	var (
		out       []byte
		pageCount int
		name      string
	)
	switch op {
	case model.OpExtractPages:
		pages := intList(params["pages"])
		out = prefix(content[0], len(pages), max(primary.PageCount, 1))
		pageCount = len(pages)
		name = "extracted_pages.pdf"
	case model.OpMergePDFs:
		out = bytes.Join(content, nil)
		for _, in := range inputs {
			pageCount += in.PageCount
		}
		name = "merged.pdf"
	case model.OpSplitPDF:
		out = content[0][:len(content[0])/2]
		pageCount = (primary.PageCount + 1) / 2
		name = "split_part_1.pdf"
	case model.OpRotatePages:
		out = content[0]
		pageCount = primary.PageCount
		name = "rotated.pdf"
	case model.OpCompressPDF:
		out = content[0][:len(content[0])*7/10]
		pageCount = primary.PageCount
		name = "compressed.pdf"
	case model.OpAddWatermark:
		text, _ := params["watermark_text"].(string)
		out = append(append([]byte(nil), content[0]...), []byte(text)...)
		pageCount = primary.PageCount
		name = "watermarked.pdf"
	case model.OpExtractText:
		out = []byte(fmt.Sprintf("text extracted from %s (%d pages)\n", primary.OriginalName, primary.PageCount))
		pageCount = 1
		name = "extracted_text.txt"
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}

	if v, ok := params["output_name"].(string); ok && v != "" {
		name = v
	}

	id := resultID(op, inputs, params)
	path, size, err := e.blobs.Put(ctx, sessionID, id, bytes.NewReader(out))
	if err != nil {
		// Atomic failure: nothing is registered on a write error.
		return nil, fmt.Errorf("store result: %w", err)
	}

	return &model.FileRecord{
		ID:           id,
		Name:         name,
		OriginalName: name,
		Path:         path,
		Size:         size,
		PageCount:    pageCount,
		CreatedAt:    time.Now(),
		ParentID:     primary.ID,
		Temporary:    true,
	}, nil
}

func (e *LocalEngine) readAll(ctx context.Context, sessionID string, inputs []model.FileRecord) ([][]byte, error) {
	out := make([][]byte, 0, len(inputs))
	for _, in := range inputs {
		rc, err := e.blobs.Open(ctx, sessionID, in.ID)
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", in.ID, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", in.ID, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// resultID derives a stable id from the operation, its inputs and its
// parameters. Distinct from every input id by construction (namespaced
// hash over different material).
func resultID(op model.Operation, inputs []model.FileRecord, params map[string]any) string {
	var b bytes.Buffer
	b.WriteString(string(op))
	for _, in := range inputs {
		b.WriteByte(0)
		b.WriteString(in.ID)
	}
	fmt.Fprintf(&b, "%v", params)
	return uuid.NewSHA1(resultNamespace, b.Bytes()).String()
}

func prefix(b []byte, part, whole int) []byte {
	if part >= whole {
		return b
	}
	n := len(b) * part / whole
	if n < 1 {
		n = 1
	}
	return b[:n]
}

func intList(v any) []int {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		switch n := e.(type) {
		case int:
			out = append(out, n)
		case float64:
			out = append(out, int(n))
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
