package command

import (
	"strings"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
)

// Validate checks a command's parameters against the per-operation
// schema. Pure and total: only the mapping's shape is inspected, never
// session state or files. The switch is exhaustive over the closed
// operation set; unknown names fail before it.
func Validate(cmd model.Command) error {
	if !cmd.Op.Known() {
		return &domain.UnsupportedOperationError{Op: cmd.Op}
	}

	switch cmd.Op {
	case model.OpExtractPages:
		if _, err := pages(cmd.Op, cmd.Params); err != nil {
			return err
		}
	case model.OpRotatePages:
		if _, err := pages(cmd.Op, cmd.Params); err != nil {
			return err
		}
		rot, ok := asInt(cmd.Params["rotation"])
		if !ok || (rot != 90 && rot != 180 && rot != 270) {
			return &domain.ValidationError{Op: cmd.Op, Reason: "rotation must be 90, 180, or 270 degrees"}
		}
	case model.OpAddWatermark:
		text, ok := cmd.Params["watermark_text"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			return &domain.ValidationError{Op: cmd.Op, Reason: "watermark_text must be a non-empty string"}
		}
	case model.OpMergePDFs, model.OpSplitPDF, model.OpCompressPDF, model.OpExtractText:
		// no required fields
	}
	return nil
}

// Pages pulls the validated page list out of an already-validated
// parameter mapping. Returns nil when absent.
func Pages(params map[string]any) []int {
	raw, ok := params["pages"].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := asInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func pages(op model.Operation, params map[string]any) ([]int, error) {
	raw, present := params["pages"]
	if !present {
		return nil, &domain.ValidationError{Op: op, Reason: "pages parameter is required"}
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, &domain.ValidationError{Op: op, Reason: "pages must be a non-empty list of integers"}
	}
	out := make([]int, 0, len(list))
	for _, v := range list {
		n, ok := asInt(v)
		if !ok || n <= 0 {
			return nil, &domain.ValidationError{Op: op, Reason: "all page numbers must be positive integers"}
		}
		out = append(out, n)
	}
	return out, nil
}

// asInt accepts the integer encodings a decoded JSON mapping can carry.
// Floats with a fractional part are not integers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
