// Package command implements the pure stages of the request pipeline:
// extracting a structured command from raw model output, repairing and
// validating its parameters, planning execution, and selecting input
// files. Nothing here touches session state or I/O.
package command

import (
	"encoding/json"
	"regexp"
	"strings"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
)

var (
	reMethodName = regexp.MustCompile(`(?s)<method_name>(.*?)</method_name>`)
	reParameters = regexp.MustCompile(`(?s)<parameters>(.*?)</parameters>`)
)

// Extract parses raw generator output into a Command. The text must
// contain exactly one <method_name> marker and one <parameters> block;
// the parameter block is repaired before the strict JSON parse.
func Extract(raw string) (model.Command, error) {
	m := reMethodName.FindStringSubmatch(raw)
	if m == nil {
		return model.Command{}, &domain.ExtractionError{Reason: "missing operation marker"}
	}
	op := model.Operation(strings.TrimSpace(m[1]))

	p := reParameters.FindStringSubmatch(raw)
	if p == nil {
		return model.Command{}, &domain.ExtractionError{Reason: "missing parameter block"}
	}
	rawParams := strings.TrimSpace(p[1])

	var params map[string]any
	if err := json.Unmarshal([]byte(RepairJSON(rawParams)), &params); err != nil {
		return model.Command{}, &domain.MalformedParametersError{Cause: err, Raw: rawParams}
	}

	return model.Command{Op: op, Params: params}, nil
}
