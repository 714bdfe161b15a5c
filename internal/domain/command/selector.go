package command

import "pdf-assistant/internal/domain/model"

// SelectInputs applies the plan's selection strategy to the session's
// files (upload order). The single strategy takes the oldest upload,
// which keeps selection stable as new results are appended.
// An empty result for a plan that requires files is the caller's
// precondition failure; dispatch must not be attempted.
func SelectInputs(plan model.ExecutionPlan, available []model.FileRecord) []model.FileRecord {
	if len(available) == 0 {
		return nil
	}
	switch plan.Selection {
	case model.SelectMultiple:
		return available
	case model.SelectSingle:
		return available[:1]
	case model.SelectNone:
		return nil
	}
	return available
}
