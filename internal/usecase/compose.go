package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/command"
	"pdf-assistant/internal/domain/model"
)

// DownloadRefSigner mints the download reference embedded in a
// composed result. Implemented by the web layer (signed tokens).
type DownloadRefSigner interface {
	Sign(sessionID, fileID string) (string, error)
}

// composeSuccess builds the assistant message for a completed dispatch.
// The result file and the message referencing it are written to the
// session in the same read-modify-write cycle by the caller, so history
// never references a file the session has not seen.
func composeSuccess(sessionID string, plan model.ExecutionPlan, file *model.FileRecord, downloadRef string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   successText(plan, file),
		Role:      model.RoleAssistant,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Result: &model.OperationResult{
			Operation:  plan.Op,
			Parameters: plan.Params,
			Status:     model.ResultCompleted,
			ResultFile: &model.ResultFile{
				ID:          file.ID,
				Name:        file.Name,
				Path:        file.Path,
				DownloadRef: downloadRef,
				Size:        file.Size,
				PageCount:   file.PageCount,
				Kind:        plan.Output,
			},
		},
	}
}

// composeFailure turns any stage error into the user-facing error
// message appended to history. ShowRetry marks failures a resubmission
// could fix (dispatch errors); extraction and validation failures need
// a different request instead.
func composeFailure(sessionID string, op model.Operation, params map[string]any, err error) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   failureText(err),
		Role:      model.RoleError,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Result: &model.OperationResult{
			Operation:  op,
			Parameters: params,
			Status:     model.ResultFailed,
			ShowRetry:  domain.Retryable(err),
		},
	}
}

func successText(plan model.ExecutionPlan, file *model.FileRecord) string {
	switch plan.Op {
	case model.OpExtractPages:
		return fmt.Sprintf("Extracted pages %s into %s.", pageList(plan.Params), file.Name)
	case model.OpMergePDFs:
		return fmt.Sprintf("Merged your PDFs into %s (%d pages).", file.Name, file.PageCount)
	case model.OpSplitPDF:
		return fmt.Sprintf("Split the PDF; first part is %s.", file.Name)
	case model.OpRotatePages:
		return fmt.Sprintf("Rotated pages %s by %v degrees in %s.", pageList(plan.Params), plan.Params["rotation"], file.Name)
	case model.OpCompressPDF:
		return fmt.Sprintf("Compressed the PDF into %s (%d bytes).", file.Name, file.Size)
	case model.OpAddWatermark:
		return fmt.Sprintf("Added watermark %q to %s.", plan.Params["watermark_text"], file.Name)
	case model.OpExtractText:
		return fmt.Sprintf("Extracted the text into %s.", file.Name)
	}
	return fmt.Sprintf("Operation %s completed; result is %s.", plan.Op, file.Name)
}

func failureText(err error) string {
	var (
		exErr  *domain.ExtractionError
		mpErr  *domain.MalformedParametersError
		uoErr  *domain.UnsupportedOperationError
		valErr *domain.ValidationError
		preErr *domain.PreconditionError
		opErr  *domain.OperationError
	)
	switch {
	case errors.As(err, &exErr):
		return "I couldn't understand that as a document operation. " + exErr.Error()
	case errors.As(err, &mpErr):
		return "The operation parameters were malformed. " + mpErr.Error()
	case errors.As(err, &uoErr):
		return uoErr.Error() + ". Please ask for one of the supported operations."
	case errors.As(err, &valErr):
		return valErr.Error()
	case errors.As(err, &preErr):
		return preErr.Error()
	case errors.As(err, &opErr):
		return "The operation failed while processing your document: " + opErr.Cause.Error() + ". You can retry the request."
	}
	return "Something went wrong while handling your request: " + err.Error()
}

func pageList(params map[string]any) string {
	pages := command.Pages(params)
	if len(pages) == 0 {
		return "?"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
