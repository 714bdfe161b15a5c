package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/infra/metrics"
)

type chatMessageRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.chatUC.SendMessage(r.Context(), sessionID, req.Content)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	outcome := "completed"
	if reply.Role == model.RoleError {
		outcome = "failed"
		metrics.IncPipelineFailure(failureStage(reply))
	}
	metrics.IncPipelineRequest(outcome)
	writeJSON(w, http.StatusOK, reply)
}

// failureStage attributes an error reply to the stage that produced
// it, as far as the composed message lets us tell.
func failureStage(m *model.ChatMessage) string {
	switch {
	case m.Result == nil:
		return "generator"
	case m.Result.Operation == "":
		return "extract"
	case m.Result.ShowRetry:
		return "dispatch"
	default:
		return "validate"
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.chatUC.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.ClearHistory(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.chatUC.Sessions(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	metrics.SetActiveSessions(len(ids))
	writeJSON(w, http.StatusOK, ids)
}

type fileUploadResponse struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
	Path      string `json:"upload_path"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		httpError(w, http.StatusBadRequest, "File size exceeds upload limit")
		return
	}
	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		httpError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	rec, err := s.fileUC.Upload(r.Context(), sessionID, header.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			httpError(w, http.StatusBadRequest, "Only PDF files are allowed")
			return
		}
		s.writeDomainError(w, err)
		return
	}
	metrics.IncFileUploaded()

	writeJSON(w, http.StatusOK, fileUploadResponse{
		FileID:    rec.ID,
		Filename:  rec.OriginalName,
		FileSize:  rec.Size,
		PageCount: rec.PageCount,
		Path:      rec.Path,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.fileUC.List(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if files == nil {
		files = []model.FileRecord{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httpError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if err := s.fileUC.Delete(r.Context(), sessionID, chi.URLParam(r, "fileID")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

type setCurrentRequest struct {
	SessionID string `json:"session_id"`
	FileID    string `json:"file_id"`
}

func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.fileUC.SetCurrent(r.Context(), req.SessionID, req.FileID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Current PDF updated", "current_pdf_id": req.FileID})
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	rec, err := s.fileUC.Info(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "fileID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sessionID, fileID, err := s.signer.Verify(chi.URLParam(r, "token"))
	if err != nil {
		httpError(w, http.StatusForbidden, "Invalid or expired download reference")
		return
	}
	rc, rec, err := s.fileUC.Open(r.Context(), sessionID, fileID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	defer rc.Close()

	contentType := "application/pdf"
	if strings.HasSuffix(rec.Name, ".txt") {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.Name+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		s.log.Warn().Err(err).Str("file_id", fileID).Msg("download stream interrupted")
	}
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	ops := model.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		httpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		httpError(w, http.StatusTooManyRequests, "Too many requests, slow down")
	default:
		s.log.Error().Err(err).Msg("request failed")
		httpError(w, http.StatusInternalServerError, "Internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
