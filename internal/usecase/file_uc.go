// File: internal/usecase/file_uc.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/adapter"
	"pdf-assistant/internal/domain/ports/repository"
)

// Compile-time check
var _ FileUseCase = (*fileUC)(nil)

type FileUseCase interface {
	Upload(ctx context.Context, sessionID, filename string, data io.Reader) (*model.FileRecord, error)
	List(ctx context.Context, sessionID string) ([]model.FileRecord, error)
	Delete(ctx context.Context, sessionID, fileID string) error
	SetCurrent(ctx context.Context, sessionID, fileID string) error
	Info(ctx context.Context, sessionID, fileID string) (*model.FileRecord, error)
	Open(ctx context.Context, sessionID, fileID string) (io.ReadCloser, *model.FileRecord, error)
}

type fileUC struct {
	sessions repository.SessionRepository
	blobs    adapter.BlobStore
	log      *zerolog.Logger
}

func NewFileUseCase(sessions repository.SessionRepository, blobs adapter.BlobStore, logger *zerolog.Logger) *fileUC {
	return &fileUC{sessions: sessions, blobs: blobs, log: logger}
}

func (f *fileUC) Upload(ctx context.Context, sessionID, filename string, data io.Reader) (*model.FileRecord, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: only PDF files are allowed", domain.ErrInvalidArgument)
	}

	id := uuid.NewString()
	path, size, err := f.blobs.Put(ctx, sessionID, id, data)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	rec := model.FileRecord{
		ID:           id,
		Name:         id + ".pdf",
		OriginalName: filename,
		Path:         path,
		Size:         size,
		// Estimate; the codec behind the engine owns the real number.
		PageCount: estimatePageCount(size),
		CreatedAt: time.Now(),
		Temporary: true,
	}

	err = f.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		s.AddFile(rec)
		return nil
	})
	if err != nil {
		// Keep the session consistent: the blob is orphaned, not the record.
		_ = f.blobs.Delete(ctx, sessionID, id)
		return nil, err
	}

	f.log.Info().Str("session_id", sessionID).Str("file_id", id).Int64("size", size).Msg("file uploaded")
	return &rec, nil
}

func (f *fileUC) List(ctx context.Context, sessionID string) ([]model.FileRecord, error) {
	s, err := f.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Files, nil
}

func (f *fileUC) Delete(ctx context.Context, sessionID, fileID string) error {
	err := f.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		if !s.RemoveFile(fileID) {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Blob removal is delegated and best-effort; the session no longer
	// selects the file either way.
	if err := f.blobs.Delete(ctx, sessionID, fileID); err != nil {
		f.log.Warn().Err(err).Str("file_id", fileID).Msg("blob delete failed")
	}
	return nil
}

func (f *fileUC) SetCurrent(ctx context.Context, sessionID, fileID string) error {
	return f.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		if s.FindFile(fileID) == nil {
			return domain.ErrNotFound
		}
		s.CurrentFileID = fileID
		return nil
	})
}

func (f *fileUC) Info(ctx context.Context, sessionID, fileID string) (*model.FileRecord, error) {
	s, err := f.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec := s.FindFile(fileID)
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fileUC) Open(ctx context.Context, sessionID, fileID string) (io.ReadCloser, *model.FileRecord, error) {
	rec, err := f.Info(ctx, sessionID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := f.blobs.Open(ctx, sessionID, fileID)
	if err != nil {
		return nil, nil, err
	}
	return rc, rec, nil
}

const bytesPerPageEstimate = 48 * 1024

func estimatePageCount(size int64) int {
	n := int(size / bytesPerPageEstimate)
	if n < 1 {
		return 1
	}
	return n
}
