//go:build !integration

package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/infra/store/memory"
)

type fakeBlobStore struct {
	blobs   map[string][]byte
	putErr  error
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) key(sessionID, fileID string) string { return sessionID + "/" + fileID }

func (f *fakeBlobStore) Put(ctx context.Context, sessionID, fileID string, data io.Reader) (string, int64, error) {
	if f.putErr != nil {
		return "", 0, f.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", 0, err
	}
	f.blobs[f.key(sessionID, fileID)] = b
	return "mem/" + f.key(sessionID, fileID), int64(len(b)), nil
}

func (f *fakeBlobStore) Open(ctx context.Context, sessionID, fileID string) (io.ReadCloser, error) {
	b, ok := f.blobs[f.key(sessionID, fileID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, sessionID, fileID string) error {
	f.deleted = append(f.deleted, f.key(sessionID, fileID))
	delete(f.blobs, f.key(sessionID, fileID))
	return nil
}

func (f *fakeBlobStore) DeleteAll(ctx context.Context, sessionID string) error {
	for k := range f.blobs {
		if strings.HasPrefix(k, sessionID+"/") {
			delete(f.blobs, k)
		}
	}
	return nil
}

func TestFileUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the blob and register the record", func(t *testing.T) {
		repo := memory.NewSessionRepo()
		blobs := newFakeBlobStore()
		uc := NewFileUseCase(repo, blobs, testLogger())

		rec, err := uc.Upload(ctx, "s1", "report.pdf", strings.NewReader("%PDF-1.7 content"))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec.OriginalName != "report.pdf" {
			t.Errorf("expected original name report.pdf, but got %q", rec.OriginalName)
		}
		if rec.Name != rec.ID+".pdf" {
			t.Errorf("expected stored name derived from id, but got %q", rec.Name)
		}
		if !rec.Temporary {
			t.Error("uploads are session-scoped and must be marked temporary")
		}
		if rec.PageCount < 1 {
			t.Errorf("page estimate must be at least 1, but got %d", rec.PageCount)
		}

		s, _ := repo.GetOrCreate(ctx, "s1")
		if s.FindFile(rec.ID) == nil {
			t.Error("expected the record in the session file set")
		}
		if s.CurrentFileID != rec.ID {
			t.Errorf("first upload must become current, but got %q", s.CurrentFileID)
		}
	})

	t.Run("should reject non-PDF filenames", func(t *testing.T) {
		uc := NewFileUseCase(memory.NewSessionRepo(), newFakeBlobStore(), testLogger())
		_, err := uc.Upload(ctx, "s1", "notes.txt", strings.NewReader("hi"))
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, but got %v", err)
		}
	})

	t.Run("should accept uppercase extensions", func(t *testing.T) {
		uc := NewFileUseCase(memory.NewSessionRepo(), newFakeBlobStore(), testLogger())
		if _, err := uc.Upload(ctx, "s1", "SCAN.PDF", strings.NewReader("x")); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
	})

	t.Run("should not touch the session when the blob write fails", func(t *testing.T) {
		repo := memory.NewSessionRepo()
		blobs := newFakeBlobStore()
		blobs.putErr = errors.New("disk full")
		uc := NewFileUseCase(repo, blobs, testLogger())

		if _, err := uc.Upload(ctx, "s1", "a.pdf", strings.NewReader("x")); err == nil {
			t.Fatal("expected an error, but got nil")
		}
		s, _ := repo.GetOrCreate(ctx, "s1")
		if len(s.Files) != 0 {
			t.Error("failed upload must leave no record behind")
		}
	})
}

func TestFileDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove the record and the blob", func(t *testing.T) {
		repo := memory.NewSessionRepo()
		blobs := newFakeBlobStore()
		uc := NewFileUseCase(repo, blobs, testLogger())

		rec, err := uc.Upload(ctx, "s1", "a.pdf", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		if err := uc.Delete(ctx, "s1", rec.ID); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if len(blobs.deleted) != 1 {
			t.Errorf("expected one blob delete, but got %v", blobs.deleted)
		}
		if _, err := uc.Info(ctx, "s1", rec.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, but got %v", err)
		}
	})

	t.Run("should return ErrNotFound for an unknown file", func(t *testing.T) {
		uc := NewFileUseCase(memory.NewSessionRepo(), newFakeBlobStore(), testLogger())
		if err := uc.Delete(ctx, "s1", "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, but got %v", err)
		}
	})

	t.Run("should move the current pointer when the current file goes", func(t *testing.T) {
		repo := memory.NewSessionRepo()
		uc := NewFileUseCase(repo, newFakeBlobStore(), testLogger())

		first, _ := uc.Upload(ctx, "s1", "a.pdf", strings.NewReader("x"))
		second, _ := uc.Upload(ctx, "s1", "b.pdf", strings.NewReader("y"))

		if err := uc.Delete(ctx, "s1", first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		s, _ := repo.GetOrCreate(ctx, "s1")
		if s.CurrentFileID != second.ID {
			t.Errorf("expected current pointer on %s, but got %q", second.ID, s.CurrentFileID)
		}
	})
}

func TestSetCurrentAndOpen(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepo()
	blobs := newFakeBlobStore()
	uc := NewFileUseCase(repo, blobs, testLogger())

	first, _ := uc.Upload(ctx, "s1", "a.pdf", strings.NewReader("aaa"))
	second, _ := uc.Upload(ctx, "s1", "b.pdf", strings.NewReader("bbb"))

	t.Run("should repoint the current file", func(t *testing.T) {
		if err := uc.SetCurrent(ctx, "s1", second.ID); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		s, _ := repo.GetOrCreate(ctx, "s1")
		if s.CurrentFileID != second.ID {
			t.Errorf("expected current %s, but got %q", second.ID, s.CurrentFileID)
		}
	})

	t.Run("should refuse to point at an unknown file", func(t *testing.T) {
		if err := uc.SetCurrent(ctx, "s1", "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, but got %v", err)
		}
	})

	t.Run("should stream stored bytes back", func(t *testing.T) {
		rc, rec, err := uc.Open(ctx, "s1", first.ID)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		if string(b) != "aaa" {
			t.Errorf("expected stored bytes back, but got %q", b)
		}
		if rec.ID != first.ID {
			t.Errorf("expected record %s, but got %s", first.ID, rec.ID)
		}
	})
}

func TestComposeFailureText(t *testing.T) {
	plan := model.ExecutionPlan{Op: model.OpCompressPDF, Params: map[string]any{}}

	t.Run("should offer a retry only for dispatch failures", func(t *testing.T) {
		opErr := &domain.OperationError{Op: plan.Op, Cause: errors.New("codec crashed")}
		msg := composeFailure("s1", plan.Op, plan.Params, opErr)
		if !msg.Result.ShowRetry {
			t.Error("dispatch failures must offer a retry")
		}

		valErr := &domain.ValidationError{Op: plan.Op, Reason: "bad params"}
		msg = composeFailure("s1", plan.Op, plan.Params, valErr)
		if msg.Result.ShowRetry {
			t.Error("validation failures must not offer a retry")
		}
	})

	t.Run("should keep the result file kind aligned with the plan", func(t *testing.T) {
		textPlan := model.ExecutionPlan{Op: model.OpExtractText, Params: map[string]any{}, Output: model.OutputText}
		file := &model.FileRecord{ID: "f1", Name: "f1.txt"}
		msg := composeSuccess("s1", textPlan, file, "/dl/ref")
		if msg.Result.ResultFile.Kind != model.OutputText {
			t.Errorf("expected text kind, but got %q", msg.Result.ResultFile.Kind)
		}
		if msg.Result.ResultFile.DownloadRef != "/dl/ref" {
			t.Errorf("expected download ref to be carried, but got %q", msg.Result.ResultFile.DownloadRef)
		}
	})
}
