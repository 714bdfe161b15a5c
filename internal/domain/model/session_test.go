//go:build !integration

package model

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	t.Run("should start empty with no current file", func(t *testing.T) {
		s := NewSession("s1")
		if s.ID != "s1" {
			t.Errorf("expected id s1, but got %q", s.ID)
		}
		if len(s.Files) != 0 || len(s.Messages) != 0 {
			t.Error("expected empty files and history")
		}
		if s.CurrentFileID != "" {
			t.Errorf("expected no current file, but got %q", s.CurrentFileID)
		}
		if time.Since(s.CreatedAt) > time.Second {
			t.Error("CreatedAt is too far from current time")
		}
	})
}

func TestSessionFiles(t *testing.T) {
	t.Run("should make the first upload the current file", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a"})
		s.AddFile(FileRecord{ID: "b"})
		if s.CurrentFileID != "a" {
			t.Errorf("expected current file a, but got %q", s.CurrentFileID)
		}
	})

	t.Run("should keep files in upload order", func(t *testing.T) {
		s := NewSession("s1")
		for _, id := range []string{"a", "b", "c"} {
			s.AddFile(FileRecord{ID: id})
		}
		for i, want := range []string{"a", "b", "c"} {
			if s.Files[i].ID != want {
				t.Errorf("position %d: expected %s, but got %s", i, want, s.Files[i].ID)
			}
		}
	})

	t.Run("should find files by id", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a", Name: "a.pdf"})
		if f := s.FindFile("a"); f == nil || f.Name != "a.pdf" {
			t.Errorf("expected to find a.pdf, but got %v", f)
		}
		if f := s.FindFile("missing"); f != nil {
			t.Errorf("expected nil for unknown id, but got %v", f)
		}
	})

	t.Run("should move the current pointer to the first remaining file on delete", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a"})
		s.AddFile(FileRecord{ID: "b"})
		s.AddFile(FileRecord{ID: "c"})

		if !s.RemoveFile("a") {
			t.Fatal("expected removal to succeed")
		}
		if s.CurrentFileID != "b" {
			t.Errorf("expected current file b, but got %q", s.CurrentFileID)
		}
	})

	t.Run("should unset the current pointer when the last file goes", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a"})
		if !s.RemoveFile("a") {
			t.Fatal("expected removal to succeed")
		}
		if s.CurrentFileID != "" {
			t.Errorf("expected no current file, but got %q", s.CurrentFileID)
		}
	})

	t.Run("should keep the current pointer when another file is deleted", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a"})
		s.AddFile(FileRecord{ID: "b"})
		s.RemoveFile("b")
		if s.CurrentFileID != "a" {
			t.Errorf("expected current file a, but got %q", s.CurrentFileID)
		}
	})

	t.Run("should report false for an unknown id", func(t *testing.T) {
		s := NewSession("s1")
		if s.RemoveFile("ghost") {
			t.Error("expected removal of unknown id to report false")
		}
	})
}

func TestSessionHistory(t *testing.T) {
	t.Run("should return the whole history when shorter than the window", func(t *testing.T) {
		s := NewSession("s1")
		s.Append(ChatMessage{ID: "1"})
		s.Append(ChatMessage{ID: "2"})
		if got := s.RecentMessages(5); len(got) != 2 {
			t.Errorf("expected 2 messages, but got %d", len(got))
		}
	})

	t.Run("should return only the tail when longer than the window", func(t *testing.T) {
		s := NewSession("s1")
		for i := 0; i < 10; i++ {
			s.Append(ChatMessage{ID: string(rune('a' + i))})
		}
		got := s.RecentMessages(3)
		if len(got) != 3 {
			t.Fatalf("expected 3 messages, but got %d", len(got))
		}
		if got[0].ID != "h" || got[2].ID != "j" {
			t.Errorf("expected tail [h i j], but got %v", got)
		}
	})

	t.Run("should clear history but keep files", func(t *testing.T) {
		s := NewSession("s1")
		s.AddFile(FileRecord{ID: "a"})
		s.Append(ChatMessage{ID: "1"})
		s.ClearHistory()
		if len(s.Messages) != 0 {
			t.Error("expected empty history after clear")
		}
		if len(s.Files) != 1 || s.CurrentFileID != "a" {
			t.Error("expected files and current pointer to survive a history clear")
		}
	})
}

func TestOperationSet(t *testing.T) {
	t.Run("should recognize every listed operation", func(t *testing.T) {
		for _, op := range Operations() {
			if !op.Known() {
				t.Errorf("expected %q to be known", op)
			}
		}
	})

	t.Run("should reject names outside the set", func(t *testing.T) {
		for _, op := range []Operation{"", "resize_images", "Extract_Pages", "merge"} {
			if op.Known() {
				t.Errorf("expected %q to be unknown", op)
			}
		}
	})
}

func TestExecutionPlanRequiresFiles(t *testing.T) {
	if !(ExecutionPlan{Selection: SelectSingle}).RequiresFiles() {
		t.Error("single selection must require files")
	}
	if !(ExecutionPlan{Selection: SelectMultiple}).RequiresFiles() {
		t.Error("multiple selection must require files")
	}
	if (ExecutionPlan{Selection: SelectNone}).RequiresFiles() {
		t.Error("none selection must not require files")
	}
}
