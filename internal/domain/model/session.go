package model

import (
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleError     MessageRole = "error"
)

// ResultFile is the machine-readable descriptor of a dispatch output as
// it appears inside an OperationResult.
type ResultFile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	DownloadRef string     `json:"download_ref"`
	Size        int64      `json:"size"`
	PageCount   int        `json:"page_count"`
	Kind        OutputKind `json:"kind"`
}

type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
)

// OperationResult is the record attached to the assistant (or error)
// message composed for one request.
type OperationResult struct {
	Operation  Operation      `json:"operation"`
	Parameters map[string]any `json:"parameters"`
	Status     ResultStatus   `json:"status"`
	ResultFile *ResultFile    `json:"result_file,omitempty"`
	ShowRetry  bool           `json:"show_retry,omitempty"`
}

// ChatMessage is one entry in a session's history. Immutable once
// appended; history is only ever cleared wholesale.
type ChatMessage struct {
	ID        string           `json:"id"`
	Content   string           `json:"content"`
	Role      MessageRole      `json:"message_type"`
	Timestamp time.Time        `json:"timestamp"`
	SessionID string           `json:"session_id"`
	Result    *OperationResult `json:"operation_result,omitempty"`
}

// Session is the aggregate for one conversation: ordered history,
// files in upload order, and the optional current-file pointer.
// Mutation goes through whole-session read-modify-write only.
type Session struct {
	ID            string        `json:"session_id"`
	CurrentFileID string        `json:"current_pdf_id,omitempty"`
	Files         []FileRecord  `json:"pdf_files"`
	Messages      []ChatMessage `json:"chat_history"`
	CreatedAt     time.Time     `json:"created_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Files:     make([]FileRecord, 0, 4),
		Messages:  make([]ChatMessage, 0, 8),
		CreatedAt: time.Now(),
	}
}

func (s *Session) Append(m ChatMessage) {
	s.Messages = append(s.Messages, m)
}

// RecentMessages returns up to n messages from the tail of the history.
func (s *Session) RecentMessages(n int) []ChatMessage {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// AddFile appends a record to the file set. The first file uploaded to
// a session becomes the current file.
func (s *Session) AddFile(f FileRecord) {
	s.Files = append(s.Files, f)
	if s.CurrentFileID == "" {
		s.CurrentFileID = f.ID
	}
}

// FindFile returns the record with the given id, or nil.
func (s *Session) FindFile(id string) *FileRecord {
	for i := range s.Files {
		if s.Files[i].ID == id {
			return &s.Files[i]
		}
	}
	return nil
}

// RemoveFile drops the record with the given id from the file set and
// reassigns the current-file pointer: first remaining file, or unset.
// Returns false when the id is not present.
func (s *Session) RemoveFile(id string) bool {
	idx := -1
	for i := range s.Files {
		if s.Files[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.Files = append(s.Files[:idx], s.Files[idx+1:]...)
	if s.CurrentFileID == id {
		if len(s.Files) > 0 {
			s.CurrentFileID = s.Files[0].ID
		} else {
			s.CurrentFileID = ""
		}
	}
	return true
}

func (s *Session) ClearHistory() {
	s.Messages = s.Messages[:0]
}
