// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/command"
	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/adapter"
	"pdf-assistant/internal/domain/ports/repository"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// SendMessage runs the full pipeline for one user message and
	// returns the composed assistant (or error) message. Stage failures
	// never surface as errors here; they come back as error messages.
	SendMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error)
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	ClearHistory(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// RateLimiter bounds messages per session. Nil means unlimited.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Notifier pushes composed messages and operation outcomes to any
// live listeners (websocket hub). Nil means no push.
type Notifier interface {
	NotifyMessage(sessionID string, m model.ChatMessage)
	NotifyOperation(sessionID string, r model.OperationResult)
}

type chatUC struct {
	sessions  repository.SessionRepository
	ai        adapter.AIServiceAdapter
	engine    adapter.DocumentEngine
	signer    DownloadRefSigner
	notifier  Notifier
	limiter   RateLimiter
	modelName string
	msgLimit  int
	msgWindow time.Duration
	log       *zerolog.Logger
}

func NewChatUseCase(
	sessions repository.SessionRepository,
	ai adapter.AIServiceAdapter,
	engine adapter.DocumentEngine,
	signer DownloadRefSigner,
	notifier Notifier,
	limiter RateLimiter,
	modelName string,
	msgLimit int,
	msgWindow time.Duration,
	logger *zerolog.Logger,
) *chatUC {
	return &chatUC{
		sessions:  sessions,
		ai:        ai,
		engine:    engine,
		signer:    signer,
		notifier:  notifier,
		limiter:   limiter,
		modelName: modelName,
		msgLimit:  msgLimit,
		msgWindow: msgWindow,
		log:       logger,
	}
}

func (c *chatUC) SendMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidArgument
	}

	if c.limiter != nil {
		ok, err := c.limiter.Allow(ctx, "rate_limit:chat:"+sessionID, c.msgLimit, c.msgWindow)
		if err != nil {
			c.log.Warn().Err(err).Str("session_id", sessionID).Msg("rate limiter unavailable, allowing")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	userMsg := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      model.RoleUser,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}

	// Append the user message and snapshot the state the pipeline will
	// run against. Files and history are copied out under the session
	// lock so a concurrent request cannot shift them mid-pipeline.
	var (
		files   []model.FileRecord
		history []model.ChatMessage
	)
	err := c.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		s.Append(userMsg)
		files = append([]model.FileRecord(nil), s.Files...)
		history = append([]model.ChatMessage(nil), s.RecentMessages(15)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c.notifier != nil {
		c.notifier.NotifyMessage(sessionID, userMsg)
	}

	reply, resultFile := c.process(ctx, sessionID, content, files, history)

	// The result file and the message that references it land in the
	// session within one read-modify-write, keeping the history
	// invariant: no message ever points at a file the session never had.
	err = c.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		if resultFile != nil {
			s.AddFile(*resultFile)
		}
		s.Append(reply)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.notifier != nil {
		c.notifier.NotifyMessage(sessionID, reply)
		if reply.Result != nil {
			c.notifier.NotifyOperation(sessionID, *reply.Result)
		}
	}
	return &reply, nil
}

// process drives Received -> Extracted -> Validated -> Planned ->
// FilesSelected -> Dispatched -> Composed. Any stage short-circuits to
// the composed error message; there is no retry loop inside a request.
func (c *chatUC) process(ctx context.Context, sessionID, content string, files []model.FileRecord, history []model.ChatMessage) (model.ChatMessage, *model.FileRecord) {
	prompt := BuildSystemPrompt(len(files), history)
	raw, err := c.ai.Chat(ctx, c.modelName, []adapter.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: content},
	})
	if err != nil {
		c.log.Error().Err(err).Str("session_id", sessionID).Msg("command generator call failed")
		return systemFailure(sessionID, err), nil
	}

	cmd, err := command.Extract(raw)
	if err != nil {
		c.log.Debug().Err(err).Str("session_id", sessionID).Msg("extraction failed")
		return composeFailure(sessionID, "", nil, err), nil
	}
	if err := command.Validate(cmd); err != nil {
		c.log.Debug().Err(err).Str("session_id", sessionID).Str("op", string(cmd.Op)).Msg("validation failed")
		return composeFailure(sessionID, cmd.Op, cmd.Params, err), nil
	}

	plan := command.Plan(cmd)
	inputs := command.SelectInputs(plan, files)
	if plan.RequiresFiles() && len(inputs) == 0 {
		err := &domain.PreconditionError{Op: plan.Op, Reason: "no PDF files available; upload a file first"}
		return composeFailure(sessionID, plan.Op, plan.Params, err), nil
	}

	resultFile, err := c.engine.Apply(ctx, plan.Op, inputs, plan.Params, sessionID)
	if err != nil {
		opErr, ok := err.(*domain.OperationError)
		if !ok {
			opErr = &domain.OperationError{Op: plan.Op, Params: plan.Params, Cause: err}
		}
		c.log.Error().Err(opErr).Str("session_id", sessionID).Str("op", string(plan.Op)).Msg("dispatch failed")
		return composeFailure(sessionID, plan.Op, plan.Params, opErr), nil
	}

	ref := ""
	if c.signer != nil {
		if ref, err = c.signer.Sign(sessionID, resultFile.ID); err != nil {
			c.log.Warn().Err(err).Str("file_id", resultFile.ID).Msg("download ref signing failed")
			ref = ""
		}
	}
	return composeSuccess(sessionID, plan, resultFile, ref), resultFile
}

// systemFailure covers faults outside the pipeline taxonomy (generator
// transport errors, store corruption). Still a composed message, never
// a dropped request.
func systemFailure(sessionID string, err error) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   "The assistant is temporarily unavailable: " + err.Error(),
		Role:      model.RoleError,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

func (c *chatUC) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	s, err := c.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Messages, nil
}

func (c *chatUC) ClearHistory(ctx context.Context, sessionID string) error {
	return c.sessions.Mutate(ctx, sessionID, func(s *model.Session) error {
		s.ClearHistory()
		return nil
	})
}

func (c *chatUC) Sessions(ctx context.Context) ([]string, error) {
	return c.sessions.List(ctx)
}

func (c *chatUC) ListModels(ctx context.Context) ([]string, error) {
	return c.ai.ListModels(ctx)
}
