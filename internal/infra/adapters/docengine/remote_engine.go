package docengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/adapter"
)

var _ adapter.DocumentEngine = (*RemoteEngine)(nil)

// RemoteEngine talks to an external document-operations service over
// HTTP. One POST per dispatch; the service owns timeouts for long
// transformations, we only propagate its failures.
type RemoteEngine struct {
	base   string
	apiKey string
	client *http.Client
}

func NewRemoteEngine(baseURL, apiKey string, timeout time.Duration) (*RemoteEngine, error) {
	if baseURL == "" {
		return nil, errors.New("docengine: empty base url")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RemoteEngine{
		base:   baseURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type operationRequest struct {
	Operation  model.Operation    `json:"operation_type"`
	Inputs     []model.FileRecord `json:"input_files"`
	Parameters map[string]any     `json:"parameters"`
	SessionID  string             `json:"session_id"`
}

func (e *RemoteEngine) Apply(ctx context.Context, op model.Operation, inputs []model.FileRecord, params map[string]any, sessionID string) (*model.FileRecord, error) {
	body, _ := json.Marshal(operationRequest{
		Operation:  op,
		Inputs:     inputs,
		Parameters: params,
		SessionID:  sessionID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/operation", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var fault struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&fault)
		if fault.Error != "" {
			return nil, fmt.Errorf("docengine http %d: %s", resp.StatusCode, fault.Error)
		}
		return nil, fmt.Errorf("docengine http %d", resp.StatusCode)
	}

	var result model.FileRecord
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	for _, in := range inputs {
		if result.ID == in.ID {
			return nil, fmt.Errorf("docengine returned input id %s as result", result.ID)
		}
	}
	return &result, nil
}
