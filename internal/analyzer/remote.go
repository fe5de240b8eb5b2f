package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

// Remote delegates detection to an external NLP analysis service. The
// service owns its models; this side only speaks the /analyze contract and
// validates that returned spans actually line up with the submitted text.
type Remote struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

type remoteRequest struct {
	Text        string   `json:"text"`
	Language    string   `json:"language"`
	EntityTypes []string `json:"entity_types,omitempty"`
}

type remoteResponse struct {
	Matches []pii.EntityMatch `json:"matches"`
}

// NewRemote builds the remote analyzer client.
func NewRemote(cfg *RemoteConfig, logger *zap.Logger) (*Remote, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, pii.NewConfigurationError("remote analyzer requires a url", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		url:    strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Detect posts the text to the analysis service and returns its matches.
func (r *Remote) Detect(ctx context.Context, text string, lang pii.Language, entityTypes []string) (*Result, error) {
	if !lang.Valid() {
		return nil, pii.NewConfigurationError(fmt.Sprintf("unsupported language %q", lang), nil)
	}
	if text == "" {
		return &Result{Matches: []pii.EntityMatch{}}, nil
	}

	body, err := json.Marshal(remoteRequest{
		Text:        text,
		Language:    lang.String(),
		EntityTypes: entityTypes,
	})
	if err != nil {
		return nil, pii.NewAnalysisError("failed to encode analysis request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, pii.NewAnalysisError("failed to build analysis request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, pii.NewAnalysisError("analysis service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, pii.NewAnalysisError(
			fmt.Sprintf("analysis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pii.NewAnalysisError("failed to decode analysis response", err)
	}

	for _, m := range out.Matches {
		if err := m.Validate(); err != nil {
			return nil, pii.NewAnalysisError("analysis service returned invalid match", err)
		}
		if m.End > len(text) || text[m.Start:m.End] != m.Text {
			return nil, pii.NewAnalysisError(
				fmt.Sprintf("analysis service match %s [%d, %d) does not align with text", m.Type, m.Start, m.End), nil)
		}
	}
	if out.Matches == nil {
		out.Matches = []pii.EntityMatch{}
	}

	r.logger.Debug("Remote analysis complete",
		zap.String("language", lang.String()),
		zap.Int("matches", len(out.Matches)),
		zap.Duration("duration", time.Since(start)))

	return &Result{Matches: out.Matches}, nil
}
