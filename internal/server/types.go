package server

import (
	"github.com/veilware/veil/internal/events"
	"github.com/veilware/veil/internal/monitor"
	"github.com/veilware/veil/internal/pii"
)

// AnonymizeRequest is the body of POST /v1/anonymize
type AnonymizeRequest struct {
	Text                string   `json:"text"`
	Language            string   `json:"language,omitempty"`
	EntityTypes         []string `json:"entity_types,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	Deterministic       *bool    `json:"deterministic,omitempty"`
	Persist             bool     `json:"persist,omitempty"`
}

// AnonymizeResponse extends the processing result with the stored session
// ID when persistence was requested.
type AnonymizeResponse struct {
	*pii.ProcessingResult
	SessionID string `json:"session_id,omitempty"`
}

// DeanonymizeRequest is the body of POST /v1/deanonymize. Callers supply
// either the entity map returned by anonymize or the session ID it was
// stored under.
type DeanonymizeRequest struct {
	Text      string        `json:"text"`
	EntityMap pii.EntityMap `json:"entity_map,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
}

// AnalyzeRequest is the body of POST /v1/analyze
type AnalyzeRequest struct {
	Text                string   `json:"text"`
	Language            string   `json:"language,omitempty"`
	EntityTypes         []string `json:"entity_types,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
}

// AnalyzeResponse lists detection matches without transforming the text
type AnalyzeResponse struct {
	Matches  []pii.EntityMatch `json:"matches"`
	Count    int               `json:"count"`
	Language pii.Language      `json:"language"`
}

// EntitiesResponse lists entity types detectable for a language
type EntitiesResponse struct {
	Language pii.Language `json:"language"`
	Entities []string     `json:"entities"`
}

// LanguagesResponse lists covered languages
type LanguagesResponse struct {
	Languages []pii.Language `json:"languages"`
	Default   pii.Language   `json:"default"`
}

// HealthResponse reports liveness and component states
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// InfoResponse describes the running service
type InfoResponse struct {
	Name       string           `json:"name"`
	Version    string           `json:"version"`
	Uptime     string           `json:"uptime"`
	Language   pii.Language     `json:"language"`
	Analyzer   string           `json:"analyzer"`
	Cache      string           `json:"cache"`
	Processing monitor.Stats    `json:"processing"`
	Events     *events.HubStats `json:"events,omitempty"`
	Sessions   *int64           `json:"sessions,omitempty"`
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
