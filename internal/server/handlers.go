package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/engine"
	"github.com/veilware/veil/internal/events"
	"github.com/veilware/veil/internal/pii"
	"github.com/veilware/veil/internal/store"
)

// handleAnonymize replaces detected PII with synthetic values
func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req AnonymizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Persist && s.store == nil {
		s.writeError(w, r, pii.NewConfigurationError("session store is disabled", nil))
		return
	}

	lang, err := pii.ParseLanguage(req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pipeline := s.pipelineFor(lang, req.Deterministic)
	res, err := pipeline.Process(r.Context(), req.Text, requestOptions(req.EntityTypes, req.ConfidenceThreshold)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := AnonymizeResponse{ProcessingResult: res}
	if req.Persist {
		id, err := s.store.Save(r.Context(), lang, res.Entities)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.SessionID = id.String()
	}

	s.recordProcessing(r.Context(), "anonymize", lang, res)
	writeJSON(w, http.StatusOK, resp)
}

// handleDeanonymize restores original values from an entity map or a
// stored session
func (s *Server) handleDeanonymize(w http.ResponseWriter, r *http.Request) {
	var req DeanonymizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	entities := req.EntityMap
	if req.SessionID != "" {
		if s.store == nil {
			s.writeError(w, r, pii.NewConfigurationError("session store is disabled", nil))
			return
		}
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			s.writeError(w, r, pii.NewConfigurationError("invalid session id", err))
			return
		}
		session, err := s.store.Load(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:     "session not found",
				RequestID: requestIDFrom(r.Context()),
			})
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		entities = session.EntityMap
	}

	res, err := s.defaultPipeline().Deanonymize(req.Text, entities)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.recordProcessing(r.Context(), "deanonymize", s.config.Engine.Language, res)
	writeJSON(w, http.StatusOK, res)
}

// handleAnalyze detects PII without transforming the text
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	lang, err := pii.ParseLanguage(req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pipeline := s.pipelineFor(lang, nil)
	start := time.Now()
	matches, err := pipeline.Analyze(r.Context(), req.Text, requestOptions(req.EntityTypes, req.ConfidenceThreshold)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if matches == nil {
		matches = []pii.EntityMatch{}
	}

	s.monitor.Record(time.Since(start), len(req.Text), len(matches), false)
	if s.hub != nil {
		counts := make(map[string]int)
		for _, m := range matches {
			counts[m.Type]++
		}
		s.hub.BroadcastEvent(events.Event{
			Type:      events.EventTypeProcessing,
			Timestamp: time.Now(),
			RequestID: requestIDFrom(r.Context()),
			Data: events.ProcessingEvent{
				RequestID:     requestIDFrom(r.Context()),
				Operation:     "analyze",
				Language:      string(lang),
				EntityCounts:  counts,
				TotalEntities: len(matches),
				ProcessingMS:  float64(time.Since(start).Microseconds()) / 1000,
				TextLength:    len(req.Text),
			},
		})
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Matches:  matches,
		Count:    len(matches),
		Language: lang,
	})
}

// handleEntities lists entity types detectable for a language
func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	lang, err := pii.ParseLanguage(r.URL.Query().Get("language"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entities, err := s.registry.SupportedEntities(lang)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EntitiesResponse{Language: lang, Entities: entities})
}

// handleLanguages lists covered languages
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LanguagesResponse{
		Languages: pii.SupportedLanguages(),
		Default:   pii.DefaultLanguage,
	})
}

// recordProcessing feeds the monitor and broadcasts a PII-free summary
func (s *Server) recordProcessing(ctx context.Context, op string, lang pii.Language, res *pii.ProcessingResult) {
	s.monitor.RecordResult(res)

	if s.hub == nil {
		return
	}

	requestID := requestIDFrom(ctx)

	counts := make(map[string]int, len(res.Entities))
	for _, rec := range res.Entities {
		counts[rec.Type] += rec.Count
	}

	s.hub.BroadcastEvent(events.Event{
		Type:      events.EventTypeProcessing,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: events.ProcessingEvent{
			RequestID:     requestID,
			Operation:     op,
			Language:      string(lang),
			EntityCounts:  counts,
			TotalEntities: res.TotalEntities,
			CacheHit:      res.CacheHits > 0,
			ProcessingMS:  float64(res.ProcessingTime.Microseconds()) / 1000,
			TextLength:    res.Metadata.TextLength,
		},
	})
}

// requestOptions converts request fields into pipeline call options
func requestOptions(entityTypes []string, threshold *float64) []engine.Option {
	var opts []engine.Option
	if len(entityTypes) > 0 {
		opts = append(opts, engine.WithEntityTypes(entityTypes...))
	}
	if threshold != nil {
		opts = append(opts, engine.WithThreshold(*threshold))
	}
	return opts
}

// decodeBody parses a JSON request body, writing the error response on
// failure
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:     "request body too large",
				RequestID: requestIDFrom(r.Context()),
			})
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body",
			RequestID: requestIDFrom(r.Context()),
		})
		return false
	}
	return true
}

// writeError maps engine error kinds onto HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r.Context())

	status := http.StatusInternalServerError
	kind := ""
	switch {
	case pii.IsKind(err, pii.KindConfiguration):
		status = http.StatusBadRequest
		kind = string(pii.KindConfiguration)
	case pii.IsKind(err, pii.KindAnalysis):
		status = http.StatusBadGateway
		kind = string(pii.KindAnalysis)
	case pii.IsKind(err, pii.KindProcessing):
		kind = string(pii.KindProcessing)
	}

	log := s.logger.WithRequestID(requestID)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Error(err))
	}

	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind, RequestID: requestID})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
