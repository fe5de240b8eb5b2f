package events

import (
	"time"

	"github.com/gorilla/websocket"
)

// EventType represents the type of hub event
type EventType string

const (
	// EventTypeProcessing summarizes one processed text
	EventTypeProcessing EventType = "processing"
	// EventTypeBatch reports bulk pipeline progress
	EventTypeBatch EventType = "batch"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event is one message sent to subscribers. Event payloads carry counts
// and timings only, never original or synthetic values.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// ProcessingEvent summarizes a single anonymize, deanonymize or analyze
// call.
type ProcessingEvent struct {
	RequestID     string         `json:"request_id"`
	Operation     string         `json:"operation"`
	Language      string         `json:"language"`
	EntityCounts  map[string]int `json:"entity_counts,omitempty"`
	TotalEntities int            `json:"total_entities"`
	CacheHit      bool           `json:"cache_hit"`
	ProcessingMS  float64        `json:"processing_ms"`
	TextLength    int            `json:"text_length"`
}

// BatchEvent reports progress of a bulk file run
type BatchEvent struct {
	File       string  `json:"file"`
	Format     string  `json:"format"`
	Processed  int64   `json:"processed"`
	Failed     int64   `json:"failed"`
	Entities   int64   `json:"entities"`
	Done       bool    `json:"done"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	TotalProcessed   int64   `json:"total_processed"`
	TotalEntities    int64   `json:"total_entities"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	ConnectedClients int     `json:"connected_clients"`
}

// ConnectionEvent represents hub connection events
type ConnectionEvent struct {
	Action    string `json:"action"` // "connected", "disconnected"
	ClientID  string `json:"client_id"`
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ClientMessage represents messages sent from clients to the hub
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest narrows which events a client receives
type SubscriptionRequest struct {
	Events []EventType  `json:"events"`
	Filter *EventFilter `json:"filter,omitempty"`
}

// EventFilter restricts processing events beyond the type subscription
type EventFilter struct {
	EntityTypes []string `json:"entity_types,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	MinEntities int      `json:"min_entities,omitempty"`
}

// Client represents one subscriber connection
type Client struct {
	ID           string
	Conn         *websocket.Conn
	Send         chan Event
	Subscription *SubscriptionRequest
	ConnectedAt  time.Time
	LastPong     time.Time
	IP           string
	UserAgent    string
}

// HubStats tracks hub statistics
type HubStats struct {
	TotalConnections   int64     `json:"total_connections"`
	ActiveConnections  int64     `json:"active_connections"`
	TotalMessages      int64     `json:"total_messages"`
	TotalBroadcasts    int64     `json:"total_broadcasts"`
	LastConnectionTime time.Time `json:"last_connection_time,omitempty"`
	LastBroadcastTime  time.Time `json:"last_broadcast_time,omitempty"`
}
