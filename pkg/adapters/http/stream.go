package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/observability"
)

// allNetworks is the subscription key for clients that did not pick a network.
const allNetworks = ""

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // NetworkID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(networkID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	if _, ok := sm.subscribers[networkID]; !ok {
		sm.subscribers[networkID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[networkID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[networkID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, networkID)
			}
		}
	}
}

// Broadcast sends msg to the subscribers of networkID and to those watching
// every network.
func (sm *StreamManager) Broadcast(networkID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	keys := []string{networkID}
	if networkID != allNetworks {
		keys = append(keys, allNetworks)
	}
	for _, key := range keys {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				sm.logger.Warn("SSE: client buffer full, dropping message", "network_id", networkID)
			}
		}
	}
}

// streamEvent is the SSE payload. Values are preformatted so Nothing and
// Contradiction read the same as on the command line.
type streamEvent struct {
	Type    domain.EventType `json:"type"`
	Network string           `json:"network_id"`
	Cell    string           `json:"cell,omitempty"`
	Value   string           `json:"value,omitempty"`
	Status  domain.RunStatus `json:"status,omitempty"`
	Steps   int              `json:"steps,omitempty"`
}

// Hooks returns base extended with hooks that broadcast cell changes,
// contradictions and run completion.
func (sm *StreamManager) Hooks(base domain.LifecycleHooks) domain.LifecycleHooks {
	cell := func(_ context.Context, e *domain.CellEvent) {
		sm.publish(streamEvent{Type: e.Type, Network: e.NetworkID, Cell: e.CellName, Value: cli.FormatValue(e.New)})
	}
	return observability.Compose(base, domain.LifecycleHooks{
		OnCellChange:    cell,
		OnContradiction: cell,
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			sm.publish(streamEvent{Type: e.Type, Network: e.NetworkID, Status: e.Result.Status, Steps: e.Result.Steps})
		},
	})
}

func (sm *StreamManager) publish(ev streamEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		sm.logger.Error("SSE: encode failed", "error", err)
		return
	}
	sm.Broadcast(ev.Network, string(data))
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// network_id query parameter restricts the stream to one network.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	networkID := r.URL.Query().Get("network_id")
	s.Logger.Info("SSE: subscribing", "network_id", networkID)

	ch, cancel := s.Streams.Subscribe(networkID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE client disconnected", "network_id", networkID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
