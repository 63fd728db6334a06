package dashboard

import (
	"encoding/json"
	"log"
	"time"

	"github.com/ecmaops/stagesync/internal/sync"
)

// Handler formats sync events as dashboard messages. It bridges between
// the planner's run results and the WebSocket server.
type Handler struct {
	server *Server
	logger *log.Logger

	// Cumulative counters for the watch session
	stats *StatsData
}

// NewHandler creates a new event handler connected to a dashboard server
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}

	return &Handler{
		server: server,
		logger: logger,
		stats:  &StatsData{},
	}
}

// OnProposalSynced handles one proposal outcome
func (h *Handler) OnProposalSynced(out sync.Outcome) {
	data := ProposalSyncedData{
		Identifier: out.Identifier,
		Name:       out.Name,
		Action:     out.Action.String(),
		Key:        out.Key,
		Reason:     out.Reason,
	}
	if out.Err != nil {
		data.Error = out.Err.Error()
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal proposal data: %v", err)
		return
	}

	h.server.Broadcast(Message{
		Type:      MessageTypeProposalSynced,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}

// OnRunComplete handles a full sync run completion
func (h *Handler) OnRunComplete(res *sync.Result, duration time.Duration) {
	h.logger.Printf("Run complete: %d created, %d updated, %d skipped, %d failed in %v",
		res.Created, res.Updated, res.Skipped, res.Failed, duration)

	h.stats.Runs++
	h.stats.Created += res.Created
	h.stats.Updated += res.Updated
	h.stats.Skipped += res.Skipped
	h.stats.Failed += res.Failed

	data := RunCompleteData{
		Created:  res.Created,
		Updated:  res.Updated,
		Skipped:  res.Skipped,
		Failed:   res.Failed,
		Duration: duration,
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal run data: %v", err)
		return
	}

	h.server.Broadcast(Message{
		Type:      MessageTypeRunComplete,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})

	h.broadcastStats()
}

// broadcastStats sends cumulative session counters to all clients
func (h *Handler) broadcastStats() {
	dataJSON, err := json.Marshal(h.stats)
	if err != nil {
		h.logger.Printf("Failed to marshal stats: %v", err)
		return
	}

	h.server.Broadcast(Message{
		Type:      MessageTypeStats,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}

// GetStats returns the current session counters
func (h *Handler) GetStats() StatsData {
	return *h.stats
}
