package schedule_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-schedule/internal/logger"
	"ms-schedule/internal/sse"
)

// SSEHandler manages the Server-Sent Events endpoint for schedule snapshots
type SSEHandler struct {
	Logger       *logger.Logger
	EventEmitter *sse.ScheduleEventEmitter
}

// NewSSEHandler creates a new SSE handler for schedule snapshot events
func NewSSEHandler(logger *logger.Logger, emitter *sse.ScheduleEventEmitter) *SSEHandler {
	return &SSEHandler{
		Logger:       logger,
		EventEmitter: emitter,
	}
}

// HandleScheduleStream streams newly published schedule snapshots to the client.
// The stream is read-only and public: anyone can watch for a fresh schedule.
func (h *SSEHandler) HandleScheduleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE
	h.setupSSEHeaders(w)

	// Create a context that cancels when the client disconnects
	ctx := r.Context()

	// Subscribe to published snapshots
	eventChan := h.EventEmitter.Subscribe(ctx)

	// Send initial connection established message
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	h.Logger.Info("SSE", "Client connected to schedule snapshot stream")

	// Stream events
	for {
		select {
		case snapshot, ok := <-eventChan:
			if !ok {
				h.Logger.Debug("SSE", "Schedule snapshot channel closed")
				return
			}

			jsonData, err := json.Marshal(snapshot)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize schedule snapshot: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: schedule\ndata: %s\n\n", jsonData)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from schedule snapshot stream")
			return
		}
	}
}

// Helper function to set up SSE headers
func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
