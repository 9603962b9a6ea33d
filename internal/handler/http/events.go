package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/events"
)

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) EventsHandler {
	return &eventsHandlerImpl{hub: hub}
}

// Stream handles GET /events. Clients subscribe here instead of listening
// for the browser custom events the old views fired at each other; an
// import completion arriving on this stream is the signal to regenerate any
// open report.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	progress, cleanupProgress := h.hub.Subscribe(events.TopicImportProgress)
	defer cleanupProgress()
	completed, cleanupCompleted := h.hub.Subscribe(events.TopicImportCompleted)
	defer cleanupCompleted()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	write := func(event events.Event) {
		data, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Topic, data)
		flusher.Flush()
	}

	for {
		select {
		case event, ok := <-progress:
			if !ok {
				return
			}
			write(event)

		case event, ok := <-completed:
			if !ok {
				return
			}
			write(event)

		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
