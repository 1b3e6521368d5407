package sse

import (
	"context"
	"sync"

	"ms-schedule/internal/models"
)

// ScheduleEventEmitter manages SSE connections and broadcasts newly
// published schedule snapshots to every connected client.
type ScheduleEventEmitter struct {
	clients     []chan models.Schedule
	clientMutex sync.RWMutex
}

// NewScheduleEventEmitter creates a new SSE event emitter for schedule
// snapshots
func NewScheduleEventEmitter() *ScheduleEventEmitter {
	return &ScheduleEventEmitter{}
}

// Subscribe adds a client to the snapshot broadcast
func (e *ScheduleEventEmitter) Subscribe(ctx context.Context) chan models.Schedule {
	clientChan := make(chan models.Schedule, 10)

	e.clientMutex.Lock()
	e.clients = append(e.clients, clientChan)
	e.clientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		e.removeClient(clientChan)
	}()

	return clientChan
}

// Emit broadcasts a published snapshot to all subscribed clients
func (e *ScheduleEventEmitter) Emit(s models.Schedule) {
	e.clientMutex.RLock()
	clients := e.clients
	e.clientMutex.RUnlock()

	for _, clientChan := range clients {
		// Non-blocking send so a slow client cannot stall the publish path
		select {
		case clientChan <- s:
		default:
		}
	}
}

func (e *ScheduleEventEmitter) removeClient(clientChan chan models.Schedule) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	for i, c := range e.clients {
		if c == clientChan {
			e.clients = append(e.clients[:i], e.clients[i+1:]...)
			close(c)
			return
		}
	}
}
