package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gecBurton/dosac/internal/pkg/logger"
	"github.com/gecBurton/dosac/pkg/events"
	pktNats "github.com/gecBurton/dosac/pkg/nats"

	"github.com/google/uuid"
)

// DocumentNotifier relays document lifecycle events off the bus to the
// owning user's sockets, so the document list updates without polling.
type DocumentNotifier struct {
	subscriber *pktNats.Subscriber
	hub        *Hub
	logger     logger.ILogger
}

func NewDocumentNotifier(subscriber *pktNats.Subscriber, hub *Hub, log logger.ILogger) *DocumentNotifier {
	return &DocumentNotifier{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (n *DocumentNotifier) Start() error {
	return n.subscriber.Subscribe("documents.>", "document-notifier", n.handle)
}

func (n *DocumentNotifier) handle(_ context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserID, ok := payload["user_id"].(string)
	if !ok {
		return fmt.Errorf("event %s has no user_id", event.EventType())
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return fmt.Errorf("event %s has invalid user_id: %w", event.EventType(), err)
	}

	data, err := json.Marshal(map[string]interface{}{
		"type": "document_status",
		"data": map[string]interface{}{
			"event":       event.EventType(),
			"document_id": payload["document_id"],
			"file_name":   payload["file_name"],
			"reason":      payload["reason"],
		},
	})
	if err != nil {
		return err
	}

	n.hub.Send(userID, data)
	n.logger.Info("DocumentNotifier", "Relayed document event", map[string]interface{}{
		"event":   event.EventType(),
		"user_id": userID,
	})
	return nil
}
