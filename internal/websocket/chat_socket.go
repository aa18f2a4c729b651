package websocket

import (
	"context"

	"github.com/gecBurton/dosac/internal/pkg/logger"
	"github.com/gecBurton/dosac/internal/service"
	"github.com/gecBurton/dosac/pkg/agent"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// TurnRequest is one inbound chat frame. The chat itself is fixed by the
// connection's path, so a frame only carries the message text.
type TurnRequest struct {
	Content string `json:"content"`
}

type doneData struct {
	AnnotatedContent string `json:"annotated_content"`
}

// ServeChat runs the conversation protocol on one socket: read a turn,
// stream the agent's events back in order, finish with citations and a
// done frame carrying the footnoted answer. Turns run one at a time; the
// next frame is not read until the previous turn settled.
func ServeChat(chatService service.IChatService, log logger.ILogger, c *websocket.Conn, userID uuid.UUID, chatID uuid.UUID) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer c.Close()

	for {
		var req TurnRequest
		if err := c.ReadJSON(&req); err != nil {
			return
		}

		// A failed write means the peer is gone; cancelling the context
		// aborts the run before its next model or tool call.
		writeFailed := false
		emit := func(event agent.Event) {
			if writeFailed {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				writeFailed = true
				cancel()
			}
		}

		result, err := chatService.RunTurn(ctx, userID, chatID, req.Content, emit)
		if err != nil {
			log.Error("ChatSocket", "Turn failed", map[string]interface{}{
				"user_id": userID,
				"chat_id": chatID,
				"error":   err.Error(),
			})
			if writeFailed || ctx.Err() != nil {
				return
			}
			emit(agent.Event{Event: agent.EventError, Data: agent.ErrorData{Message: err.Error()}})
			continue
		}

		emit(agent.Event{Event: agent.EventCitations, Data: result.Citations})
		emit(agent.Event{Event: agent.EventDone, Data: doneData{AnnotatedContent: result.AnnotatedAnswer}})

		if writeFailed {
			return
		}
	}
}
