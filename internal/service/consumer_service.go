package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// replyChunkWords is how many words each streamed chunk carries. Small
// enough to read as typing, large enough to keep frame counts sane.
const replyChunkWords = 6

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService bridges committed chat turns from the in-process bus to
// the websocket hub, chunking the reply so connected clients render it
// progressively.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event dto.ChatTurnEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal chat turn event: %v", err)
		msg.Ack() // malformed payloads are never retriable
		return
	}

	for _, chunk := range chunkReply(event.Reply, replyChunkWords) {
		cs.hub.Send(event.UserId, websocket.Frame{
			Type: "chat_chunk",
			Data: map[string]interface{}{
				"chat_session_id": event.ChatSessionId,
				"content":         chunk,
			},
		})
	}

	cs.hub.Send(event.UserId, websocket.Frame{
		Type: "chat_turn",
		Data: event,
	})

	msg.Ack()
}

// chunkReply splits a reply into word groups, preserving single spacing.
func chunkReply(reply string, wordsPerChunk int) []string {
	words := strings.Fields(reply)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += wordsPerChunk {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
