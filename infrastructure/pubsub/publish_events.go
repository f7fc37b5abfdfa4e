package pubsub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cloud.google.com/go/pubsub"

	"autopost/infrastructure/logger"
)

type IEventPublisher interface {
	PublishPostEvent(ctx context.Context, topic string, event PostEvent) (string, error)
}

// PostEvent is the payload emitted after a post changes state
type PostEvent struct {
	PostID     int64     `json:"postId"`
	UserID     int64     `json:"userId"`
	Status     string    `json:"status"`
	VideoID    string    `json:"videoId,omitempty"`
	VideoURL   string    `json:"videoUrl,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventPublisher struct {
	PubSubClient *pubsub.Client
}

func NewEventPublisher(pubSubClient *pubsub.Client) IEventPublisher {
	return &EventPublisher{
		PubSubClient: pubSubClient,
	}
}

func (eventPublisher *EventPublisher) PublishPostEvent(
	ctx context.Context,
	topicName string,
	event PostEvent,
) (string, error) {
	if eventPublisher.PubSubClient == nil {
		return "", nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	msg := &pubsub.Message{
		Data: payload,
	}

	topic := eventPublisher.PubSubClient.Topic(topicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		log.Printf("Topic %v doesn't exist - creating it", topicName)
		_, err = eventPublisher.PubSubClient.CreateTopic(ctx, topicName)
		if err != nil {
			return "", err
		}
	}

	serverId, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverId).Info("Message published")
	return serverId, nil
}
