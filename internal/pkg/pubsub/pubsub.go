package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
)

// Publishable is anything that knows which topic it belongs to.
type Publishable interface {
	GetEventTopicName() string
}

type Publisher interface {
	Publish(ctx context.Context, message Publishable) error
}

type Client struct {
	client *pubsub.Client

	topicsMutex sync.Mutex
	topics      map[string]*pubsub.Topic
}

func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pub sub missing projectID to initialize")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error initializing pub sub connection: %w", err)
	}
	log.Info().Str("projectId", projectID).Msg("Successful pubsub init")
	return &Client{
		client: client,
		topics: make(map[string]*pubsub.Topic),
	}, nil
}

// Subscribe blocks receiving messages until ctx is done.
func (c *Client) Subscribe(ctx context.Context, subscriptionHandler SubscriptionHandler) {
	sub := c.client.Subscription(subscriptionHandler.SubscriptionId)
	err := sub.Receive(ctx, subscriptionHandler.Handler)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Subscriber error for sub id %s", subscriptionHandler.SubscriptionId))
	}
}

// Publish sends message and waits for the server to acknowledge it.
func (c *Client) Publish(ctx context.Context, message Publishable) error {
	data, err := encodeMessage(message)
	if err != nil {
		return fmt.Errorf("encoding message for %s: %w", message.GetEventTopicName(), err)
	}

	t, err := c.getTopic(ctx, message.GetEventTopicName())
	if err != nil {
		return err
	}

	result := t.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Failed to publish message for %s", message.GetEventTopicName()))
		return err
	}
	return nil
}

func (c *Client) CloseClient() {
	c.topicsMutex.Lock()
	for _, t := range c.topics {
		t.Stop()
	}
	c.topicsMutex.Unlock()
	c.client.Close()
}

func (c *Client) getTopic(ctx context.Context, topicName string) (*pubsub.Topic, error) {
	c.topicsMutex.Lock()
	defer c.topicsMutex.Unlock()

	if t, ok := c.topics[topicName]; ok {
		return t, nil
	}

	t := c.client.Topic(topicName)
	exists, err := t.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		log.Info().Msg(fmt.Sprintf("Topic %s does not exist. Creating new", topicName))
		t, err = c.client.CreateTopic(ctx, topicName)
		if err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("Cant create topic %s", topicName))
			return nil, err
		}
	}
	c.topics[topicName] = t
	return t, nil
}

func encodeMessage(message any) ([]byte, error) {
	switch m := message.(type) {
	case string:
		return []byte(m), nil

	default:
		return json.Marshal(message)
	}
}
