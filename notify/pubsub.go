package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub/v2"

	"github.com/jonwraymond/svchealth/observe"
)

// ErrMissingTopic is returned when a Pub/Sub publisher has no topic.
var ErrMissingTopic = errors.New("notify: pubsub topic is required")

// ErrMissingProject is returned when a Pub/Sub publisher has no project.
var ErrMissingProject = errors.New("notify: pubsub project is required")

// PubSubConfig configures a PubSubPublisher.
type PubSubConfig struct {
	// ProjectID is the Google Cloud project owning the topic.
	ProjectID string `yaml:"project"`

	// Topic is the topic name or full resource name.
	Topic string `yaml:"topic"`

	// Attributes are added to every message.
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Validate checks the configuration.
func (c PubSubConfig) Validate() error {
	if strings.TrimSpace(c.ProjectID) == "" {
		return ErrMissingProject
	}
	if strings.TrimSpace(c.Topic) == "" {
		return ErrMissingTopic
	}
	return nil
}

// PubSubPublisher publishes transitions as JSON messages to a Pub/Sub topic.
type PubSubPublisher struct {
	client     *pubsub.Client
	publisher  *pubsub.Publisher
	attributes map[string]string
	logger     observe.Logger
}

// NewPubSubPublisher connects to Pub/Sub using application default
// credentials.
func NewPubSubPublisher(ctx context.Context, cfg PubSubConfig, logger observe.Logger) (*PubSubPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	return NewPubSubPublisherFromClient(client, cfg, logger), nil
}

// NewPubSubPublisherFromClient wraps an existing client. The publisher takes
// ownership of client and closes it in Close.
func NewPubSubPublisherFromClient(client *pubsub.Client, cfg PubSubConfig, logger observe.Logger) *PubSubPublisher {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &PubSubPublisher{
		client:     client,
		publisher:  client.Publisher(cfg.Topic),
		attributes: messageAttributes(cfg.Attributes),
		logger:     logger,
	}
}

// Publish sends t and waits for the server acknowledgement.
func (p *PubSubPublisher) Publish(ctx context.Context, t Transition) error {
	msg, err := encodeMessage(t, p.attributes)
	if err != nil {
		return err
	}
	id, err := p.publisher.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing transition %s: %w", t.ID, err)
	}
	p.logger.Debug(ctx, "transition published",
		observe.Field{Key: "message_id", Value: id},
		observe.Field{Key: "transition_id", Value: t.ID},
	)
	return nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

func encodeMessage(t Transition, attrs map[string]string) (*pubsub.Message, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding transition: %w", err)
	}
	msgAttrs := make(map[string]string, len(attrs)+2)
	for k, v := range attrs {
		msgAttrs[k] = v
	}
	msgAttrs["status"] = t.Current.String()
	return &pubsub.Message{Data: data, Attributes: msgAttrs}, nil
}

func messageAttributes(extra map[string]string) map[string]string {
	attrs := map[string]string{"event": EventType}
	for k, v := range extra {
		if k == "event" {
			continue
		}
		attrs[k] = v
	}
	return attrs
}

var _ Publisher = (*PubSubPublisher)(nil)
