package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tphakala/smartwaste/internal/logger"
)

// ClassificationEvent is published after every successful prediction.
type ClassificationEvent struct {
	Class      string    `json:"class"`
	Category   string    `json:"category"`
	Method     string    `json:"method"`
	Confidence float32   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// IdeaEvent is published when a community idea is stored.
type IdeaEvent struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Idea      string    `json:"idea"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher encodes events as JSON and publishes them under a topic prefix.
// A nil Publisher discards everything.
type Publisher struct {
	client Client
	prefix string
}

// NewPublisher wraps client. prefix defaults to "smartwaste".
func NewPublisher(client Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "smartwaste"
	}
	return &Publisher{client: client, prefix: prefix}
}

// PublishClassification sends ev to <prefix>/classification.
func (p *Publisher) PublishClassification(ctx context.Context, ev ClassificationEvent) {
	p.publish(ctx, "classification", ev)
}

// PublishIdea sends ev to <prefix>/idea.
func (p *Publisher) PublishIdea(ctx context.Context, ev IdeaEvent) {
	p.publish(ctx, "idea", ev)
}

func (p *Publisher) publish(ctx context.Context, subtopic string, v any) {
	if p == nil || p.client == nil {
		return
	}
	topic := p.prefix + "/" + subtopic

	payload, err := json.Marshal(v)
	if err != nil {
		GetLogger().Warn("failed to encode event", logger.String("topic", topic), logger.Error(err))
		return
	}
	if err := p.client.Publish(ctx, topic, string(payload)); err != nil {
		GetLogger().Debug("event not published", logger.String("topic", topic), logger.Error(err))
	}
}
