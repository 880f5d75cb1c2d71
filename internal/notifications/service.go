package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelbuild/internal/config"
)

const userAgent = "reelbuild/0.1"

// Event identifies the kind of message being published.
type Event string

const (
	EventBuildSucceeded Event = "build_succeeded"
	EventBuildFailed    Event = "build_failed"
	EventTest           Event = "test"
)

// Payload carries the event fields used to compose a message.
type Payload map[string]any

// Service publishes build events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := compose(event, payload)
	if !ok {
		return fmt.Errorf("unsupported notification event %q", event)
	}
	return n.send(ctx, msg)
}

func compose(event Event, payload Payload) (message, bool) {
	switch event {
	case EventBuildSucceeded:
		body := fmt.Sprintf("Built %s in %s", payload.text("formats", "all formats"), payload.text("duration", "?"))
		if executed, skipped := payload.text("executed", ""), payload.text("skipped", ""); executed != "" {
			body += fmt.Sprintf(" (%s executed, %s skipped)", executed, skipped)
		}
		return message{
			title: "reelbuild - Build Complete",
			body:  body,
			tags:  []string{"reelbuild", "build", "completed"},
		}, true
	case EventBuildFailed:
		subject := "Build"
		if format := payload.text("format", ""); format != "" {
			subject = strings.TrimSpace(format + " " + payload.text("stage", ""))
		}
		body := fmt.Sprintf("%s failed: %s", subject, payload.text("error", "unknown error"))
		if hint := payload.text("hint", ""); hint != "" {
			body += "\nHint: " + hint
		}
		return message{
			title:    "reelbuild - Build Failed",
			body:     body,
			tags:     []string{"reelbuild", "build", "failed"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title: "reelbuild - Test",
			body:  "Notifications are working",
			tags:  []string{"reelbuild", "test"},
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key, fallback string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	if s == "" {
		return fallback
	}
	return s
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
