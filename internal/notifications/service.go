package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"herald/internal/config"
)

const userAgent = "herald"

// Event identifies a pipeline milestone worth notifying about.
type Event string

const (
	EventSynthCompleted   Event = "synth_completed"
	EventPublishCompleted Event = "publish_completed"
	EventVoicesRefreshed  Event = "voices_refreshed"
	EventError            Event = "error"
	EventTest             Event = "test"
)

// Payload carries event-specific values used to format the message.
type Payload map[string]string

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	Publish(ctx context.Context, event Event, data Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
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

// Publish formats and sends the event. Unknown events are ignored.
func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	msg, ok := formatEvent(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func formatEvent(event Event, data Payload) (message, bool) {
	value := func(key string) string { return strings.TrimSpace(data[key]) }

	switch event {
	case EventSynthCompleted:
		voice := value("voice")
		failed := value("failed")
		msg := message{
			title: "Herald - Synthesis Complete",
			body:  fmt.Sprintf("🔊 %s: %s new, %s skipped", voice, value("synthesized"), value("skipped")),
			tags:  []string{"herald", "synth", "completed"},
		}
		if failed != "" && failed != "0" {
			msg.title = "Herald - Synthesis Complete (with errors)"
			msg.body = fmt.Sprintf("%s, %s failed", msg.body, failed)
			msg.priority = "high"
		}
		return msg, true
	case EventPublishCompleted:
		return message{
			title: "Herald - Samples Published",
			body:  fmt.Sprintf("📦 Published %s sample packs\nCatalog: %s", value("archives"), value("document")),
			tags:  []string{"herald", "publish", "completed"},
		}, true
	case EventVoicesRefreshed:
		return message{
			title: "Herald - Voices Refreshed",
			body:  fmt.Sprintf("Voice catalog refreshed: %s voices", value("count")),
			tags:  []string{"herald", "voices", "refreshed"},
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := value("context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if detail := value("error"); detail != "" {
			builder.WriteString(detail)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Herald - Error",
			body:     builder.String(),
			tags:     []string{"herald", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Herald - Test",
			body:     "Notification system test",
			tags:     []string{"herald", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

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
	if msg.priority != "" && msg.priority != "default" {
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
