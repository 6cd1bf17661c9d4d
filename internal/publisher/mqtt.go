package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"

	"github.com/jgoulah/minihabits/internal/config"
	"github.com/jgoulah/minihabits/internal/stats"
	"github.com/jgoulah/minihabits/pkg/models"
)

const publishTimeout = 10 * time.Second

// mqttClient is the subset of mqtt.Client the publisher uses
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher pushes derived habit stats to Home Assistant
type Publisher struct {
	client       mqttClient
	topicPrefix  string
	haConfig     config.HAConfig
	entityPrefix string
	httpClient   *http.Client
}

// New creates a publisher for whichever of MQTT and the HA HTTP API is enabled.
// Connecting to the broker gives up after publishTimeout or when ctx is done.
func New(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	haCfg := cfg.HomeAssistant
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
	}

	var client mqtt.Client
	mqttCfg := cfg.MQTT
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("minihabits")
		opts.SetAutoReconnect(false)
		opts.SetConnectRetry(false)
		opts.SetConnectTimeout(publishTimeout)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if err := waitToken(ctx, client.Connect(), publishTimeout); err != nil {
			return nil, fmt.Errorf("connecting to MQTT broker %s: %w", mqttCfg.Broker, err)
		}
	}

	p := &Publisher{
		topicPrefix:  cfg.GetTopicPrefix(),
		haConfig:     haCfg,
		entityPrefix: cfg.GetEntityPrefix(),
		httpClient:   &http.Client{Timeout: publishTimeout},
	}
	// keep a nil client out of the interface
	if client != nil {
		p.client = client
	}
	return p, nil
}

// Enabled reports whether any destination is configured
func (p *Publisher) Enabled() bool {
	return p.client != nil || p.haConfig.Enabled
}

// StatePayload is the JSON published for each habit
type StatePayload struct {
	HabitID string      `json:"habit_id"`
	Name    string      `json:"name"`
	Date    string      `json:"date"`
	Stats   stats.Stats `json:"stats"`
}

// HAState matches the body of POST /api/states/<entity_id>
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Publish sends one habit's stats to every enabled destination
func (p *Publisher) Publish(ctx context.Context, h models.Habit, s stats.Stats, date string) error {
	if !p.Enabled() {
		return fmt.Errorf("no publishing destination is enabled in config")
	}

	payload := StatePayload{HabitID: h.ID, Name: h.Name, Date: date, Stats: s}

	if p.client != nil {
		if err := p.publishMQTT(h, payload); err != nil {
			return err
		}
	}
	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, h, payload); err != nil {
			return err
		}
	}
	return nil
}

// Topic returns the retained state topic for a habit
func (p *Publisher) Topic(h models.Habit) string {
	return fmt.Sprintf("%s/%s/state", p.topicPrefix, h.ID)
}

// EntityID returns the Home Assistant sensor for a habit. It is derived
// from the id so renames keep the sensor and similar names never collide.
func (p *Publisher) EntityID(h models.Habit) string {
	return fmt.Sprintf("sensor.%s_%s", p.entityPrefix, slug(h.ID))
}

func (p *Publisher) publishMQTT(h models.Habit, payload StatePayload) error {
	body, err := json.Marshal(payload, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(h), 1, true, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", p.Topic(h))
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.Topic(h), err)
	}
	return nil
}

func (p *Publisher) publishHA(ctx context.Context, h models.Habit, payload StatePayload) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.EntityID(h))

	s := payload.Stats
	state := HAState{
		State: fmt.Sprintf("%d", s.CurrentStreak),
		Attributes: map[string]any{
			"friendly_name":       h.Name,
			"unit_of_measurement": "days",
			"icon":                "mdi:fire",
			"habit_id":            h.ID,
			"date":                payload.Date,
			"longest_streak":      s.LongestStreak,
			"total_completions":   s.TotalCompletions,
			"completion_rate":     s.CompletionRate,
			"best_day":            s.BestDay.Name,
			"formation_progress":  s.HabitFormation.Progress,
			"formation_remaining": s.HabitFormation.Remaining,
		},
	}

	body, err := json.Marshal(state, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// waitToken blocks until token completes, ctx is done or timeout passes
func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("timed out after %s", timeout)
	}
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// slug lowercases name and collapses anything outside [a-z0-9] to '_'
func slug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.TrimRight(b.String(), "_")
	if out == "" {
		return "unnamed"
	}
	return out
}
