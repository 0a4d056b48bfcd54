package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"
)

type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventSessionEnd   EventType = "session_end"
	EventCommandError EventType = "command_error"
)

type Event struct {
	Type       EventType      `json:"type"`
	Timestamp  string         `json:"timestamp"`
	Properties map[string]any `json:"properties"`
	Client     ClientInfo     `json:"client"`
}

type ClientInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

type Config struct {
	Enabled        bool
	Endpoint       string
	AdditionalData map[string]any
}

// Manager queues events locally and ships them in one batch on
// FlushSync. Disabled managers queue nothing.
type Manager struct {
	config      Config
	initialized bool
	queue       []Event
	mu          sync.Mutex
	httpClient  *http.Client
}

func NewManager() *Manager {
	return &Manager{
		queue:      []Event{},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Manager) Initialize(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
	m.initialized = true
}

// Track records an event. Interpreter names are the only
// domain-specific property callers pass; nothing identifying the
// user's scripts leaves the machine.
func (m *Manager) Track(eventType EventType, properties map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized || !m.config.Enabled {
		return
	}

	props := map[string]any{}
	for k, v := range m.config.AdditionalData {
		props[k] = v
	}
	for k, v := range properties {
		props[k] = v
	}

	m.queue = append(m.queue, Event{
		Type:       eventType,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Properties: props,
		Client: ClientInfo{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
	})
}

// FlushSync ships the queued events and clears the queue. Delivery is
// best-effort; failures are logged and dropped.
func (m *Manager) FlushSync() {
	m.mu.Lock()
	events := m.queue
	m.queue = []Event{}
	endpoint := m.config.Endpoint
	enabled := m.initialized && m.config.Enabled
	m.mu.Unlock()

	if !enabled || len(events) == 0 || endpoint == "" {
		return
	}

	body, err := json.Marshal(events)
	if err != nil {
		slog.Debug("Failed to encode telemetry batch", "error", err)
		return
	}
	resp, err := m.httpClient.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("Failed to deliver telemetry batch", "error", err)
		return
	}
	resp.Body.Close()
}

// Pending returns the queued event count.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
