package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackBeforeInitializeQueuesNothing(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Track(EventSessionStart, map[string]any{"interpreter": "sh"})
	require.Equal(t, 0, m.Pending())
}

func TestTrackDisabledQueuesNothing(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Initialize(Config{Enabled: false})
	m.Track(EventSessionStart, nil)
	m.Track(EventCommandError, nil)
	require.Equal(t, 0, m.Pending())
}

func TestTrackMergesAdditionalData(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Initialize(Config{
		Enabled:        true,
		AdditionalData: map[string]any{"app_version": "0.0.0-test"},
	})
	m.Track(EventSessionStart, map[string]any{"interpreter": "python"})
	require.Equal(t, 1, m.Pending())

	ev := m.queue[0]
	require.Equal(t, EventSessionStart, ev.Type)
	require.Equal(t, "0.0.0-test", ev.Properties["app_version"])
	require.Equal(t, "python", ev.Properties["interpreter"])
}

func TestFlushSyncDeliversAndClears(t *testing.T) {
	t.Parallel()

	received := make(chan []Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var events []Event
		require.NoError(t, json.Unmarshal(body, &events))
		received <- events
	}))
	defer srv.Close()

	m := NewManager()
	m.Initialize(Config{Enabled: true, Endpoint: srv.URL})
	m.Track(EventSessionStart, map[string]any{"interpreter": "sh"})
	m.Track(EventSessionEnd, map[string]any{"interpreter": "sh"})
	require.Equal(t, 2, m.Pending())

	m.FlushSync()
	require.Equal(t, 0, m.Pending())

	events := <-received
	require.Len(t, events, 2)
	require.Equal(t, EventSessionStart, events[0].Type)
	require.Equal(t, EventSessionEnd, events[1].Type)
}

func TestFlushSyncWithoutEndpointDropsQueue(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Initialize(Config{Enabled: true})
	m.Track(EventSessionStart, nil)
	m.FlushSync()
	require.Equal(t, 0, m.Pending())
}
