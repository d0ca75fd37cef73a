package httpbridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

func newTestServer(t *testing.T) (*httptest.Server, *surface.Hub) {
	t.Helper()
	hub := surface.NewHub(2, zerolog.Nop())
	server := httptest.NewServer(NewRouter(hub, zerolog.Nop()))
	t.Cleanup(server.Close)
	return server, hub
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSnapshot(t *testing.T) {
	server, hub := newTestServer(t)

	resp, err := http.Get(server.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before first broadcast = %d, want 503", resp.StatusCode)
	}

	hub.Broadcast(model.Snapshot{Kind: model.KindLongBreak, RemainingSeconds: 600, TotalSeconds: 900})
	resp, err = http.Get(server.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var envelope surface.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Type != surface.MessageSnapshot || envelope.Snapshot == nil {
		t.Fatalf("envelope = %+v", envelope)
	}
	if envelope.Snapshot.Kind != model.KindLongBreak || envelope.Snapshot.RemainingSeconds != 600 {
		t.Errorf("snapshot = %+v", *envelope.Snapshot)
	}
}

func TestCommands(t *testing.T) {
	server, hub := newTestServer(t)

	tests := []struct {
		name       string
		command    string
		wantStatus int
	}{
		{"toggle", "toggle", http.StatusAccepted},
		{"skip", "skip", http.StatusAccepted},
		{"queue full", "sync", http.StatusServiceUnavailable},
		{"unknown", "reset", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/commands/"+tt.command, "application/json", nil)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}

	first := <-hub.Commands()
	second := <-hub.Commands()
	if first.Command != surface.CommandToggleRun || second.Command != surface.CommandSkip {
		t.Errorf("queued = %s, %s", first.Command, second.Command)
	}
	if !strings.HasPrefix(first.Source, "http:") {
		t.Errorf("Source = %q", first.Source)
	}
}

func TestEventsStreamsSnapshots(t *testing.T) {
	server, hub := newTestServer(t)
	hub.Broadcast(model.Snapshot{Kind: model.KindWork, RemainingSeconds: 1500, TotalSeconds: 1500})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q", got)
	}

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	if first.Snapshot == nil || first.Snapshot.RemainingSeconds != 1500 {
		t.Fatalf("first event = %+v", first)
	}

	hub.Broadcast(model.Snapshot{Kind: model.KindWork, RemainingSeconds: 1499, TotalSeconds: 1500, Running: true})
	second := readEvent(t, reader)
	if second.Snapshot == nil || second.Snapshot.RemainingSeconds != 1499 || !second.Snapshot.Running {
		t.Fatalf("second event = %+v", second)
	}
	if hub.Count() != 1 {
		t.Errorf("Count() = %d, want the stream attached", hub.Count())
	}
}

func readEvent(t *testing.T, reader *bufio.Reader) surface.Envelope {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: ")
		if !ok {
			continue
		}
		var envelope surface.Envelope
		if err := json.Unmarshal([]byte(data), &envelope); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
		return envelope
	}
}

func TestCheckLoopback(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr error
	}{
		{"127.0.0.1:7421", nil},
		{"localhost:7421", nil},
		{"[::1]:7421", nil},
		{"0.0.0.0:7421", ErrNotLoopback},
		{"192.168.1.4:7421", ErrNotLoopback},
		{":7421", ErrNotLoopback},
	}
	for _, tt := range tests {
		err := CheckLoopback(tt.addr)
		if tt.wantErr == nil && err != nil {
			t.Errorf("CheckLoopback(%q) error = %v", tt.addr, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("CheckLoopback(%q) error = %v, want %v", tt.addr, err, tt.wantErr)
		}
	}
	if err := CheckLoopback("nonsense"); err == nil {
		t.Error("CheckLoopback(nonsense) should fail")
	}
}

func TestRecoveryReturns500(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/commands/toggle", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
