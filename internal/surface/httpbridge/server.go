package httpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tymodoro/internal/surface"
)

const (
	eventBuffer       = 8
	keepAliveInterval = 15 * time.Second
	shutdownTimeout   = 2 * time.Second
)

// ErrNotLoopback is returned when asked to listen beyond the local machine.
var ErrNotLoopback = errors.New("bridge address must be loopback")

// NewRouter creates the chi router that exposes hub over HTTP.
func NewRouter(hub *surface.Hub, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := &handler{hub: hub, logger: logger}
	r.Get("/health", h.health)
	r.Get("/snapshot", h.snapshot)
	r.Get("/events", h.events)
	r.Post("/commands/{command}", h.command)

	return r
}

// Serve listens on addr until ctx is cancelled. addr must resolve to a
// loopback host.
func Serve(ctx context.Context, addr string, hub *surface.Hub, logger zerolog.Logger) error {
	if err := CheckLoopback(addr); err != nil {
		return err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           NewRouter(hub, logger),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", listener.Addr().String()).Msg("sync bridge listening")
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// CheckLoopback rejects addresses whose host is not a loopback interface.
func CheckLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parse bridge address: %w", err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%w: %q", ErrNotLoopback, addr)
	}
	return nil
}

type handler struct {
	hub    *surface.Hub
	logger zerolog.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"surfaces": h.hub.Count(),
	})
}

func (h *handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.hub.Last()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	writeJSON(w, http.StatusOK, surface.Encode(surface.SnapshotMessage{Snapshot: snapshot}))
}

func (h *handler) command(w http.ResponseWriter, r *http.Request) {
	command, err := surface.ParseCommand(chi.URLParam(r, "command"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	message := surface.CommandMessage{Command: command, Source: "http:" + requestIDFrom(r.Context())}
	if !h.hub.Request(message) {
		writeError(w, http.StatusServiceUnavailable, "command queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, surface.Encode(message))
}

// events streams every snapshot as a server-sent event.
func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := surface.NewChannelSurface(eventBuffer)
	defer stream.Close()
	h.hub.Attach(stream)
	defer h.hub.Detach(stream.ID())

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case message := <-stream.Messages():
			data, err := json.Marshal(surface.Encode(message))
			if err != nil {
				h.logger.Warn().Err(err).Msg("encode event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", message.Type(), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
