package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"

	"github.com/df07/go-bpwf/pkg/blender"
)

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "started", "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// RenderUpdate is sent once a render finishes
type RenderUpdate struct {
	ID        string          `json:"id"`
	Scene     string          `json:"scene"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	ElapsedMs int64           `json:"elapsedMs"`
	Result    *blender.Result `json:"result"`
}

var renderSeq atomic.Int64

// handleRender runs the host on a scene and streams its console via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine; the handler waits for it before returning
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseSceneRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sc, ro, err := s.cfg.Load(ctx, req.Scene, req.Draft)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	renderID := fmt.Sprintf("render-%d", renderSeq.Add(1))
	// Concurrent renders of one scene must not share output files
	sc = sc.Split(sc.Filename() + "-" + renderID)
	s.sendEvent(ctx, sseEventChan, "started", map[string]string{"id": renderID, "scene": req.Scene})

	consoleChan := make(chan ConsoleMessage, 50)
	console := NewConsoleWriter(renderID, consoleChan)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	runner := s.runner()
	runner.Stdout = console
	runner.Stderr = console

	startTime := time.Now()
	res, err := runner.Run(ctx, sc, blender.RunOptions{Peek: req.Peek, Render: ro})

	// The host has exited, so nothing writes to the console any more
	console.Flush()
	close(consoleChan)
	wg.Wait()

	if err != nil {
		s.log.Warn().Err(err).Str("id", renderID).Msg("Render failed")
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	if _, err := s.renders.Add(renderID, sc); err != nil {
		s.log.Warn().Err(err).Str("id", renderID).Msg("Render not recorded")
	}
	update := RenderUpdate{
		ID:        renderID,
		Scene:     req.Scene,
		ElapsedMs: time.Since(startTime).Milliseconds(),
		Result:    res,
	}
	if res.Image != "" {
		s.recordImage(renderID, res.Image)
		update.ImageURL = "/api/image?id=" + renderID
	}
	s.sendEvent(ctx, sseEventChan, "complete", update)
}

func (s *Server) runner() blender.Runner {
	if s.cfg.Runner == nil {
		return *blender.NewRunner("")
	}
	return *s.cfg.Runner
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes all SSE events in a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console lines until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := sonic.Marshal(msg)
		if err != nil {
			s.log.Error().Err(err).Msg("Error marshaling console message")
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("Error marshaling event")
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel. The message is JSON
// encoded since host errors span several lines.
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	s.sendEvent(ctx, sseEventChan, "error", map[string]string{"error": message})
}
