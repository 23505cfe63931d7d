// Package server exposes scene listing, script generation and host renders
// over HTTP, streaming render progress with server-sent events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/df07/go-bpwf/pkg/blender"
	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/scene"
)

// Loader builds the scene a request names
type Loader func(ctx context.Context, ref string, draft bool) (*scene.Scene, scene.RenderOptions, error)

// Config wires a server to the rest of the tool
type Config struct {
	Addr      string
	Runner    *blender.Runner
	ScenesDir string
	Load      Loader
}

// Server handles web requests for scene renders
type Server struct {
	cfg Config
	log zerolog.Logger

	renders *scene.Registry // render id -> scene it rendered

	mu     sync.Mutex
	images map[string]string // render id -> image path
}

// NewServer creates a new web server
func NewServer(cfg Config) *Server {
	return &Server{
		cfg:     cfg,
		log:     logger.With("server"),
		renders: scene.NewRegistry(),
		images:  make(map[string]string),
	}
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/script", s.handleScript)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/renders", s.handleRenders)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("Starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.cfg.ScenesDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleScript returns the generated script for a scene as text
func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc, ro, err := s.cfg.Load(r.Context(), req.Scene, req.Draft)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var text string
	if req.Peek {
		text, err = sc.Peek(ro)
	} else {
		text, err = sc.Render(ro)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/x-python; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

// handleImage serves the image of a finished render
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	s.mu.Lock()
	path, ok := s.images[id]
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown render: "+id)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// handleRenders lists finished renders, describes one with ?id= or forgets
// one with DELETE
func (s *Server) handleRenders(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	switch {
	case r.Method == http.MethodDelete:
		if err := s.renders.Delete(id); err != nil {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.mu.Lock()
		delete(s.images, id)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case r.Method != http.MethodGet:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
	case id != "":
		info, err := s.renders.Info(id)
		if err != nil {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, info)
	default:
		infos := []scene.Info{}
		for _, id := range s.renders.List() {
			if info, err := s.renders.Info(id); err == nil {
				infos = append(infos, info)
			}
		}
		s.writeJSON(w, http.StatusOK, infos)
	}
}

func (s *Server) recordImage(id, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[id] = path
}

// SceneRequest is a request for one scene
type SceneRequest struct {
	Scene string `json:"scene"`
	Draft bool   `json:"draft"`
	Peek  bool   `json:"peek"`
}

// parseSceneRequest parses request parameters
func parseSceneRequest(r *http.Request) (*SceneRequest, error) {
	query := r.URL.Query()
	req := &SceneRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		return nil, fmt.Errorf("missing scene parameter")
	}
	var err error
	if req.Draft, err = parseBoolParam(query.Get("draft")); err != nil {
		return nil, fmt.Errorf("invalid draft: %w", err)
	}
	if req.Peek, err = parseBoolParam(query.Get("peek")); err != nil {
		return nil, fmt.Errorf("invalid peek: %w", err)
	}
	return req, nil
}

func parseBoolParam(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("Error marshaling response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
