package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	verrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/middleware"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/treefile"
)

// Handler serves the patch engine over HTTP.
type Handler struct {
	cfg      Config
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *middleware.Metrics
	nextID   atomic.Uint64
}

// NewHandler creates the HTTP handler. Collectors are registered with
// cfg.Registry when it is set.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = cfg.logger()
	}
	h := &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: cfg.CheckOrigin,
		},
	}

	if cfg.Registry != nil {
		h.metrics = middleware.NewMetrics(
			middleware.WithRegistry(cfg.Registry),
			middleware.WithNamespace(cfg.Namespace),
			middleware.WithSubsystem(cfg.Subsystem),
		)
		h.cfg.metrics = patch.NewMetrics(
			patch.WithRegistry(cfg.Registry),
			patch.WithNamespace(cfg.Namespace),
			patch.WithSubsystem(cfg.Subsystem),
		)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if cfg.Tracing {
		r.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.TracerName),
			middleware.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
			}),
		))
	}
	r.Use(h.metrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Post("/patch", h.handlePatch)
	r.Get("/ws", h.handleWebSocket)
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}
	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) newSession() *Session {
	return NewSession("s"+strconv.FormatUint(h.nextID.Add(1), 10), h.cfg)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.cfg.ReadLimit > 0 {
		body = http.MaxBytesReader(w, r.Body, h.cfg.ReadLimit)
	}

	var req PatchRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorJSON(verrors.New(verrors.CodeBadDocument).Wrap(err)))
		return
	}
	if req.New == nil {
		writeJSON(w, http.StatusBadRequest, errorJSON(
			verrors.New(verrors.CodeBadDocument).WithDetail(`missing "new" document`)))
		return
	}
	for _, n := range []*treefile.Node{req.Old, req.New} {
		if n == nil {
			continue
		}
		if err := n.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorJSON(err))
			return
		}
	}

	s := h.newSession()
	if req.Old != nil {
		if _, err := s.Apply(r.Context(), treefile.ToVNode(req.Old)); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorJSON(err))
			return
		}
	}
	frame, err := s.Apply(r.Context(), treefile.ToVNode(req.New))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorJSON(err))
		return
	}

	writeJSON(w, http.StatusOK, PatchResponse{
		Ops:   opsJSON(frame.Ops),
		HTML:  s.HTML(render.Config{}),
		Stats: statsJSON(s.Stats()),
	})
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func (h *Handler) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		h.cfg.logger().Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
