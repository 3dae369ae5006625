package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/folio-reports/folio/pkg/cache"
	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/observability"
	"github.com/folio-reports/folio/pkg/pipeline"
)

// newServeCmd creates the serve command, which exposes the render pipeline
// as a small HTTP API. Definitions arrive inline in the request body, so
// the server never reads definition files from disk.
//
// Endpoints:
//   - POST /v1/render: render an inline definition
//   - GET  /healthz:   liveness probe
func newServeCmd() *cobra.Command {
	var (
		addr     string
		cacheURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline as an HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			store, err := serveCache(ctx, cacheURL, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, logger)
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(runner, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving render API", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheURL, "cache-url", "", "cache backend URL (redis://, mongodb://, or a directory; default: file cache)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveCache opens the server cache backend. An explicit URL wins; the
// default is the CLI file cache.
func serveCache(ctx context.Context, url string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url != "" {
		return cache.Open(ctx, url)
	}
	return newCache(false), nil
}

// newServer builds the API router. Extracted from the command so tests can
// drive the handler without binding a socket.
func newServer(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/v1/render", handleRender(runner))

	return r
}

// ctxKeyRequestID is the context key for the per-request ID.
const requestIDKey ctxKey = 1

// requestID assigns each request a UUID, exposed via context and the
// X-Request-Id response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestIDFromContext returns the request ID, or "" outside a request.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger logs each request with its ID, status, and duration, and
// feeds the HTTP observability hooks.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
			logger.Info("request",
				"id", requestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", duration.Round(time.Millisecond))
		})
	}
}

// renderRequest is the POST /v1/render body.
type renderRequest struct {
	Definition       string         `json:"definition"`
	DefinitionFormat string         `json:"definition_format"`
	Data             map[string]any `json:"data,omitempty"`
	Formats          []string       `json:"formats,omitempty"`
	NoPreamble       bool           `json:"no_preamble,omitempty"`
	Refresh          bool           `json:"refresh,omitempty"`
}

// renderResponse is the POST /v1/render success body. Artifacts are keyed
// by format and carried as strings (both typ and json outputs are text).
type renderResponse struct {
	RequestID string            `json:"request_id"`
	IRHash    string            `json:"ir_hash"`
	Layouts   int               `json:"layouts"`
	Cached    bool              `json:"cached"`
	Artifacts map[string]string `json:"artifacts"`
}

// errorResponse is the error body for all failure statuses.
type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

func handleRender(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidDefinition, "invalid request body: %v", err))
			return
		}
		if req.Definition == "" || req.DefinitionFormat == "" {
			writeError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidDefinition, "definition and definition_format are required"))
			return
		}

		result, err := runner.Execute(r.Context(), pipeline.Options{
			Definition:       []byte(req.Definition),
			DefinitionFormat: req.DefinitionFormat,
			Data:             req.Data,
			Formats:          req.Formats,
			NoPreamble:       req.NoPreamble,
			Refresh:          req.Refresh,
		})
		if err != nil {
			observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
			writeError(w, r, statusForError(err), err)
			return
		}

		artifacts := make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			artifacts[format] = string(data)
		}

		writeJSON(w, http.StatusOK, renderResponse{
			RequestID: requestIDFromContext(r.Context()),
			IRHash:    result.IRHash,
			Layouts:   result.Stats.LayoutCount,
			Cached:    result.CacheInfo.RenderHit,
			Artifacts: artifacts,
		})
	}
}

// statusForError maps pipeline errors onto HTTP statuses: definition and
// validation problems are the caller's fault, everything else is ours.
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidDefinition,
		errors.ErrCodeInvalidTrack,
		errors.ErrCodeUnknownElement,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupported,
		errors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{
		RequestID: requestIDFromContext(r.Context()),
		Code:      string(errors.GetCode(err)),
		Error:     errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
