package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/cache"
	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	"github.com/monish1402/insurance-llm-system1/pkg/server/middleware"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Enqueuer schedules documents for background processing.
type Enqueuer interface {
	Enqueue(id uuid.UUID) error
}

// Searcher runs hybrid search over stored chunks.
type Searcher interface {
	Search(ctx context.Context, queryText string, entities map[string]any, topK int) ([]search.Result, error)
}

// Decider evaluates a claim against retrieved clauses.
type Decider interface {
	Decide(ctx context.Context, queryText string, entities map[string]any, results []search.Result) decision.Result
}

// Pinger reports reachability of an external dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config

	DocumentsStore store.DocumentsStore
	ChunksStore    store.ChunksStore
	QueryLogStore  store.QueryLogStore
	SessionsStore  store.SessionsStore
	HealthStore    store.HealthStore

	Processor Enqueuer
	Search    Searcher
	Decider   Decider
	Cache     *cache.Cache
	LLM       Pinger

	JWTMiddleware *middleware.JWTAuthenticator

	srv *http.Server
}

func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(processTimeMiddleware)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddr(),
		// Uploads and LLM-backed queries can be slow; keep generous write
		// timeouts
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router: router,
		DB:     db,
		Config: cfg,
		srv:    srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that need
// to pick the port themselves.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown drains in-flight requests before stopping.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// processTimeMiddleware records handler duration in the X-Process-Time
// response header.
func processTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(&processTimeWriter{ResponseWriter: w, start: start}, r)
	})
}

type processTimeWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *processTimeWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.6f", time.Since(w.start).Seconds()))
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *processTimeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
