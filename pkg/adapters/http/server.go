package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/chomsky"
	"github.com/aretw0/chomsky/internal/sanitize"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/enumerate"
	"github.com/go-chi/chi/v5"
)

// Engine defines the conversion core consumed by the HTTP adapter.
type Engine interface {
	Convert(ctx context.Context, source string, start domain.Symbol) (*domain.Conversion, error)
	Conversion(ctx context.Context, id string) (*domain.Conversion, error)
	Generate(ctx context.Context, source string, maxLength int, opts ...enumerate.Option) ([]string, error)
	Check(source string, start domain.Symbol) ([]domain.Violation, error)
}

// Server serves the routes described by openapi.yaml.
type Server struct {
	Engine    Engine
	MaxLength int
	MaxWords  int

	// LengthLimit and WordsLimit cap the bounds a request may ask for.
	LengthLimit int
	WordsLimit  int

	logger     *slog.Logger
	metrics    http.Handler
	apiVersion string
}

// Option configures the handler.
type Option func(*Server)

// WithDefaults sets the bounds used when a generate request omits them.
func WithDefaults(maxLength, maxWords int) Option {
	return func(s *Server) {
		s.MaxLength = maxLength
		s.MaxWords = maxWords
	}
}

// WithLimits caps max_length and max_words. The caps are written into the
// request schema so that larger bounds are rejected before reaching the engine.
func WithLimits(maxLength, maxWords int) Option {
	return func(s *Server) {
		s.LengthLimit = maxLength
		s.WordsLimit = maxWords
	}
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine:      engine,
		MaxLength:   4,
		MaxWords:    10,
		LengthLimit: DefaultLengthLimit,
		WordsLimit:  DefaultWordsLimit,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		apiVersion:  "unknown",
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.MaxLength > server.LengthLimit || server.MaxWords > server.WordsLimit {
		return nil, fmt.Errorf("default bounds %d/%d exceed limits %d/%d",
			server.MaxLength, server.MaxWords, server.LengthLimit, server.WordsLimit)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	if err := applyLimits(doc, server.LengthLimit, server.WordsLimit); err != nil {
		return nil, err
	}
	if doc.Info != nil {
		server.apiVersion = doc.Info.Version
	}
	validate, err := requestValidator(doc, server.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Post("/convert", server.Convert)
	r.Post("/generate", server.Generate)
	r.Post("/check", server.Check)
	r.Get("/conversions/{id}", server.GetConversion)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Convert handles the POST /convert request.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body ConvertRequest
	if !s.decode(w, r, &body) {
		return
	}
	source, ok := s.sanitize(w, body.Grammar)
	if !ok {
		return
	}

	conv, err := s.Engine.Convert(r.Context(), source, domain.Symbol(body.Start))
	if err != nil {
		s.fail(w, "Convert", err)
		return
	}
	s.respond(w, conv)
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if !s.decode(w, r, &body) {
		return
	}
	source, ok := s.sanitize(w, body.Grammar)
	if !ok {
		return
	}

	maxLength := body.MaxLength
	if maxLength == 0 {
		maxLength = s.MaxLength
	}
	maxWords := body.MaxWords
	if maxWords == 0 {
		maxWords = s.MaxWords
	}
	if maxLength > s.LengthLimit || maxWords > s.WordsLimit {
		s.fail(w, "Generate", fmt.Errorf("%w: max_length %d, max_words %d (limits %d, %d)",
			domain.ErrInvalidBound, maxLength, maxWords, s.LengthLimit, s.WordsLimit))
		return
	}
	opts := []enumerate.Option{enumerate.WithMaxWords(maxWords)}
	if body.Start != "" {
		opts = append(opts, enumerate.WithStart(domain.Symbol(body.Start)))
	}

	words, err := s.Engine.Generate(r.Context(), source, maxLength, opts...)
	if err != nil {
		s.fail(w, "Generate", err)
		return
	}
	s.respond(w, GenerateResponse{Words: words, Count: len(words)})
}

// Check handles the POST /check request.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	var body CheckRequest
	if !s.decode(w, r, &body) {
		return
	}
	source, ok := s.sanitize(w, body.Grammar)
	if !ok {
		return
	}

	violations, err := s.Engine.Check(source, domain.Symbol(body.Start))
	if err != nil {
		s.fail(w, "Check", err)
		return
	}
	if violations == nil {
		violations = []domain.Violation{}
	}
	s.respond(w, CheckResponse{Strict: len(violations) == 0, Violations: violations})
}

// GetConversion handles the GET /conversions/{id} request.
func (s *Server) GetConversion(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Engine.Conversion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetConversion", err)
		return
	}
	s.respond(w, conv)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]string{
		"app":         "chomsky-http",
		"version":     strings.TrimSpace(chomsky.Version),
		"api_version": s.apiVersion,
	})
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) sanitize(w http.ResponseWriter, grammar string) (string, bool) {
	clean, err := sanitize.Input(grammar)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		s.logger.Warn("Grammar rejected", "error", err, "size", len(grammar))
		return "", false
	}
	return clean, true
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConversionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedRule),
		errors.Is(err, domain.ErrEmptyGrammar),
		errors.Is(err, domain.ErrUndefinedStart),
		errors.Is(err, domain.ErrInvalidBound),
		errors.Is(err, domain.ErrGrammarTooLarge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}
