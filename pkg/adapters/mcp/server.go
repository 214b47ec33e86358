package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/chomsky"
	"github.com/aretw0/chomsky/internal/sanitize"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/enumerate"
	"github.com/aretw0/chomsky/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// LibraryURI is the resource listing the grammar library.
const LibraryURI = "chomsky://grammars"

// ConvertArgs are the arguments of convert_to_cnf.
type ConvertArgs struct {
	Grammar string `mapstructure:"grammar"`
	Library string `mapstructure:"library"`
	Start   string `mapstructure:"start"`
}

// GenerateArgs are the arguments of generate_words.
type GenerateArgs struct {
	Grammar   string `mapstructure:"grammar"`
	Library   string `mapstructure:"library"`
	MaxLength int    `mapstructure:"max_length"`
	MaxWords  int    `mapstructure:"max_words"`
	Start     string `mapstructure:"start"`
}

// CheckArgs are the arguments of check_cnf.
type CheckArgs struct {
	Grammar string `mapstructure:"grammar"`
	Library string `mapstructure:"library"`
	Start   string `mapstructure:"start"`
}

// ConvertResponse mirrors the HTTP /convert payload.
type ConvertResponse struct {
	ID    string        `json:"id" jsonschema_description:"Identifier of the stored conversion"`
	Start string        `json:"start" jsonschema_description:"Start symbol of the CNF grammar"`
	CNF   string        `json:"cnf" jsonschema_description:"The grammar in strict Chomsky Normal Form"`
	Steps []domain.Step `json:"steps" jsonschema_description:"Grammar text after each normalization stage"`
}

// GenerateResponse lists the generated words.
type GenerateResponse struct {
	Words []string `json:"words" jsonschema_description:"Words of the language, shortest first"`
	Count int      `json:"count" jsonschema_description:"Number of words returned"`
}

// CheckResponse reports strict CNF membership.
type CheckResponse struct {
	Strict     bool     `json:"strict" jsonschema_description:"True if the grammar is in strict CNF"`
	Violations []string `json:"violations" jsonschema_description:"Productions breaking strict CNF"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Convert(ctx context.Context, source string, start domain.Symbol) (*domain.Conversion, error)
	Generate(ctx context.Context, source string, maxLength int, opts ...enumerate.Option) ([]string, error)
	Check(source string, start domain.Symbol) ([]domain.Violation, error)
}

// Server wraps the chomsky Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	library   ports.GrammarLibrary
	mcpServer *server.MCPServer

	MaxLength int
	MaxWords  int

	// LengthLimit and WordsLimit cap the bounds a tool call may ask for.
	LengthLimit int
	WordsLimit  int
}

// Default caps on the generate_words bounds.
const (
	DefaultLengthLimit = 10
	DefaultWordsLimit  = 50
)

// Option configures the server.
type Option func(*Server)

// WithDefaults sets the bounds used when generate_words omits them.
func WithDefaults(maxLength, maxWords int) Option {
	return func(s *Server) {
		s.MaxLength = maxLength
		s.MaxWords = maxWords
	}
}

// WithLimits caps max_length and max_words.
func WithLimits(maxLength, maxWords int) Option {
	return func(s *Server) {
		s.LengthLimit = maxLength
		s.WordsLimit = maxWords
	}
}

// NewServer creates a new MCP Server instance. library may be nil.
func NewServer(engine Engine, library ports.GrammarLibrary, opts ...Option) *Server {
	s := &Server{
		engine:      engine,
		library:     library,
		mcpServer:   server.NewMCPServer("chomsky-mcp", strings.TrimSpace(chomsky.Version)),
		MaxLength:   4,
		MaxWords:    10,
		LengthLimit: DefaultLengthLimit,
		WordsLimit:  DefaultWordsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if library != nil {
		s.registerResources()
	}
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	grammarDesc := "Grammar rules, one per line: 'A -> B C | a | ε'. The first rule's left-hand side is the start symbol."
	libraryDesc := "Name of a grammar from the library, used when grammar is omitted"

	// TOOL: convert_to_cnf
	convertTool := mcp.NewTool("convert_to_cnf",
		mcp.WithDescription("Convert a context-free grammar to strict Chomsky Normal Form, returning every intermediate step."),
		mcp.WithString("grammar", mcp.Description(grammarDesc)),
		mcp.WithString("library", mcp.Description(libraryDesc)),
		mcp.WithString("start", mcp.Description("Start symbol (default: the library entry's start, else the first rule)")),
		mcp.WithOutputSchema[ConvertResponse](),
	)
	s.mcpServer.AddTool(convertTool, mcp.NewStructuredToolHandler(s.handleConvert))

	// TOOL: generate_words
	generateTool := mcp.NewTool("generate_words",
		mcp.WithDescription("List the words of the grammar's language up to a maximum length."),
		mcp.WithString("grammar", mcp.Description(grammarDesc)),
		mcp.WithString("library", mcp.Description(libraryDesc)),
		mcp.WithNumber("max_length",
			mcp.Description(fmt.Sprintf("Maximum word length in terminals (default %d)", s.MaxLength)),
			mcp.Min(1), mcp.Max(float64(s.LengthLimit)),
		),
		mcp.WithNumber("max_words",
			mcp.Description(fmt.Sprintf("Maximum number of words to return (default %d)", s.MaxWords)),
			mcp.Min(1), mcp.Max(float64(s.WordsLimit)),
		),
		mcp.WithString("start", mcp.Description("Start symbol (default: first rule)")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: check_cnf
	checkTool := mcp.NewTool("check_cnf",
		mcp.WithDescription("Check whether a grammar is already in strict Chomsky Normal Form."),
		mcp.WithString("grammar", mcp.Description(grammarDesc)),
		mcp.WithString("library", mcp.Description(libraryDesc)),
		mcp.WithString("start", mcp.Description("Start symbol (default: first rule)")),
		mcp.WithOutputSchema[CheckResponse](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheck))
}

// Handler methods for structured tools

func (s *Server) handleConvert(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ConvertResponse, error) {
	var in ConvertArgs
	if err := decodeArgs(args, &in); err != nil {
		return ConvertResponse{}, err
	}
	source, start, err := s.resolve(ctx, in.Grammar, in.Library)
	if err != nil {
		return ConvertResponse{}, err
	}
	if in.Start != "" {
		start = domain.Symbol(in.Start)
	}

	conv, err := s.engine.Convert(ctx, source, start)
	if err != nil {
		return ConvertResponse{}, fmt.Errorf("convert failed: %w", err)
	}
	return ConvertResponse{
		ID:    conv.ID,
		Start: string(conv.Start),
		CNF:   conv.CNF,
		Steps: conv.Steps,
	}, nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	var in GenerateArgs
	if err := decodeArgs(args, &in); err != nil {
		return GenerateResponse{}, err
	}
	source, start, err := s.resolve(ctx, in.Grammar, in.Library)
	if err != nil {
		return GenerateResponse{}, err
	}
	if in.Start != "" {
		start = domain.Symbol(in.Start)
	}

	maxLength := in.MaxLength
	if maxLength == 0 {
		maxLength = s.MaxLength
	}
	maxWords := in.MaxWords
	if maxWords == 0 {
		maxWords = s.MaxWords
	}
	if maxLength > s.LengthLimit || maxWords > s.WordsLimit {
		return GenerateResponse{}, fmt.Errorf("%w: max_length %d, max_words %d (limits %d, %d)",
			domain.ErrInvalidBound, maxLength, maxWords, s.LengthLimit, s.WordsLimit)
	}
	opts := []enumerate.Option{enumerate.WithMaxWords(maxWords)}
	if start != "" {
		opts = append(opts, enumerate.WithStart(start))
	}

	words, err := s.engine.Generate(ctx, source, maxLength, opts...)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}
	return GenerateResponse{Words: words, Count: len(words)}, nil
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResponse, error) {
	var in CheckArgs
	if err := decodeArgs(args, &in); err != nil {
		return CheckResponse{}, err
	}
	source, start, err := s.resolve(ctx, in.Grammar, in.Library)
	if err != nil {
		return CheckResponse{}, err
	}
	if in.Start != "" {
		start = domain.Symbol(in.Start)
	}

	violations, err := s.engine.Check(source, start)
	if err != nil {
		return CheckResponse{}, fmt.Errorf("check failed: %w", err)
	}
	out := CheckResponse{Strict: len(violations) == 0, Violations: []string{}}
	for _, v := range violations {
		out.Violations = append(out.Violations, v.String())
	}
	return out, nil
}

// resolve picks the grammar text from the inline argument or the library
// and returns the entry's declared start symbol, if any.
func (s *Server) resolve(ctx context.Context, grammar, name string) (string, domain.Symbol, error) {
	var start domain.Symbol
	if grammar == "" && name != "" {
		if s.library == nil {
			return "", "", errors.New("no grammar library configured")
		}
		entry, err := s.library.Get(ctx, name)
		if err != nil {
			return "", "", err
		}
		grammar, start = entry.Source, entry.Start
	}
	if grammar == "" {
		return "", "", errors.New("one of grammar or library is required")
	}

	clean, err := sanitize.Input(grammar)
	if err != nil {
		slog.Warn("MCP: grammar rejected", "error", err, "size", len(grammar))
		return "", "", fmt.Errorf("input rejected: %w", err)
	}
	return clean, start, nil
}

func decodeArgs(args map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) registerResources() {
	// EXPOSE: chomsky://grammars
	s.mcpServer.AddResource(mcp.NewResource(LibraryURI, "Grammar Library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := s.entries(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(entries)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      LibraryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) entries(ctx context.Context) ([]*domain.LibraryEntry, error) {
	names, err := s.library.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grammars: %w", err)
	}
	entries := make([]*domain.LibraryEntry, 0, len(names))
	for _, name := range names {
		entry, err := s.library.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load grammar %q: %w", name, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
