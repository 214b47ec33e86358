package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger loads and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// Default caps on the generate bounds.
const (
	DefaultLengthLimit = 10
	DefaultWordsLimit  = 50
)

// applyLimits sets the maximum of the GenerateRequest bounds in doc.
func applyLimits(doc *openapi3.T, maxLength, maxWords int) error {
	if doc.Components == nil {
		return errors.New("openapi spec has no components")
	}
	ref, ok := doc.Components.Schemas["GenerateRequest"]
	if !ok || ref.Value == nil {
		return errors.New("openapi spec has no GenerateRequest schema")
	}
	for name, limit := range map[string]int{"max_length": maxLength, "max_words": maxWords} {
		prop, ok := ref.Value.Properties[name]
		if !ok || prop.Value == nil {
			return fmt.Errorf("GenerateRequest has no %s property", name)
		}
		prop.Value.Max = openapi3.Ptr(float64(limit))
	}
	return nil
}

// requestValidator rejects requests that do not match the OpenAPI document.
// Requests for routes the document does not describe pass through untouched.
func requestValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Warn("Request rejected by schema", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
