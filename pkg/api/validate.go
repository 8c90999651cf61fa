package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Validator checks outgoing requests against the embedded OpenAPI document.
// It is safe for concurrent use.
type Validator struct {
	router routers.Router
}

// NewValidator builds a Validator for requests addressed to server.
func NewValidator(ctx context.Context, server string) (*Validator, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	if err := swagger.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	swagger.Servers = openapi3.Servers{{URL: strings.TrimSuffix(server, "/")}}

	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return &Validator{router: router}, nil
}

// ValidateRequest reports whether req matches a documented operation with
// its parameters and body. Multipart bodies are not inspected. The request
// body is restored afterwards when req.GetBody is set.
func (v *Validator) ValidateRequest(ctx context.Context, req *http.Request) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("no documented operation for %s %s: %w", req.Method, req.URL.Path, err)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			ExcludeRequestBody: isMultipart(req),
			MultiError:         true,
		},
	}
	validateErr := openapi3filter.ValidateRequest(ctx, input)

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return errors.Join(validateErr, fmt.Errorf("restore request body: %w", err))
		}
		if req.Body != nil {
			_ = req.Body.Close()
		}
		req.Body = body
	}
	return validateErr
}

func isMultipart(req *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
