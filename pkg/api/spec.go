package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

// RawSpec returns a copy of the embedded OpenAPI document.
func RawSpec() []byte {
	return append([]byte(nil), rawSpec...)
}

// GetSwagger parses the embedded OpenAPI document. Each call returns a fresh
// *openapi3.T, so callers may mutate it (for example to replace Servers).
func GetSwagger() (*openapi3.T, error) {
	swagger, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return swagger, nil
}
