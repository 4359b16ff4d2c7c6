// Package spec carries the embedded OpenAPI description of the HTTP API.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
