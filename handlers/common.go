// Package handlers wires HTTP requests to the estimate services. Every
// handler is a closure over the PocketBase app, returning JSON.
package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// jsonError writes a JSON error body with the given status.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// decodeBody decodes the JSON request body into dst.
func decodeBody(e *core.RequestEvent, dst any) error {
	if e.Request.Body == nil {
		return fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(e.Request.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
