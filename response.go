package kwonly

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// buildSuccessResponse constructs the standard response map from function results.
//   - Single return: {"result": <value>}
//   - Multiple returns: {"result0": <value0>, "result1": <value1>, ...}
//   - No returns: {}
func buildSuccessResponse(results []any) map[string]any {
	response := make(map[string]any)
	if len(results) == 1 {
		response["result"] = results[0]
	} else {
		for i, res := range results {
			response[fmt.Sprintf("result%d", i)] = res
		}
	}
	return response
}

// buildErrorResponse constructs the standard error response map.
// Format: {"error": "<message>"}
func buildErrorResponse(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// buildCallErrorResponse adds the kind and offending names of argument
// errors to the standard error response.
func buildCallErrorResponse(err error) map[string]any {
	response := buildErrorResponse(err.Error())
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		response["kind"] = argErr.Kind.String()
		if len(argErr.Names) > 0 {
			response["names"] = argErr.Names
		}
	}
	return response
}

// writeJSONError writes a JSON error response to an http.ResponseWriter.
func writeJSONError(w http.ResponseWriter, msg string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(buildErrorResponse(msg))
}

// errorResponseSchema returns the OpenAPI schema definition for error responses.
func errorResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error": map[string]any{"type": "string"},
			"kind":  map[string]any{"type": "string"},
			"names": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"error"},
	}
}
