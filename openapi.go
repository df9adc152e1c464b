package kwonly

import "fmt"

// generateOpenAPISpec generates a simplified OpenAPI 3.0.0 specification
// based on the registered functions.
func (a *App) generateOpenAPISpec() map[string]any {
	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]string{
			"title":   a.config.Name,
			"version": a.config.Version,
		},
		"paths": map[string]any{},
	}

	paths := spec["paths"].(map[string]any)

	errorContent := map[string]any{
		"application/json": map[string]any{
			"schema": errorResponseSchema(),
		},
	}

	for _, fn := range a.functions {
		path := fmt.Sprintf("/functions/%s", fn.Name)

		paths[path] = map[string]any{
			"post": map[string]any{
				"operationId": fn.Name,
				"description": fn.Description,
				"requestBody": map[string]any{
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": GenerateJSONSchema(fn.Func),
						},
					},
				},
				"responses": map[string]any{
					"200": map[string]any{
						"description": "Successful execution",
					},
					"400": map[string]any{
						"description": "Arguments could not be bound or converted",
						"content":     errorContent,
					},
					"500": map[string]any{
						"description": "Function returned an error",
						"content":     errorContent,
					},
				},
			},
		}
	}

	return spec
}
