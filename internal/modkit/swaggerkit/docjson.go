package swaggerkit

import (
	"encoding/json"
	"net/http"

	"factlens/internal/core/version"
	perr "factlens/internal/platform/errors"
)

type obj = map[string]any

// serverURL is where the versioned API is mounted
const serverURL = "/api/v1"

func operation(tag, summary string) obj {
	return obj{
		"tags":      []any{tag},
		"summary":   summary,
		"responses": obj{"200": obj{"description": "OK"}},
	}
}

func verifyBody() obj {
	return obj{
		"required": true,
		"content": obj{"application/json": obj{"schema": obj{
			"type":     "object",
			"required": []any{"content"},
			"properties": obj{
				"content":     obj{"type": "string", "description": "text to investigate"},
				"max_workers": obj{"type": "integer", "minimum": 1, "maximum": 3},
				"trace":       obj{"type": "boolean", "description": "include worker reports"},
			},
		}}},
	}
}

// document describes the routes the api service mounts
func document() obj {
	verify := operation("Verify", "Verify content and return the verdict")
	verify["requestBody"] = verifyBody()
	stream := operation("Verify", "Verify content and stream stage events as text/event-stream")
	stream["requestBody"] = verifyBody()

	worker := operation("Verify", "Describe one worker")
	worker["parameters"] = []any{obj{"name": "name", "in": "path", "required": true, "schema": obj{"type": "string"}}}

	doc := obj{
		"openapi": "3.0.3",
		"info":    obj{"title": "factlens API", "version": version.Info().Version},
		"servers": []any{obj{"url": serverURL}},
		"paths": obj{
			"/meta/health":           obj{"get": operation("Meta", "Health check")},
			"/meta/version":          obj{"get": operation("Meta", "Build and version info")},
			"/meta/service":          obj{"get": operation("Meta", "Service info and uptime")},
			"/verify/workers":        obj{"get": operation("Verify", "List investigation workers")},
			"/verify/workers/{name}": obj{"get": worker},
			"/verify":                obj{"post": verify},
			"/verify/stream":         obj{"post": stream},
		},
		"components": obj{"schemas": obj{"ErrorResponse": envelopeSchema()}},
	}
	addErrorResponses(doc)
	return doc
}

// envelopeSchema mirrors phttp.Envelope for failures
func envelopeSchema() obj {
	return obj{
		"type":     "object",
		"required": []any{"status_code", "status"},
		"properties": obj{
			"status_code": obj{"type": "integer", "format": "int32"},
			"status":      obj{"type": "string"},
			"code":        obj{"type": "integer", "format": "int32"},
			"error":       obj{"type": "string"},
			"field":       obj{"type": "string"},
			"request_id":  obj{"type": "string"},
		},
	}
}

func errorResponse(code perr.ErrorCode, msg string) obj {
	status := code.Status()
	return obj{
		"description": http.StatusText(status),
		"content": obj{"application/json": obj{
			"schema": obj{"$ref": "#/components/schemas/ErrorResponse"},
			"example": obj{
				"status_code": status,
				"status":      http.StatusText(status),
				"code":        code,
				"error":       msg,
				"request_id":  "579f33bf50b1/abc-000001",
			},
		}},
	}
}

// addErrorResponses gives every operation the failures any route can produce
func addErrorResponses(doc obj) {
	defaults := map[string]obj{
		"400": errorResponse(perr.ErrorCodeValidation, "content is a required field"),
		"500": errorResponse(perr.ErrorCodePanic, "panic recovered"),
	}
	for _, item := range doc["paths"].(obj) {
		for _, op := range item.(obj) {
			responses := op.(obj)["responses"].(obj)
			for status, resp := range defaults {
				if _, ok := responses[status]; !ok {
					responses[status] = resp
				}
			}
		}
	}
}

// docJSON is swapped in tests
var docJSON = func() ([]byte, error) { return json.Marshal(document()) }

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	b, err := docJSON()
	if err != nil {
		http.Error(w, "openapi document unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}
