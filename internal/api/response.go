// Package api provides the HTTP surface for ExamMentor: plan generation,
// tutoring, quizzing, routing, and autopilot session control.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the uniform JSON envelope for API responses.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Success wraps a result payload.
func Success(result any) Response {
	return Response{Status: "ok", Result: result}
}

// SuccessWithMessage wraps a result payload with a human-readable note.
func SuccessWithMessage(message string, result any) Response {
	return Response{Status: "ok", Message: message, Result: result}
}

// Error builds an error envelope.
func Error(message string) Response {
	return Response{Status: "error", Message: message}
}

var fallbackErrorResponse = []byte(`{"status":"error","message":"Internal server error"}`)

// writeJSONResponse marshals response before touching headers so encoding
// failures can still produce a well-formed error body.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}
