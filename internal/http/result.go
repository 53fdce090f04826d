package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
)

// Result is the success envelope: {"success":true,"data":...,"message":...}.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the error envelope: {"error":"..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func OkWithMessage[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

func Fail(message string) ErrorBody {
	return ErrorBody{Error: message}
}

// writeError maps err to its status. 5xx detail goes to the log only.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, Fail(apperr.PublicMessage(err)))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Fail("Method not allowed"))
}
