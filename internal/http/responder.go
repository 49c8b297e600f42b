package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/logging"
)

var (
	errBadRequestBody = errors.New("Ungültiges Anfrageformat.")
	errInvalidWeekRef = errors.New("Jahr und Kalenderwoche müssen Zahlen sein.")
	errInvalidAllFlag = errors.New("Der Parameter all muss true oder false sein.")
	errMissingEntryID = errors.New("Eintrags-ID fehlt.")
	errTooManyRequest = errors.New("Zu viele Anfragen. Bitte kurz warten.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError answers with the status belonging to the error's kind.
// Details of persistence and unexpected failures stay in the log.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	kind := application.ErrorKind(err)
	status := statusForKind(kind)
	resp := errorResponse{ErrorCode: kind, Message: localizedStatusMessage(status)}

	switch kind {
	case "validation", "format":
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			resp.Errors = vErr.FieldErrors
		}
	case "not_found":
		resp.Message = "Der angeforderte Eintrag wurde nicht gefunden."
	case "already_exists":
		resp.Message = "Für diese Person gibt es an diesem Tag bereits einen Eintrag."
	case "dependency_missing":
		resp.Message = "Für diese Woche wurde noch kein Dienstplan angelegt."
	}

	if status >= http.StatusInternalServerError {
		r.loggerFor(ctx).ErrorContext(ctx, "service failure", "error", err, "error_kind", kind)
	}
	r.writeJSON(ctx, w, status, resp)
}

func statusForKind(kind string) int {
	switch kind {
	case "validation", "format":
		return http.StatusUnprocessableEntity
	case "not_found", "dependency_missing":
		return http.StatusNotFound
	case "already_exists":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Die Anfrage ist ungültig."
	case http.StatusNotFound:
		return "Die angeforderte Ressource wurde nicht gefunden."
	case http.StatusConflict:
		return "Die Anfrage steht im Konflikt mit dem aktuellen Stand."
	case http.StatusUnprocessableEntity:
		return "Die Eingaben sind fehlerhaft."
	case http.StatusTooManyRequests:
		return "Zu viele Anfragen."
	default:
		return "Beim Speichern ist ein interner Fehler aufgetreten. Bitte später erneut versuchen."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"errorCode,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
