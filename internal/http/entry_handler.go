package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

type entryService interface {
	CreateEntry(ctx context.Context, params application.CreateEntryParams) (roster.Entry, error)
	UpdateEntry(ctx context.Context, params application.UpdateEntryParams) (roster.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// EntryHandler creates, updates and deletes schedule entries.
type EntryHandler struct {
	service   entryService
	responder responder
	logger    *slog.Logger
}

func NewEntryHandler(service entryService, logger *slog.Logger) *EntryHandler {
	base := defaultLogger(logger)
	return &EntryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EntryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EntryHandler", operation, attrs...)
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode entry request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	week, err := calendar.ParseWeekID(strings.TrimSpace(req.Week))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "week", week.String(), "staff_id", req.StaffID)
	entry, err := h.service.CreateEntry(r.Context(), application.CreateEntryParams{Week: week, Form: req.toForm()})
	if err != nil {
		logger.WarnContext(r.Context(), "entry creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("entry_id", entry.ID).InfoContext(r.Context(), "entry created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, entryResponse{Entry: toEntryDTO(entry)})
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingEntryID)
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "entry_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode entry update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "entry_id", id)
	entry, err := h.service.UpdateEntry(r.Context(), application.UpdateEntryParams{
		EntryID: id,
		Patch: application.EntryPatch{
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    req.Status,
			Notes:     req.Notes,
		},
	})
	if err != nil {
		logger.WarnContext(r.Context(), "entry update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry)})
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingEntryID)
		return
	}

	logger := h.log(r.Context(), "Delete", "entry_id", id)
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		logger.WarnContext(r.Context(), "entry delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// createEntryRequest uses the field names of the validation errors so that
// clients can attach messages directly. DayOfWeek is ISO, Monday=1.
type createEntryRequest struct {
	Week      string `json:"week"`
	StaffID   int64  `json:"staffId"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

func (r createEntryRequest) toForm() application.EntryForm {
	return application.EntryForm{
		StaffID:   r.StaffID,
		Day:       calendar.DayOfWeek(r.DayOfWeek),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    r.Status,
		Notes:     r.Notes,
	}
}

type updateEntryRequest struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type entryResponse struct {
	Entry entryDTO `json:"entry"`
}

type entryDTO struct {
	ID        string `json:"id"`
	PeriodID  string `json:"periodId,omitempty"`
	StaffID   int64  `json:"staffId"`
	StaffName string `json:"staffName"`
	DayOfWeek int    `json:"dayOfWeek"`
	WorkDate  string `json:"workDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

func toEntryDTO(e roster.Entry) entryDTO {
	return entryDTO{
		ID:        e.ID,
		PeriodID:  e.PeriodID,
		StaffID:   e.StaffID,
		StaffName: e.StaffName,
		DayOfWeek: int(e.Day),
		WorkDate:  e.WorkDate.String(),
		StartTime: timeofday.FormatPadded(e.Start),
		EndTime:   timeofday.FormatPadded(e.End),
		Status:    string(e.Status),
		Notes:     e.Notes,
	}
}

func toEntryDTOs(entries []roster.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out
}
