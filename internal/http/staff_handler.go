package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/kita-dienstplan/internal/application"
)

type staffService interface {
	CreateStaff(ctx context.Context, input application.StaffInput) (application.Staff, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]application.Staff, error)
}

// StaffHandler lists and registers staff members.
type StaffHandler struct {
	service   staffService
	responder responder
	logger    *slog.Logger
}

func NewStaffHandler(service staffService, logger *slog.Logger) *StaffHandler {
	base := defaultLogger(logger)
	return &StaffHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StaffHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "StaffHandler", operation, attrs...)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode staff request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	staff, err := h.service.CreateStaff(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "staff creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("staff_id", staff.ID).InfoContext(r.Context(), "staff created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, staffResponse{Staff: toStaffDTO(staff)})
}

// List returns active staff; ?all=true includes inactive members.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activeOnly := true
	if raw := strings.TrimSpace(r.URL.Query().Get("all")); raw != "" {
		all, err := strconv.ParseBool(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAllFlag)
			return
		}
		activeOnly = !all
	}

	staff, err := h.service.ListStaff(r.Context(), activeOnly)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "List").With("result_count", len(staff)).DebugContext(r.Context(), "staff listed")
	out := make([]staffDTO, 0, len(staff))
	for _, s := range staff {
		out = append(out, toStaffDTO(s))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStaffResponse{Staff: out})
}

type staffRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Trainee   bool   `json:"trainee"`
}

func (r staffRequest) toInput() application.StaffInput {
	return application.StaffInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Role:      strings.TrimSpace(r.Role),
		Trainee:   r.Trainee,
	}
}

type staffResponse struct {
	Staff staffDTO `json:"staff"`
}

type listStaffResponse struct {
	Staff []staffDTO `json:"staff"`
}

type staffDTO struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Trainee     bool   `json:"trainee"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
}

func toStaffDTO(s application.Staff) staffDTO {
	return staffDTO{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		DisplayName: s.DisplayName(),
		Role:        s.Role,
		Trainee:     s.Trainee,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
