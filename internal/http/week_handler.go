package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/export"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

type weekService interface {
	CurrentWeek() calendar.WeekID
	WeekView(ctx context.Context, week calendar.WeekID) (application.WeekView, error)
	StaffTotals(ctx context.Context, week calendar.WeekID) ([]roster.StaffTotal, error)
	WorkingAt(ctx context.Context, date calendar.Date, at timeofday.Minutes) ([]roster.Entry, error)
	CoverageDuring(ctx context.Context, date calendar.Date, start, end timeofday.Minutes) ([]roster.Entry, error)
}

// WeekHandler serves the weekly grid, its totals and the spreadsheet export.
type WeekHandler struct {
	service   weekService
	responder responder
	logger    *slog.Logger
}

func NewWeekHandler(service weekService, logger *slog.Logger) *WeekHandler {
	base := defaultLogger(logger)
	return &WeekHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *WeekHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "WeekHandler", operation, attrs...)
}

func (h *WeekHandler) Current(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderWeek(w, r, h.service.CurrentWeek())
}

func (h *WeekHandler) Show(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	week, ok := h.weekFromPath(w, r)
	if !ok {
		return
	}
	h.renderWeek(w, r, week)
}

func (h *WeekHandler) renderWeek(w http.ResponseWriter, r *http.Request, week calendar.WeekID) {
	view, err := h.service.WeekView(r.Context(), week)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "Show", "week", week.String()).
		DebugContext(r.Context(), "week rendered", "rows", len(view.Rows))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWeekDTO(view))
}

func (h *WeekHandler) Totals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	week, ok := h.weekFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.service.WeekView(r.Context(), week)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	staff, err := h.service.StaffTotals(r.Context(), week)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := totalsResponse{Week: week.String(), Days: toDayTotalDTOs(view.Totals), Staff: make([]staffTotalDTO, 0, len(staff))}
	for _, t := range staff {
		resp.Staff = append(resp.Staff, toStaffTotalDTO(t))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *WeekHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	week, ok := h.weekFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.service.WeekView(r.Context(), week)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWeek(&buf, view); err != nil {
		h.log(r.Context(), "Export", "week", week.String()).ErrorContext(r.Context(), "export failed", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(week)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *WeekHandler) WorkingAt(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	date, err := calendar.ParseISO(strings.TrimSpace(query.Get("date")))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	at, err := timeofday.Parse(strings.TrimSpace(query.Get("time")))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := workingResponse{Date: date.String(), Time: timeofday.FormatPadded(at)}
	var entries []roster.Entry
	if raw := strings.TrimSpace(query.Get("until")); raw != "" {
		until, parseErr := timeofday.Parse(raw)
		if parseErr != nil {
			h.responder.handleServiceError(r.Context(), w, parseErr)
			return
		}
		resp.Until = timeofday.FormatPadded(until)
		entries, err = h.service.CoverageDuring(r.Context(), date, at, until)
	} else {
		entries, err = h.service.WorkingAt(r.Context(), date, at)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	resp.Entries = toEntryDTOs(entries)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *WeekHandler) weekFromPath(w http.ResponseWriter, r *http.Request) (calendar.WeekID, bool) {
	year, yErr := strconv.Atoi(r.PathValue("year"))
	number, wErr := strconv.Atoi(r.PathValue("week"))
	if yErr != nil || wErr != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWeekRef)
		return calendar.WeekID{}, false
	}
	week := calendar.WeekID{Year: year, Week: number}
	if err := week.Validate(); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return calendar.WeekID{}, false
	}
	return week, true
}

type dayDTO struct {
	Date      string `json:"date"`
	Day       int    `json:"dayOfWeek"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Display   string `json:"display"`
}

type cellDTO struct {
	EntryID     string `json:"entryId"`
	Text        string `json:"text"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
	WorkHours   string `json:"workHours,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type rowDTO struct {
	StaffID     int64      `json:"staffId"`
	DisplayName string     `json:"displayName"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Initials    string     `json:"initials"`
	Role        string     `json:"role"`
	Trainee     bool       `json:"trainee"`
	WorkedHours string     `json:"workedHours"`
	Cells       []*cellDTO `json:"cells"`
}

type dayTotalDTO struct {
	Day                  int    `json:"dayOfWeek"`
	Hours                string `json:"hours"`
	HoursWithoutTrainees string `json:"hoursWithoutTrainees"`
	Staff                int    `json:"staff"`
	StaffWithoutTrainees int    `json:"staffWithoutTrainees"`
}

type weekDTO struct {
	Week      string        `json:"week"`
	Year      int           `json:"year"`
	Number    int           `json:"weekNumber"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Previous  string        `json:"previous"`
	Next      string        `json:"next"`
	PeriodID  string        `json:"periodId,omitempty"`
	Days      []dayDTO      `json:"days"`
	Rows      []rowDTO      `json:"rows"`
	Totals    []dayTotalDTO `json:"totals"`
}

type staffTotalDTO struct {
	StaffID     int64          `json:"staffId"`
	DisplayName string         `json:"displayName"`
	Trainee     bool           `json:"trainee"`
	Working     string         `json:"working"`
	Break       string         `json:"break"`
	Days        map[string]int `json:"days"`
}

type totalsResponse struct {
	Week  string          `json:"week"`
	Days  []dayTotalDTO   `json:"days"`
	Staff []staffTotalDTO `json:"staff"`
}

type workingResponse struct {
	Date    string     `json:"date"`
	Time    string     `json:"time"`
	Until   string     `json:"until,omitempty"`
	Entries []entryDTO `json:"entries"`
}

func toWeekDTO(view application.WeekView) weekDTO {
	dto := weekDTO{
		Week:      view.Week.String(),
		Year:      view.Week.Year,
		Number:    view.Week.Week,
		StartDate: view.Dates.Start,
		EndDate:   view.Dates.End,
		Previous:  view.Previous.String(),
		Next:      view.Next.String(),
		Days:      make([]dayDTO, 0, len(view.Days)),
		Rows:      make([]rowDTO, 0, len(view.Rows)),
		Totals:    toDayTotalDTOs(view.Totals),
	}
	if view.Period != nil {
		dto.PeriodID = view.Period.ID
	}
	for _, d := range view.Days {
		day := d.Weekday()
		dto.Days = append(dto.Days, dayDTO{
			Date:      d.String(),
			Day:       int(day),
			Name:      day.GermanName(false),
			ShortName: day.GermanName(true),
			Display:   d.GermanFormat(),
		})
	}
	for _, row := range view.Rows {
		r := rowDTO{
			StaffID:     row.StaffID,
			DisplayName: row.DisplayName,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Initials:    row.Initials,
			Role:        row.Role,
			Trainee:     row.Trainee,
			WorkedHours: timeofday.FormatHours(row.WorkedMinutes()),
			Cells:       make([]*cellDTO, len(row.Slots)),
		}
		for i, cell := range row.Slots {
			if cell == nil {
				continue
			}
			r.Cells[i] = &cellDTO{
				EntryID:     cell.Entry.ID,
				Text:        cell.Text,
				Status:      string(cell.Entry.Status),
				StatusClass: cell.StatusClass,
				WorkHours:   cell.WorkHours,
				Notes:       cell.Entry.Notes,
			}
		}
		dto.Rows = append(dto.Rows, r)
	}
	return dto
}

func toDayTotalDTOs(totals [len(calendar.Workdays)]roster.DayTotal) []dayTotalDTO {
	out := make([]dayTotalDTO, 0, len(totals))
	for _, t := range totals {
		out = append(out, dayTotalDTO{
			Day:                  int(t.Day),
			Hours:                timeofday.FormatHours(t.Minutes),
			HoursWithoutTrainees: timeofday.FormatHours(t.MinutesWithoutTrainees),
			Staff:                t.Staff,
			StaffWithoutTrainees: t.StaffWithoutTrainees,
		})
	}
	return out
}

func toStaffTotalDTO(t roster.StaffTotal) staffTotalDTO {
	days := make(map[string]int, len(t.Days))
	for status, n := range t.Days {
		days[string(status)] = n
	}
	return staffTotalDTO{
		StaffID:     t.StaffID,
		DisplayName: t.DisplayName,
		Trainee:     t.Trainee,
		Working:     timeofday.FormatHours(t.Working),
		Break:       timeofday.FormatHours(t.Break),
		Days:        days,
	}
}
