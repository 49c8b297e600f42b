package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/export"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var week3 = calendar.WeekID{Year: 2024, Week: 3}

func sampleEntries() []roster.Entry {
	return []roster.Entry{
		{
			ID: "e1", PeriodID: "p1", StaffID: 1, StaffName: "Anna Schmidt", StaffRole: "Erzieherin",
			Day: calendar.Monday, WorkDate: week3.Date(calendar.Monday),
			Start: timeofday.MustParse("08:00"), End: timeofday.MustParse("16:00"), Status: roster.StatusNormal,
		},
		{
			ID: "e2", PeriodID: "p1", StaffID: 2, StaffName: "Ben Albers", StaffRole: "Praktikant", Trainee: true,
			Day: calendar.Monday, WorkDate: week3.Date(calendar.Monday),
			Start: timeofday.MustParse("08:00"), End: timeofday.MustParse("16:00"), Status: roster.StatusFree,
		},
	}
}

type fakeWeeks struct {
	current calendar.WeekID
	err     error
	at      timeofday.Minutes
}

func (f *fakeWeeks) CurrentWeek() calendar.WeekID { return f.current }

func (f *fakeWeeks) WeekView(_ context.Context, week calendar.WeekID) (application.WeekView, error) {
	if f.err != nil {
		return application.WeekView{}, f.err
	}
	entries := sampleEntries()
	return application.WeekView{
		Week: week, Dates: week.Dates(), Days: week.Days(), Previous: week.Previous(), Next: week.Next(),
		Period: &application.WeeklyPeriod{ID: "p1", Week: week},
		Rows:   roster.BuildGrid(entries, nil),
		Totals: roster.DailyTotals(entries),
	}, nil
}

func (f *fakeWeeks) StaffTotals(_ context.Context, _ calendar.WeekID) ([]roster.StaffTotal, error) {
	return roster.StaffTotals(sampleEntries(), nil), f.err
}

func (f *fakeWeeks) WorkingAt(_ context.Context, date calendar.Date, at timeofday.Minutes) ([]roster.Entry, error) {
	f.at = at
	return roster.WorkingAt(sampleEntries(), date, at, nil), f.err
}

func (f *fakeWeeks) CoverageDuring(_ context.Context, date calendar.Date, start, end timeofday.Minutes) ([]roster.Entry, error) {
	if end <= start {
		return nil, &application.ValidationError{FieldErrors: map[string]string{application.FieldTimeRange: "invalid"}}
	}
	return roster.CoverageDuring(sampleEntries(), date.Weekday(), start, end, nil), f.err
}

type fakeEntries struct {
	createErr error
	updateErr error
	deleteErr error
	created   []application.CreateEntryParams
	updated   []application.UpdateEntryParams
	deleted   []string
}

func (f *fakeEntries) CreateEntry(_ context.Context, params application.CreateEntryParams) (roster.Entry, error) {
	if f.createErr != nil {
		return roster.Entry{}, f.createErr
	}
	if verr := application.ValidateEntryForm(params.Form); verr != nil {
		return roster.Entry{}, verr
	}
	f.created = append(f.created, params)
	return roster.Entry{
		ID: "new", StaffID: params.Form.StaffID, Day: params.Form.Day,
		WorkDate: params.Week.Date(params.Form.Day),
		Start:    timeofday.MustParse(params.Form.StartTime), End: timeofday.MustParse(params.Form.EndTime),
		Status: roster.Status(params.Form.Status),
	}, nil
}

func (f *fakeEntries) UpdateEntry(_ context.Context, params application.UpdateEntryParams) (roster.Entry, error) {
	f.updated = append(f.updated, params)
	return sampleEntries()[0], f.updateErr
}

func (f *fakeEntries) DeleteEntry(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeStaff struct {
	list       []application.Staff
	activeOnly bool
	err        error
}

func (f *fakeStaff) CreateStaff(_ context.Context, input application.StaffInput) (application.Staff, error) {
	if f.err != nil {
		return application.Staff{}, f.err
	}
	return application.Staff{ID: 7, FirstName: input.FirstName, LastName: input.LastName, Role: input.Role, Active: true}, nil
}

func (f *fakeStaff) ListStaff(_ context.Context, activeOnly bool) ([]application.Staff, error) {
	f.activeOnly = activeOnly
	return f.list, f.err
}

type harness struct {
	weeks   *fakeWeeks
	entries *fakeEntries
	staff   *fakeStaff
	handler http.Handler
}

func newHarness() *harness {
	h := &harness{
		weeks:   &fakeWeeks{current: week3},
		entries: &fakeEntries{},
		staff:   &fakeStaff{},
	}
	h.handler = NewRouter(RouterConfig{
		Weeks:   NewWeekHandler(h.weeks, quietLogger),
		Entries: NewEntryHandler(h.entries, quietLogger),
		Staff:   NewStaffHandler(h.staff, quietLogger),
	})
	return h
}

func (h *harness) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestWeekHandlers(t *testing.T) {
	t.Parallel()

	t.Run("renders the grid of a week", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/weeks/2024/3", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[weekDTO](t, rec)
		assert.Equal(t, "2024-W03", got.Week)
		assert.Equal(t, "2024-01-15", got.StartDate)
		assert.Equal(t, "2024-01-21", got.EndDate)
		assert.Equal(t, "2024-W02", got.Previous)
		assert.Equal(t, "2024-W04", got.Next)
		assert.Equal(t, "p1", got.PeriodID)
		require.Len(t, got.Days, 7)
		assert.Equal(t, "Montag", got.Days[0].Name)
		assert.Equal(t, "15.01.2024", got.Days[0].Display)

		require.Len(t, got.Rows, 2)
		assert.Equal(t, "Anna Schmidt", got.Rows[0].DisplayName)
		require.Len(t, got.Rows[0].Cells, 5)
		require.NotNil(t, got.Rows[0].Cells[0])
		assert.Equal(t, "08:00–16:00", got.Rows[0].Cells[0].Text)
		assert.Equal(t, "normal", got.Rows[0].Cells[0].StatusClass)
		assert.Nil(t, got.Rows[0].Cells[1])
		assert.Equal(t, "FREI", got.Rows[1].Cells[0].Text)
		assert.Equal(t, "7:30", got.Totals[0].Hours)
	})

	t.Run("current week uses the service clock", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.weeks.current = calendar.WeekID{Year: 2020, Week: 53}

		rec := h.do(t, http.MethodGet, "/weeks/current", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2021-W01", decode[weekDTO](t, rec).Next)
	})

	t.Run("rejects malformed and impossible weeks", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/weeks/abc/3", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = h.do(t, http.MethodGet, "/weeks/2021/53", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "validation", decode[errorResponse](t, rec).ErrorCode)
	})

	t.Run("persistence failures answer 500 without details", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.weeks.err = &application.PersistenceError{Op: "find period", Week: week3, Err: fmt.Errorf("disk I/O error")}

		rec := h.do(t, http.MethodGet, "/weeks/2024/3", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "persistence", resp.ErrorCode)
		assert.NotContains(t, resp.Message, "disk")
	})

	t.Run("totals", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/weeks/2024/3/totals", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[totalsResponse](t, rec)
		require.Len(t, got.Days, 5)
		assert.Equal(t, 1, got.Days[0].Staff, "FREI does not count")
		assert.Equal(t, 1, got.Days[0].StaffWithoutTrainees)
		require.Len(t, got.Staff, 2)
		assert.Equal(t, "7:30", got.Staff[0].Working)
		assert.Equal(t, "0:30", got.Staff[0].Break)
		assert.Equal(t, 1, got.Staff[1].Days["FREI"])
	})

	t.Run("export returns a workbook", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/weeks/2024/3/export.xlsx", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "dienstplan-2024-W03.xlsx")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})

	t.Run("working at a moment", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/working?date=2024-01-15&time=16:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[workingResponse](t, rec)
		require.Len(t, got.Entries, 1, "end minute is inclusive, FREI is not working")
		assert.Equal(t, "Anna Schmidt", got.Entries[0].StaffName)
		assert.Equal(t, timeofday.MustParse("16:00"), h.weeks.at)

		rec = h.do(t, http.MethodGet, "/working?date=2024-02-30&time=12:00", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "format", decode[errorResponse](t, rec).ErrorCode)

		rec = h.do(t, http.MethodGet, "/working?date=2024-01-15&time=7:00", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("coverage of an interval", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodGet, "/working?date=2024-01-15&time=15:00&until=17:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[workingResponse](t, rec)
		assert.Equal(t, "17:00", got.Until)
		require.Len(t, got.Entries, 1)
		assert.Equal(t, "Anna Schmidt", got.Entries[0].StaffName)

		rec = h.do(t, http.MethodGet, "/working?date=2024-01-15&time=16:00&until=17:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[workingResponse](t, rec).Entries, "shift ending at 16:00 does not cover [16:00,17:00)")

		rec = h.do(t, http.MethodGet, "/working?date=2024-01-15&time=15:00&until=14:00", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "validation", decode[errorResponse](t, rec).ErrorCode)
	})
}

func TestEntryHandlers(t *testing.T) {
	t.Parallel()

	valid := map[string]any{
		"week": "2024-W03", "staffId": 1, "dayOfWeek": 1,
		"startTime": "08:00", "endTime": "16:00", "status": "NORMAL",
	}

	t.Run("creates an entry", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPost, "/entries", valid)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		got := decode[entryResponse](t, rec)
		assert.Equal(t, "2024-01-15", got.Entry.WorkDate)
		assert.Equal(t, 1, got.Entry.DayOfWeek)
		require.Len(t, h.entries.created, 1)
		assert.Equal(t, week3, h.entries.created[0].Week)
		assert.Equal(t, calendar.Monday, h.entries.created[0].Form.Day)
	})

	t.Run("returns field errors", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPost, "/entries", map[string]any{
			"week": "2024-W03", "staffId": 1, "dayOfWeek": 1,
			"startTime": "16:00", "endTime": "08:00", "status": "NORMAL",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "Die Endzeit muss nach der Startzeit liegen", resp.Errors["timeRange"])
	})

	t.Run("maps service errors", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			err    error
			status int
		}{
			{application.ErrAlreadyExists, http.StatusConflict},
			{application.ErrPeriodMissing, http.StatusNotFound},
			{&application.PersistenceError{Op: "create period", Err: application.ErrPeriodMissing}, http.StatusInternalServerError},
			{fmt.Errorf("boom"), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			h := newHarness()
			h.entries.createErr = tc.err
			rec := h.do(t, http.MethodPost, "/entries", valid)
			assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		}
	})

	t.Run("rejects malformed bodies and weeks", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPost, "/entries", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = h.do(t, http.MethodPost, "/entries", map[string]any{"week": "2024-3"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, h.entries.created)
	})

	t.Run("patches only the given fields", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPatch, "/entries/e1", map[string]any{"endTime": "17:00"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, h.entries.updated, 1)
		patch := h.entries.updated[0]
		assert.Equal(t, "e1", patch.EntryID)
		require.NotNil(t, patch.Patch.EndTime)
		assert.Equal(t, "17:00", *patch.Patch.EndTime)
		assert.Nil(t, patch.Patch.StartTime)
		assert.Nil(t, patch.Patch.Status)
	})

	t.Run("deletes", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodDelete, "/entries/e1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"e1"}, h.entries.deleted)

		h.entries.deleteErr = application.ErrNotFound
		rec = h.do(t, http.MethodDelete, "/entries/e9", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown methods are refused", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPut, "/entries/e1", "{}")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStaffHandlers(t *testing.T) {
	t.Parallel()

	t.Run("lists active staff by default", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.staff.list = []application.Staff{{ID: 1, FirstName: "Anna", LastName: "Schmidt", Active: true}}

		rec := h.do(t, http.MethodGet, "/staff", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, h.staff.activeOnly)
		got := decode[listStaffResponse](t, rec)
		require.Len(t, got.Staff, 1)
		assert.Equal(t, "Anna Schmidt", got.Staff[0].DisplayName)

		rec = h.do(t, http.MethodGet, "/staff?all=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, h.staff.activeOnly)

		rec = h.do(t, http.MethodGet, "/staff?all=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("creates staff", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		rec := h.do(t, http.MethodPost, "/staff", map[string]any{"firstName": " Clara ", "lastName": "Weber", "role": "Leitung"})
		require.Equal(t, http.StatusCreated, rec.Code)
		got := decode[staffResponse](t, rec)
		assert.Equal(t, int64(7), got.Staff.ID)
		assert.Equal(t, "Clara", got.Staff.FirstName)

		h.staff.err = application.ErrAlreadyExists
		rec = h.do(t, http.MethodPost, "/staff", map[string]any{"firstName": "Clara", "lastName": "Weber", "role": "Leitung"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
