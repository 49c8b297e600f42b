package application

import (
	"regexp"
	"strings"

	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// Field keys reported in ValidationError.FieldErrors.
const (
	FieldStaffID   = "staffId"
	FieldDayOfWeek = "dayOfWeek"
	FieldStartTime = "startTime"
	FieldEndTime   = "endTime"
	FieldStatus    = "status"
	// FieldTimeRange carries the end-after-start rule, which belongs to neither time alone.
	FieldTimeRange = "timeRange"
)

const (
	msgRequired     = "Pflichtfeld"
	msgTimePattern  = "Ungültiges Zeitformat (HH:MM)"
	msgTimeRange    = "Die Endzeit muss nach der Startzeit liegen"
	msgStatus       = "Unbekannter Status"
	msgDayOfWeek    = "Ungültiger Wochentag"
	msgStaffUnknown = "Unbekannte Mitarbeiterin oder unbekannter Mitarbeiter"
)

var clockPattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether value is a strict "HH:MM" clock time.
func ValidClock(value string) bool {
	return clockPattern.MatchString(value)
}

// ValidTimeRange reports whether end lies strictly after start. Both values must
// already be valid clock times.
func ValidTimeRange(start, end string) bool {
	s, err := timeofday.Parse(start)
	if err != nil {
		return false
	}
	e, err := timeofday.Parse(end)
	if err != nil {
		return false
	}
	return e > s
}

// ValidateEntryForm applies the required, pattern and time-range rules. It
// returns nil when the form is acceptable.
func ValidateEntryForm(form EntryForm) *ValidationError {
	vErr := &ValidationError{}

	if form.StaffID <= 0 {
		vErr.add(FieldStaffID, msgRequired)
	}

	switch {
	case form.Day == 0:
		vErr.add(FieldDayOfWeek, msgRequired)
	case !form.Day.Valid():
		vErr.add(FieldDayOfWeek, msgDayOfWeek)
	}

	vErr.merge(validateTimes(form.StartTime, form.EndTime))
	vErr.merge(validateStatus(form.Status))

	if !vErr.HasErrors() {
		return nil
	}
	return vErr
}

func validateTimes(start, end string) *ValidationError {
	vErr := &ValidationError{}
	startOK := checkClockField(vErr, FieldStartTime, start)
	endOK := checkClockField(vErr, FieldEndTime, end)
	if startOK && endOK && !ValidTimeRange(start, end) {
		vErr.add(FieldTimeRange, msgTimeRange)
	}
	return vErr
}

func checkClockField(vErr *ValidationError, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		vErr.add(field, msgRequired)
		return false
	}
	if !ValidClock(value) {
		vErr.add(field, msgTimePattern)
		return false
	}
	return true
}

func validateStatus(value string) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(value) == "" {
		vErr.add(FieldStatus, msgRequired)
		return vErr
	}
	if _, err := roster.ParseStatus(value); err != nil {
		vErr.add(FieldStatus, msgStatus)
	}
	return vErr
}

// normalizeEntryForm trims the form and rewrites "HH:MM:SS" clock values to
// "HH:MM". Values that do not parse are left alone for the pattern rule to reject.
func normalizeEntryForm(form EntryForm) EntryForm {
	form.StartTime = normalizeClock(form.StartTime)
	form.EndTime = normalizeClock(form.EndTime)
	form.Status = strings.ToUpper(strings.TrimSpace(form.Status))
	form.Notes = strings.TrimSpace(form.Notes)
	return form
}

func normalizeClock(value string) string {
	trimmed := strings.TrimSpace(value)
	if normalized, err := timeofday.Normalize(trimmed); err == nil {
		return normalized
	}
	return trimmed
}
