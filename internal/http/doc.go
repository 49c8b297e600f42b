// Package http exposes the weekly roster over a JSON API.
//
// The router serves the following endpoints:
//   - GET /weeks/current and GET /weeks/{year}/{week}: the staff × weekday grid
//     of one ISO week together with its dates, the neighbouring weeks and the
//     daily totals (weekDTO in week_handler.go).
//   - GET /weeks/{year}/{week}/totals: daily and per-staff totals.
//   - GET /weeks/{year}/{week}/export.xlsx: the week as a spreadsheet.
//   - POST /entries, PATCH /entries/{id}, DELETE /entries/{id}: entry management
//     exchanging entryDTO (entry_handler.go). Validation failures answer 422 with
//     German messages keyed by field name.
//   - GET /staff, POST /staff: the staff directory (staff_handler.go).
//   - GET /working?date=YYYY-MM-DD&time=HH:MM: who is on shift at that moment.
//
// Weekdays are always ISO numbers (Monday=1) on the wire; the storage
// convention is an adapter concern.
package http
