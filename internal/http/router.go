package http

import (
	"net/http"
)

// RouterConfig collects the handlers and the middleware chain. Nil handlers
// leave their routes unregistered.
type RouterConfig struct {
	Weeks      *WeekHandler
	Entries    *EntryHandler
	Staff      *StaffHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter registers all routes. Middleware is applied in order, the first
// element being the outermost.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Weeks != nil {
		mux.HandleFunc("GET /weeks/current", cfg.Weeks.Current)
		mux.HandleFunc("GET /weeks/{year}/{week}", cfg.Weeks.Show)
		mux.HandleFunc("GET /weeks/{year}/{week}/totals", cfg.Weeks.Totals)
		mux.HandleFunc("GET /weeks/{year}/{week}/export.xlsx", cfg.Weeks.Export)
		mux.HandleFunc("GET /working", cfg.Weeks.WorkingAt)
	}

	if cfg.Entries != nil {
		mux.HandleFunc("POST /entries", cfg.Entries.Create)
		mux.HandleFunc("PATCH /entries/{id}", cfg.Entries.Update)
		mux.HandleFunc("DELETE /entries/{id}", cfg.Entries.Delete)
	}

	if cfg.Staff != nil {
		mux.HandleFunc("GET /staff", cfg.Staff.List)
		mux.HandleFunc("POST /staff", cfg.Staff.Create)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
