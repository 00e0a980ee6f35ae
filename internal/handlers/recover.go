package handlers

import (
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
)

// Recover turns handler panics into a logged 500 instead of a dropped connection.
func (h *Handlers) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			h.loggerFromContext(r.Context()).Error("panic while handling request",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
				hub.Recover(rec)
			} else {
				sentry.CurrentHub().Recover(rec)
			}
			writePlain(w, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}
