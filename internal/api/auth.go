package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"greenbier/grader/internal/metrics"

	"github.com/rs/zerolog/hlog"
)

// RequireTrigger admits requests carrying the trusted scheduler header, or a
// bearer token equal to the cron secret. The header's presence alone is enough
// only when neither SchedulerHeaderValue nor CronSecret is configured.
func RequireTrigger(auth Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.authorized(r) {
				next.ServeHTTP(w, r)
				return
			}
			metrics.RecordError("api", "unauthorized")
			hlog.FromRequest(r).Warn().
				Str("path", r.URL.Path).
				Msg("Rejected unauthorized trigger")
			respondError(w, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func (a Auth) authorized(r *http.Request) bool {
	if a.SchedulerHeader != "" {
		if v := r.Header.Get(a.SchedulerHeader); v != "" {
			switch {
			case a.SchedulerHeaderValue != "":
				if secureEqual(v, a.SchedulerHeaderValue) {
					return true
				}
			case a.CronSecret == "":
				return true
			}
		}
	}

	if a.CronSecret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && secureEqual(strings.TrimSpace(token), a.CronSecret)
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
