package handlers

import (
	"fmt"
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/ics"
	"github.com/HndrkDrs/WeekWise/internal/service"
)

// Calendar serves the iCalendar feed. domain is the UID suffix; when empty
// the request host is used.
func Calendar(p *service.Planner, domain string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := ics.Options{Domain: domain}
		if opts.Domain == "" {
			opts.Domain = requestHost(r)
		}

		feed := p.Feed(r.Context(), ics.ParseQuery(r.URL.Query()), opts)

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")
		if feed.Filename != "" {
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, feed.Filename))
		}
		w.WriteHeader(feed.Status)
		w.Write([]byte(feed.Body))
	}
}

// requestHost is the Host header as sent, port included.
func requestHost(r *http.Request) string {
	if r.Host == "" {
		return ics.DefaultDomain
	}
	return r.Host
}
