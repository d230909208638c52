// Package ics renders bookings as an iCalendar (RFC 5545) subscription feed.
package ics

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

const (
	// TZID is the only time zone the feed uses.
	TZID = "Europe/Berlin"

	ProdID          = "-//WeekWise//ICS//DE"
	ProdIDForbidden = "-//WeekWise//Forbidden//DE"
	ProdIDError     = "-//WeekWise//Error//DE"

	// ExpiredName is the calendar name shown for a revoked token.
	ExpiredName = "Abo abgelaufen"

	// DefaultDomain is the UID suffix when no host is known.
	DefaultDomain = "weekwise.local"

	defaultTitle = "WeekWise"
	defaultStart = "08:00"
	defaultEnd   = "09:00"
)

// Query holds the feed request parameters.
type Query struct {
	Token    string
	Category string
	Days     []int
	Hide     []int
	Download bool
}

// ParseQuery reads feed parameters. Day lists are parsed leniently: every
// entry is read as a leading integer and only values >= 1 are kept.
func ParseQuery(q url.Values) Query {
	return Query{
		Token:    strings.TrimSpace(q.Get("token")),
		Category: strings.ToLower(strings.TrimSpace(q.Get("category"))),
		Days:     parseIntList(q.Get("day")),
		Hide:     parseIntList(q.Get("hide")),
		Download: q.Get("download") == "true",
	}
}

func parseIntList(s string) []int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n := leadingInt(strings.TrimSpace(part)); n >= 1 {
			out = append(out, n)
		}
	}
	return out
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Options are the request-independent generator inputs.
type Options struct {
	// Domain is the UID suffix.
	Domain string
	// Now stamps DTSTAMP.
	Now time.Time
}

// Feed is a rendered calendar response.
type Feed struct {
	Status int
	Body   string
	// Filename is set when the caller should send an attachment disposition.
	Filename string
}

// Generate renders the feed for the given state. It never fails: access
// problems are reported as valid calendars with a telling name.
func Generate(s *models.Settings, bookings []models.Booking, q Query, opts Options) Feed {
	if q.Token != "" && !planner.ValidToken(s, q.Token) {
		cal := newCalendar(ProdID)
		cal.SetXWRCalName(ExpiredName)
		return Feed{Status: http.StatusOK, Body: serialize(cal)}
	}
	if q.Token == "" && !s.ICSPublic {
		return Feed{Status: http.StatusForbidden, Body: serialize(newCalendar(ProdIDForbidden))}
	}

	domain := opts.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	title := s.Title
	if title == "" {
		title = defaultTitle
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := newCalendar(ProdID)
	cal.SetXWRCalName(title)
	cal.SetXWRTimezone(TZID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)
	addTimezone(cal)

	names := make(map[string]string, len(s.BookingColors))
	for _, c := range s.BookingColors {
		names[c.ID] = c.Name
	}
	if _, ok := names[models.DefaultCategoryID]; !ok {
		names[models.DefaultCategoryID] = planner.DefaultCategoryName
	}

	dayCount := planner.DayCount(s)
	for idx, b := range bookings {
		if !include(b, q, names, dayCount) {
			continue
		}
		addEvent(cal, s, b, idx, domain, names, now)
	}

	feed := Feed{Status: http.StatusOK, Body: serialize(cal)}
	if q.Download {
		feed.Filename = Filename(title)
	}
	return feed
}

// ErrorFeed is served when the stored documents are missing or unreadable.
func ErrorFeed() Feed {
	return Feed{Status: http.StatusOK, Body: serialize(newCalendar(ProdIDError))}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Filename derives the download name from the calendar title.
func Filename(title string) string {
	if title == "" {
		title = defaultTitle
	}
	return unsafeFilename.ReplaceAllString(title, "_") + ".ics"
}

func include(b models.Booking, q Query, names map[string]string, dayCount int) bool {
	if !b.Scheduled() || b.Day > dayCount {
		return false
	}
	if len(q.Days) > 0 && !containsInt(q.Days, b.Day) {
		return false
	}
	if containsInt(q.Hide, b.Day) {
		return false
	}
	if q.Category != "" {
		id := b.Category()
		if strings.ToLower(names[id]) != q.Category && strings.ToLower(id) != q.Category {
			return false
		}
	}
	return true
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func newCalendar(prodID string) *ical.Calendar {
	cal := ical.NewCalendarFor("WeekWise")
	cal.SetProductId(prodID)
	return cal
}

func serialize(cal *ical.Calendar) string {
	return cal.Serialize(ical.WithNewLineWindows)
}

func addEvent(cal *ical.Calendar, s *models.Settings, b models.Booking, idx int, domain string, names map[string]string, now time.Time) {
	ev := cal.AddEvent(UID(b, idx, domain))
	ev.SetDtStampTime(now)

	startH, startM := clockParts(b.StartTime, defaultStart)
	endH, endM := clockParts(b.EndTime, defaultEnd)

	var (
		date time.Time
		rule string
	)
	if s.IsEventMode() && s.EventStartDate != "" {
		if d, err := planner.DayDate(s.EventStartDate, b.Day); err == nil {
			date = d
		}
	}
	if date.IsZero() {
		date, rule = weeklyOccurrence(b.Day)
	}

	ev.SetProperty(ical.ComponentPropertyDtStart, localTime(date, startH, startM), ical.WithTZID(TZID))
	ev.SetProperty(ical.ComponentPropertyDtEnd, localTime(date, endH, endM), ical.WithTZID(TZID))
	if rule != "" {
		ev.AddRrule(rule)
	}

	ev.SetSummary(text(b.Title))
	if b.Location != "" {
		ev.SetLocation(text(b.Location))
	}
	if desc := Description(b); desc != "" {
		ev.SetDescription(desc)
	}
	if b.Link != "" {
		ev.SetURL(b.Link)
	}
	if id := b.Category(); id != models.DefaultCategoryID {
		if name, ok := names[id]; ok {
			ev.AddCategory(text(name))
		}
	}
}

// Description joins the free-text fields of a booking into one block.
func Description(b models.Booking) string {
	var parts []string
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	if b.Trainer != "" {
		parts = append(parts, "Trainer: "+strings.ReplaceAll(text(b.Trainer), "\n", ", "))
	}
	if b.Contact != "" {
		parts = append(parts, "Kontakt: "+b.Contact)
	}
	if b.Link != "" {
		parts = append(parts, "Link: "+b.Link)
	}
	return text(strings.Join(parts, "\n"))
}

// UID returns the stable event identity of a booking. Bookings without an id
// get a content hash of their position, day, start time and title.
func UID(b models.Booking, idx int, domain string) string {
	if b.ID != "" {
		return b.ID + "@" + domain
	}
	raw := fmt.Sprintf("%d-%d-%s-%s", idx, b.Day, b.StartTime, b.Title)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:]) + "@" + domain
}

// text normalizes line endings; escaping happens during serialization.
func text(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func clockParts(s, def string) (string, string) {
	if strings.TrimSpace(s) == "" {
		s = def
	}
	h, m, _ := strings.Cut(strings.TrimSpace(s), ":")
	if m == "" {
		m = "0"
	}
	return pad2(h), pad2(m)
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

func localTime(date time.Time, h, m string) string {
	return date.Format("20060102") + "T" + h + m + "00"
}
