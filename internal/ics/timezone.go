package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// referenceMonday anchors week-mode events; 2024-01-01 was a Monday.
var referenceMonday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var isoWeekdays = [7]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// weeklyOccurrence returns the first date on or after the reference Monday
// that falls on the weekday of day, and the weekly RRULE for it.
func weeklyOccurrence(day int) (time.Time, string) {
	wd := rrule.MO
	if day >= 1 {
		wd = isoWeekdays[(day-1)%7]
	}
	rule := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{wd}}

	first := referenceMonday
	expand := rule
	expand.Dtstart = referenceMonday
	expand.Count = 1
	if r, err := rrule.NewRRule(expand); err == nil {
		if dates := r.All(); len(dates) > 0 {
			first = dates[0]
		}
	}
	return first, rule.RRuleString()
}

// transition is one STANDARD or DAYLIGHT rule of a VTIMEZONE.
type transition struct {
	start      string
	month      int
	offsetFrom string
	offsetTo   string
	name       string
}

var berlin = struct{ standard, daylight transition }{
	standard: transition{start: "19701025T030000", month: 10, offsetFrom: "+0200", offsetTo: "+0100", name: "CET"},
	daylight: transition{start: "19700329T020000", month: 3, offsetFrom: "+0100", offsetTo: "+0200", name: "CEST"},
}

func addTimezone(cal *ical.Calendar) {
	tz := cal.AddTimezone(TZID)
	berlin.standard.apply(&tz.AddStandard().ComponentBase)

	daylight := &ical.Daylight{}
	berlin.daylight.apply(&daylight.ComponentBase)
	tz.Components = append(tz.Components, daylight)
}

func (t transition) apply(c *ical.ComponentBase) {
	// Both switches happen on the last Sunday of the month.
	rule := rrule.ROption{
		Freq:      rrule.YEARLY,
		Bymonth:   []int{t.month},
		Byweekday: []rrule.Weekday{rrule.SU.Nth(-1)},
	}
	c.SetProperty(ical.ComponentPropertyDtStart, t.start)
	c.AddRrule(rule.RRuleString())
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzoffsetfrom), t.offsetFrom)
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzoffsetto), t.offsetTo)
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzname), t.name)
}
