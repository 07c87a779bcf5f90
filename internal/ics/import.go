// Package ics imports VEVENT components from iCalendar payloads into the
// reminder data model. RRULE text is parsed through rrule-go and mapped onto
// the rule families the expansion engine understands.
package ics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// ErrNoEvents is returned when a calendar decodes cleanly but contains no
// importable VEVENT.
var ErrNoEvents = errors.New("ics: calendar contains no events")

// Importer converts iCalendar payloads into reminder series.
type Importer struct {
	logger *slog.Logger

	// Priority is assigned to every imported series. Empty means none.
	Priority string
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithPriority sets the priority stamped on imported series.
func WithPriority(p string) Option {
	return func(i *Importer) { i.Priority = p }
}

// NewImporter constructs an Importer with a discard logger by default.
func NewImporter(opts ...Option) *Importer {
	imp := &Importer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import decodes one calendar stream and returns the series it yields.
// Events without a SUMMARY or a parsable DTSTART are skipped with a warning
// rather than failing the whole import.
func (i *Importer) Import(r io.Reader) ([]*remind.Series, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("ics: decode calendar: %w", err)
	}

	var out []*remind.Series
	for _, ev := range cal.Events() {
		s, err := i.importEvent(ev)
		if err != nil {
			i.logger.Warn("skipping event", "error", err)
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoEvents
	}
	i.logger.Info("imported calendar", "events", len(out))
	return out, nil
}

func (i *Importer) importEvent(ev ical.Event) (*remind.Series, error) {
	title := propText(ev.Props, ical.PropSummary)
	if title == "" {
		return nil, errors.New("missing SUMMARY")
	}

	s := &remind.Series{
		ID:       propText(ev.Props, ical.PropUID),
		Title:    title,
		Note:     propText(ev.Props, ical.PropDescription),
		Priority: i.Priority,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	start, allDay, err := propDate(ev.Props, ical.PropDateTimeStart)
	if err != nil {
		return nil, fmt.Errorf("DTSTART: %w", err)
	}
	s.Date = dates.Format(start)
	if !allDay {
		s.Time = start.Format("15:04")
	}

	if end, endAllDay, err := propDate(ev.Props, ical.PropDateTimeEnd); err == nil {
		if endAllDay {
			// DTEND on all-day events is exclusive; store inclusive dates.
			end = end.AddDate(0, 0, -1)
			if endDate := dates.Format(end); endDate != s.Date {
				s.EndDate = endDate
			}
		} else {
			endDate := dates.Format(end)
			if endDate != s.Date {
				s.EndDate = endDate
			}
			s.EndTime = end.Format("15:04")
		}
	}

	if status := propText(ev.Props, ical.PropStatus); strings.EqualFold(status, "COMPLETED") {
		s.Completed = true
	}
	if created, err := ev.Props.DateTime(ical.PropCreated, nil); err == nil && !created.IsZero() {
		s.CreatedAt = created.Format(time.RFC3339)
	}

	if prop := ev.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		rule, err := parseRepeatRule(prop.Value)
		if err != nil {
			i.logger.Warn("unsupported RRULE, importing as single event",
				"uid", s.ID, "rrule", prop.Value, "error", err)
		} else {
			rule.ExcludeDates = exceptionDates(ev.Props)
			s.Repeat = rule
		}
	}

	return s, nil
}

// parseRepeatRule maps an RRULE onto the internal rule families. FREQ and
// INTERVAL carry over directly; COUNT becomes EndCount, UNTIL becomes
// EndDate. A BYDAY set with more than one weekday demotes the rule to the
// custom type since the simple weekly family follows a single anchor
// weekday.
func parseRepeatRule(value string) (*remind.RepeatRule, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return nil, fmt.Errorf("parse RRULE: %w", err)
	}

	rule := &remind.RepeatRule{Enabled: true}
	switch opt.Freq {
	case rrule.DAILY:
		rule.Type = remind.RepeatDaily
	case rrule.WEEKLY:
		rule.Type = remind.RepeatWeekly
	case rrule.MONTHLY:
		rule.Type = remind.RepeatMonthly
	case rrule.YEARLY:
		rule.Type = remind.RepeatYearly
	default:
		return nil, fmt.Errorf("unsupported FREQ %v", opt.Freq)
	}

	if opt.Interval > 1 {
		rule.Interval = opt.Interval
	}
	if opt.Count > 0 {
		rule.EndCount = opt.Count
	} else if !opt.Until.IsZero() {
		rule.EndDate = dates.Format(opt.Until)
	}

	if len(opt.Byweekday) > 0 {
		for _, wd := range opt.Byweekday {
			// rrule-go numbers weekdays Monday=0; the rule tables use
			// Sunday=0.
			rule.WeekDays = append(rule.WeekDays, (wd.Day()+1)%7)
		}
		if len(rule.WeekDays) > 1 {
			rule.Type = remind.RepeatCustom
		}
	}
	if len(opt.Bymonthday) > 0 {
		rule.MonthDays = append(rule.MonthDays, opt.Bymonthday...)
	}
	if len(opt.Bymonth) > 0 {
		rule.Months = append(rule.Months, opt.Bymonth...)
	}

	return rule, nil
}

// exceptionDates collects EXDATE values as original-key date strings.
func exceptionDates(props ical.Props) []string {
	var out []string
	for _, prop := range props.Values(ical.PropExceptionDates) {
		for _, part := range strings.Split(prop.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICalTime(part); err == nil {
				out = append(out, dates.Format(t))
			}
		}
	}
	return out
}

func propText(props ical.Props, name string) string {
	if prop := props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}

// propDate reads a DTSTART/DTEND style property and reports whether it was a
// date-only (all-day) value.
func propDate(props ical.Props, name string) (time.Time, bool, error) {
	prop := props.Get(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing %s", name)
	}
	allDay := strings.EqualFold(prop.Params.Get("VALUE"), "DATE") ||
		!strings.Contains(prop.Value, "T")
	t, err := parseICalTime(prop.Value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, allDay, nil
}

func parseICalTime(value string) (time.Time, error) {
	for _, layout := range []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}
