// Package period does reporting-period arithmetic: which period an insight
// covers, how it is labelled, and when the next run is due.
package period

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// DefaultInsightHour is the local hour insights are delivered at.
const DefaultInsightHour = 7

const queryDateLayout = "2006-01-02"

// Period is one concrete reporting period. End is the last instant of the
// period's final day.
type Period struct {
	Type   domain.PeriodType
	Year   int
	Number int
	Start  time.Time
	End    time.Time
	Label  string
}

// Ref returns the date-independent identity of p.
func (p Period) Ref() domain.PeriodRef {
	return domain.PeriodRef{Type: p.Type, Year: p.Year, Number: p.Number}
}

// Info resolves a period from its type, year and number (ISO week,
// month 1-12, quarter 1-4, or the year itself).
func Info(t domain.PeriodType, year, number int, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	var start, next time.Time
	switch t {
	case domain.PeriodWeekly:
		if number < 1 || number > 53 {
			return Period{}, fmt.Errorf("week %d out of range", number)
		}
		start = isoWeekStart(year, number, loc)
		next = start.AddDate(0, 0, 7)
	case domain.PeriodMonthly:
		if number < 1 || number > 12 {
			return Period{}, fmt.Errorf("month %d out of range", number)
		}
		start = time.Date(year, time.Month(number), 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 1, 0)
	case domain.PeriodQuarterly:
		if number < 1 || number > 4 {
			return Period{}, fmt.Errorf("quarter %d out of range", number)
		}
		start = time.Date(year, time.Month((number-1)*3+1), 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 3, 0)
	case domain.PeriodYearly:
		number = year
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(1, 0, 0)
	default:
		return Period{}, fmt.Errorf("unknown period type %q", t)
	}

	p := Period{Type: t, Year: year, Number: number, Start: start, End: next.Add(-time.Nanosecond)}
	p.Label = shortLabel(p)
	return p, nil
}

// Current returns the period containing now.
func Current(t domain.PeriodType, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	switch t {
	case domain.PeriodWeekly:
		year, week := now.ISOWeek()
		return Info(t, year, week, loc)
	case domain.PeriodMonthly:
		return Info(t, now.Year(), int(now.Month()), loc)
	case domain.PeriodQuarterly:
		return Info(t, now.Year(), (int(now.Month())-1)/3+1, loc)
	case domain.PeriodYearly:
		return Info(t, now.Year(), now.Year(), loc)
	default:
		return Period{}, fmt.Errorf("unknown period type %q", t)
	}
}

// PreviousCompletePeriod returns the last period that ended before the one
// containing now. A Monday-morning weekly run covers the week just gone.
func PreviousCompletePeriod(t domain.PeriodType, now time.Time, loc *time.Location) (Period, error) {
	cur, err := Current(t, now, loc)
	if err != nil {
		return Period{}, err
	}
	return Previous(cur), nil
}

// Previous returns the period immediately before p, for comparisons.
func Previous(p Period) Period {
	prev, err := Current(p.Type, p.Start.Add(-time.Nanosecond), p.Start.Location())
	if err != nil {
		return Period{}
	}
	return prev
}

// Label renders the long heading for p, such as
// "Weekly Summary — January 5-11, 2026".
func Label(p Period) string {
	switch p.Type {
	case domain.PeriodWeekly:
		sm, em := p.Start.Month(), p.End.Month()
		if sm == em {
			return fmt.Sprintf("Weekly Summary — %s %d-%d, %d", sm, p.Start.Day(), p.End.Day(), p.End.Year())
		}
		return fmt.Sprintf("Weekly Summary — %s %d - %s %d, %d", sm, p.Start.Day(), em, p.End.Day(), p.End.Year())
	case domain.PeriodMonthly:
		return fmt.Sprintf("Monthly Summary — %s %d", p.Start.Month(), p.Year)
	case domain.PeriodQuarterly:
		return fmt.Sprintf("Quarterly Summary — Q%d %d", p.Number, p.Year)
	case domain.PeriodYearly:
		return fmt.Sprintf("Yearly Summary — %d", p.Year)
	default:
		return fmt.Sprintf("%s %d, %d", p.Type, p.Number, p.Year)
	}
}

// FormatDateForQuery renders t as YYYY-MM-DD.
func FormatDateForQuery(t time.Time) string {
	return t.Format(queryDateLayout)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// cronSpec is the delivery schedule for each period type at hour.
func cronSpec(t domain.PeriodType, hour int) (string, error) {
	switch t {
	case domain.PeriodWeekly:
		return fmt.Sprintf("0 %d * * 1", hour), nil
	case domain.PeriodMonthly:
		return fmt.Sprintf("0 %d 1 * *", hour), nil
	case domain.PeriodQuarterly:
		return fmt.Sprintf("0 %d 1 1,4,7,10 *", hour), nil
	case domain.PeriodYearly:
		return fmt.Sprintf("0 %d 1 1 *", hour), nil
	default:
		return "", fmt.Errorf("unknown period type %q", t)
	}
}

// NextInsightTime returns the first delivery time strictly after after:
// Mondays for weekly, the 1st for monthly, the first day of Jan/Apr/Jul/Oct
// for quarterly and January 1st for yearly, at hour in loc.
func NextInsightTime(t domain.PeriodType, after time.Time, loc *time.Location, hour int) (time.Time, error) {
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("insight hour %d out of range", hour)
	}
	if loc == nil {
		loc = time.UTC
	}
	spec, err := cronSpec(t, hour)
	if err != nil {
		return time.Time{}, err
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return sched.Next(after.In(loc)), nil
}

func shortLabel(p Period) string {
	switch p.Type {
	case domain.PeriodWeekly:
		return fmt.Sprintf("Week %d, %d", p.Number, p.Year)
	case domain.PeriodMonthly:
		return fmt.Sprintf("%s %d", p.Start.Month(), p.Year)
	case domain.PeriodQuarterly:
		return fmt.Sprintf("Q%d %d", p.Number, p.Year)
	default:
		return fmt.Sprintf("%d Year in Review", p.Year)
	}
}

// isoWeekStart is the Monday of ISO week (year, week). Week 1 is the week
// containing January 4th.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(week-1)*7)
}
