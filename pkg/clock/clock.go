// Package clock provides the shell's settable wall clock and uptime.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/psaab/netshell/pkg/cmderr"
)

const (
	MinYear = 1993
	MaxYear = 2035
)

// Clock tracks the time the shell started and an operator-set offset from
// the host clock. Once set, the clock keeps advancing from the set value.
type Clock struct {
	mu     sync.Mutex
	now    func() time.Time
	start  time.Time
	offset time.Duration
	set    bool
}

// New returns a clock reading the host time.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource returns a clock reading the time from now.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Now returns the current clock time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Add(c.offset)
}

// IsSet reports whether the clock was set with Set.
func (c *Clock) IsSet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = t.Sub(c.now())
	c.set = true
}

// Uptime returns how long the shell has been running.
func (c *Clock) Uptime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.start)
}

// FormatUptime renders d as "PNF uptime is H hours, M minutes, S seconds".
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("PNF uptime is %d hours, %d minutes, %d seconds",
		total/3600, (total%3600)/60, total%60)
}

// FormatNow renders t the way "show clock" prints it.
func FormatNow(t time.Time) string {
	return "Current clock: " + t.Format("02 January 2006 15:04:05")
}

// Setting is a parsed "clock set" request.
type Setting struct {
	Hour, Minute, Second int
	Day                  int
	Month                time.Month
	Year                 int
}

// Time returns the setting as a time in loc.
func (s Setting) Time(loc *time.Location) time.Time {
	return time.Date(s.Year, s.Month, s.Day, s.Hour, s.Minute, s.Second, 0, loc)
}

// String renders the setting as it was confirmed to the operator.
func (s Setting) String() string {
	return fmt.Sprintf("%02d:%02d:%02d %d %s %d", s.Hour, s.Minute, s.Second, s.Day, s.Month, s.Year)
}

// Usage is the error text for an incomplete "clock set".
const Usage = "Incomplete command. Usage: clock set <hh:mm:ss> <day> <month> <year>"

// ParseSet parses the arguments of "clock set": hh:mm:ss, day, month, year.
// Month accepts any case-insensitive unique prefix of a month name.
func ParseSet(args []string) (Setting, error) {
	var s Setting
	if len(args) != 4 {
		return s, cmderr.Usagef(Usage)
	}
	var err error
	if s.Hour, s.Minute, s.Second, err = parseTimeOfDay(args[0]); err != nil {
		return s, err
	}
	s.Day, err = strconv.Atoi(args[1])
	if err != nil || s.Day < 1 || s.Day > 31 {
		return s, cmderr.Usagef("Invalid day. Expected a number between 1 and 31.")
	}
	if s.Month, err = parseMonth(args[2]); err != nil {
		return s, err
	}
	s.Year, err = strconv.Atoi(args[3])
	if err != nil || s.Year < MinYear || s.Year > MaxYear {
		return s, cmderr.Usagef("Invalid year. Expected a number between %d and %d.", MinYear, MaxYear)
	}
	if limit := DaysIn(s.Month, s.Year); s.Day > limit {
		return s, cmderr.Usagef("Invalid day %d for month %s", s.Day, s.Month)
	}
	return s, nil
}

func parseTimeOfDay(v string) (h, m, sec int, err error) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, 0, 0, cmderr.Usagef("Invalid time format. Expected hh:mm:ss.")
	}
	fields := [3]struct {
		name string
		max  int
		dst  *int
	}{{"Hour", 23, &h}, {"Minutes", 59, &m}, {"Seconds", 59, &sec}}
	for i, f := range fields {
		n, convErr := strconv.Atoi(parts[i])
		if convErr != nil {
			return 0, 0, 0, cmderr.Usagef("Invalid time format. Expected hh:mm:ss.")
		}
		if n < 0 || n > f.max {
			return 0, 0, 0, cmderr.Usagef("%s must be between 0 and %d.", f.name, f.max)
		}
		*f.dst = n
	}
	return h, m, sec, nil
}

func parseMonth(v string) (time.Month, error) {
	in := strings.ToLower(v)
	var match time.Month
	n := 0
	for m := time.January; m <= time.December; m++ {
		if in != "" && strings.HasPrefix(strings.ToLower(m.String()), in) {
			match = m
			n++
		}
	}
	switch n {
	case 1:
		return match, nil
	case 0:
		return 0, cmderr.Usagef("Invalid month. Expected a valid month name or abbreviation.")
	default:
		return 0, cmderr.Usagef("Ambiguous month name. Please provide a more specific input.")
	}
}

// DaysIn returns the number of days in month m of year.
func DaysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
