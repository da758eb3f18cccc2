package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Time is a wall-clock time of day as sent by the course API ("14:00:00")
type Time struct {
	Hour   int
	Minute int
	Second int
}

// NewTime builds a Time from hour and minute
func NewTime(hour, minute int) Time {
	return Time{Hour: hour, Minute: minute}
}

// ParseTime parses "HH:MM" or "HH:MM:SS"
func ParseTime(s string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Time{}, fmt.Errorf("invalid time %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
		vals[i] = n
	}
	t := Time{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return Time{}, fmt.Errorf("time out of range %q", s)
	}
	return t, nil
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Short formats the time as "2:00pm"
func (t Time) Short() string {
	suffix := "am"
	h := t.Hour
	if h >= 12 {
		suffix = "pm"
	}
	if h > 12 {
		h -= 12
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d%s", h, t.Minute, suffix)
}

// Minutes returns minutes since midnight
func (t Time) Minutes() int {
	return t.Hour*60 + t.Minute
}

// IsZero reports midnight, which the API uses for unknown times
func (t Time) IsZero() bool {
	return t.Hour == 0 && t.Minute == 0 && t.Second == 0
}

// Before compares two times of day
func (t Time) Before(other Time) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	if t.Minute != other.Minute {
		return t.Minute < other.Minute
	}
	return t.Second < other.Second
}

// Add returns t shifted by the given minutes, wrapping at midnight
func (t Time) Add(minutes int) Time {
	total := ((t.Minutes()+minutes)%(24*60) + 24*60) % (24 * 60)
	return Time{Hour: total / 60, Minute: total % 60}
}

// MarshalText implements encoding.TextMarshaler
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Time) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = Time{}
		return nil
	}
	parsed, err := ParseTime(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Weekday labels a day of the week, e.g. "Monday"
type Weekday string

// Weekdays
const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// SchoolDays are the columns of the schedule grid
var SchoolDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Abbrev returns the short column header, e.g. "Mon"
func (d Weekday) Abbrev() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:3])
}

var dayCodes = map[Weekday]string{
	Monday: "M", Tuesday: "T", Wednesday: "W", Thursday: "R",
	Friday: "F", Saturday: "S", Sunday: "U",
}

// Code returns the single letter day code used in catalogs (MTWRFSU)
func (d Weekday) Code() string {
	return dayCodes[d]
}

// DayCodes joins the codes of days, e.g. "MWF"
func DayCodes(days []Weekday) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(d.Code())
	}
	return b.String()
}

// ParseWeekday accepts full names, three letter abbreviations and single letter codes (MTWRF)
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "M":
		return Monday, nil
	case "T":
		return Tuesday, nil
	case "W":
		return Wednesday, nil
	case "R":
		return Thursday, nil
	case "F":
		return Friday, nil
	case "S":
		return Saturday, nil
	case "U":
		return Sunday, nil
	}
	for _, d := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, d.Abbrev()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// ParseDays parses a day code string such as "MWF" or "TR"
func ParseDays(codes string) ([]Weekday, error) {
	var days []Weekday
	for _, r := range strings.TrimSpace(codes) {
		d, err := ParseWeekday(string(r))
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}
