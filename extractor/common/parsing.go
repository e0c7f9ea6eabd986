package common

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseableDate = errors.New("unparseable date")

// ThaiMonthPattern matches the abbreviated Thai month names printed on slips,
// with or without the dots.
const ThaiMonthPattern = `ม\.?ค\.?|ก\.?พ\.?|มี\.?ค\.?|เม\.?ย\.?|พ\.?ค\.?|มิ\.?ย\.?|ก\.?ค\.?|ส\.?ค\.?|ก\.?ย\.?|ต\.?ค\.?|พ\.?ย\.?|ธ\.?ค\.?`

// DateTimePattern builds a "day month year<sep>HH:MM" pattern. Groups 1-3
// hold the date parts and group 4 the time.
func DateTimePattern(sep string) string {
	return `(\d{1,2}) (` + ThaiMonthPattern + `) (\d{2,4})` + sep + `(\d{2}:\d{2})`
}

// MatchDate returns "day month year" from the first match of re in line.
func MatchDate(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if len(m) < 4 {
		return "", false
	}
	return m[1] + " " + m[2] + " " + m[3], true
}

var thaiMonths = map[string]time.Month{
	"มค":  time.January,
	"กพ":  time.February,
	"มีค": time.March,
	"เมย": time.April,
	"พค":  time.May,
	"มิย": time.June,
	"กค":  time.July,
	"สค":  time.August,
	"กย":  time.September,
	"ตค":  time.October,
	"พย":  time.November,
	"ธค":  time.December,
}

var thaiDateRegex = regexp.MustCompile(`^(\d{1,2})\s*(` + ThaiMonthPattern + `)\s*(\d{2,4})(?:\s*[-,]?\s*(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)

type dateLayout struct {
	layout    string
	shortYear bool
}

var dateLayouts = []dateLayout{
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
	{"2 Jan 2006 15:04", false},
	{"2 Jan 2006", false},
	{"02 Jan 2006", false},
	{"2 Jan 06", false},
	{"2/1/2006 15:04:05", false},
	{"2/1/2006 15:04", false},
	{"2/1/2006", false},
	{"2/1/06", true},
	{"02-01-2006", false},
}

// Bangkok is the zone slip timestamps are printed in.
var Bangkok = loadBangkok()

func loadBangkok() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// ParseDate converts an extracted date string into a calendar time. Thai
// month abbreviations and Buddhist-era years are understood; two digit years
// on Thai slips are Buddhist era ("68" is 2025).
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == Placeholder {
		return time.Time{}, ErrUnparseableDate
	}

	if m := thaiDateRegex.FindStringSubmatch(value); m != nil {
		return thaiDate(m)
	}

	for _, l := range dateLayouts {
		t, err := time.ParseInLocation(l.layout, value, Bangkok)
		if err != nil {
			continue
		}
		return fromBuddhistEra(t, l.shortYear), nil
	}

	return time.Time{}, ErrUnparseableDate
}

func thaiDate(m []string) (time.Time, error) {
	day, _ := strconv.Atoi(m[1])
	month, ok := thaiMonths[strings.ReplaceAll(m[2], ".", "")]
	if !ok || day < 1 || day > 31 {
		return time.Time{}, ErrUnparseableDate
	}
	year, _ := strconv.Atoi(m[3])
	switch {
	case len(m[3]) == 2:
		year = 2500 + year - 543
	case len(m[3]) == 3:
		return time.Time{}, ErrUnparseableDate
	case year > 2400:
		year -= 543
	}

	var hour, minute, sec int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
	}

	return time.Date(year, month, day, hour, minute, sec, 0, Bangkok), nil
}

func fromBuddhistEra(t time.Time, shortYear bool) time.Time {
	if shortYear {
		year := 2500 + t.Year()%100 - 543
		return t.AddDate(year-t.Year(), 0, 0)
	}
	if t.Year() > 2400 {
		return t.AddDate(-543, 0, 0)
	}
	return t
}
