package datesolver

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recognizers in priority order. The first match wins.
//
//	YYYYMMDD_HHMMSS   IMG_20200927_123456, VID_20240504_113916789
//	YYYY-MM-DD-HH-MM-SS  Screenshot_2017-01-26-13-52-51
//	YYYYMMDD          20200927
//	YYYY-MM-DD        2017-01-26_something
//	^YYYY-MM[_-]      2010-03_Jacen_Announcement (day defaults to 1)
var (
	compactDateTimePattern = regexp.MustCompile(`(\d{8})[_-](\d{6,})`)
	hyphenDateTimePattern  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})`)
	compactDatePattern     = regexp.MustCompile(`(\d{8})`)
	isoDatePattern         = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	yearMonthPrefixPattern = regexp.MustCompile(`^(\d{4})-(\d{2})[_-]`)
)

const (
	minPlausibleYear = 1990
	maxPlausibleYear = 2100
)

// FromFilename extracts an embedded timestamp from a filename. It returns
// false when no recognizer matches with plausible values.
func FromFilename(filename string) (time.Time, bool) {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if match := compactDateTimePattern.FindStringSubmatch(name); match != nil {
		datePart := match[1]
		timePart := match[2][:6]
		if t, ok := buildDateTime(
			datePart[0:4], datePart[4:6], datePart[6:8],
			timePart[0:2], timePart[2:4], timePart[4:6],
		); ok {
			return t, true
		}
	}

	if match := hyphenDateTimePattern.FindStringSubmatch(name); match != nil {
		if t, ok := buildDateTime(match[1], match[2], match[3], match[4], match[5], match[6]); ok {
			return t, true
		}
	}

	if match := compactDatePattern.FindStringSubmatch(name); match != nil {
		datePart := match[1]
		if t, ok := buildDate(datePart[0:4], datePart[4:6], datePart[6:8]); ok {
			return t, true
		}
	}

	if match := isoDatePattern.FindStringSubmatch(name); match != nil {
		if t, ok := buildDate(match[1], match[2], match[3]); ok {
			return t, true
		}
	}

	if match := yearMonthPrefixPattern.FindStringSubmatch(name); match != nil {
		year, month := atoi(match[1]), atoi(match[2])
		if plausibleYear(year) && month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local), true
		}
	}

	return time.Time{}, false
}

func buildDateTime(y, mo, d, h, mi, s string) (time.Time, bool) {
	year, month, day := atoi(y), atoi(mo), atoi(d)
	hour, minute, second := atoi(h), atoi(mi), atoi(s)
	if !plausibleDate(year, month, day) {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	if t.Day() != day {
		// Normalized by time.Date: the source day did not exist (e.g. Feb 30).
		return time.Time{}, false
	}
	return t, true
}

func buildDate(y, mo, d string) (time.Time, bool) {
	return buildDateTime(y, mo, d, "0", "0", "0")
}

func plausibleDate(year, month, day int) bool {
	return plausibleYear(year) && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func plausibleYear(year int) bool {
	return year >= minPlausibleYear && year <= maxPlausibleYear
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
