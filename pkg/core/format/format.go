package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Korean)

// Layouts accepted by Date and DateTime, tried in order
var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Number formats n with thousands separators, e.g. 130000 -> "130,000"
func Number(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// Currency formats an amount in won, e.g. 130000 -> "130,000원"
func Currency(amount int64) string {
	return Number(amount) + "원"
}

// WPT formats a token balance with at most two fraction digits, e.g. 1234.5 -> "1,234.5 WPT"
func WPT(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2))) + " WPT"
}

// Date formats an ISO date or timestamp as "2024년 5월 1일".
// Input that cannot be parsed is returned unchanged.
func Date(value string) string {
	t, ok := parse(value)
	if !ok {
		return value
	}
	return DateOf(t)
}

// DateTime formats an ISO timestamp as "2024년 5월 1일 14:30".
// Input that cannot be parsed is returned unchanged.
func DateTime(value string) string {
	t, ok := parse(value)
	if !ok {
		return value
	}
	return DateTimeOf(t)
}

func DateOf(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}

func DateTimeOf(t time.Time) string {
	return fmt.Sprintf("%s %02d:%02d", DateOf(t), t.Hour(), t.Minute())
}

// Minutes formats a duration in minutes as "2시간 30분"
func Minutes(total int) string {
	if total < 0 {
		total = 0
	}

	hours, minutes := total/60, total%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%d분", minutes)
	case minutes == 0:
		return fmt.Sprintf("%d시간", hours)
	default:
		return fmt.Sprintf("%d시간 %d분", hours, minutes)
	}
}

func parse(value string) (time.Time, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
