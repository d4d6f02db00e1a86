package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// timeParser resolves free-form English time expressions ("1 week ago",
// "last friday", "4pm") against a base instant.
var timeParser *when.Parser

func init() {
	timeParser = when.New(nil)
	timeParser.Add(en.All...)
	timeParser.Add(common.All...)
}

// instantLayouts are tried before the natural-language parser so absolute
// dates keep working even where the relative-expression rules have no rule
// for them.
var instantLayouts = []string{"2006-01-02 15:04", "2006-01-02", "2 Jan 2006", "Jan 2 2006", "January 2 2006"}

// ParseInstant resolves a time expression, absolute ("2026-08-01") or natural
// language ("1 week ago"), to an instant relative to base. "now" resolves to
// base itself.
func ParseInstant(expr string, base time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if strings.EqualFold(expr, "now") {
		return base, nil
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return t, nil
		}
	}

	result, err := timeParser.Parse(expr, base)
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("unable to parse %q as a time", expr)
	}

	return result.Time, nil
}

// clockLayouts are tried in order for explicit clock-time input. Inputs are
// lower-cased first, so only lowercase meridiem layouts are needed.
var clockLayouts = []string{"15:04", "3:04pm", "3pm", "15"}

// ParseClock parses a time-of-day expression ("08:00", "8am", "8:15pm") and
// normalizes it to zero-padded 24-hour "HH:MM". Explicit formats are tried
// first; anything else falls back to the natural-language parser.
func ParseClock(expr string, base time.Time) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(expr))

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("15:04"), nil
		}
	}

	t, err := ParseInstant(cleaned, base)
	if err != nil {
		return "", fmt.Errorf("unable to parse %q as a time of day", expr)
	}
	return t.Format("15:04"), nil
}
