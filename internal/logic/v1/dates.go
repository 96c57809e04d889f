package v1

import (
	"fmt"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"golang.org/x/text/language"
)

// Short numeric date layouts per supported locale.
var dateLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/2006",
	language.BritishEnglish:  "02/01/2006",
	language.French:          "02/01/2006",
	language.Spanish:         "2/1/2006",
	language.Italian:         "2/1/2006",
	language.Portuguese:      "02/01/2006",
	language.German:          "2.1.2006",
	language.Dutch:           "2-1-2006",
	language.Japanese:        "2006/1/2",
	language.Chinese:         "2006/1/2",
	language.Korean:          "2006. 1. 2.",
}

// supportedLocales lists matcher candidates; the first entry is the fallback.
var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.French,
	language.Spanish,
	language.Italian,
	language.Portuguese,
	language.German,
	language.Dutch,
	language.Japanese,
	language.Chinese,
	language.Korean,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// DateFormatter renders picked dates the way the device locale displays them.
type DateFormatter struct {
	tag    language.Tag
	layout string
	now    func() time.Time
}

// NewDateFormatter resolves locale (a BCP 47 tag such as "en-GB") to the closest
// supported layout. Unknown or malformed tags fall back to en-US.
func NewDateFormatter(locale string) *DateFormatter {
	tag := language.AmericanEnglish
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, confidence := localeMatcher.Match(parsed)
		if confidence != language.No {
			tag = supportedLocales[idx]
		}
	}
	return &DateFormatter{tag: tag, layout: dateLayouts[tag], now: time.Now}
}

// Locale returns the resolved tag.
func (f *DateFormatter) Locale() language.Tag {
	return f.tag
}

// Format renders a confirmed picker date. Dates after today are rejected,
// matching the picker's maximum date. Both sides are compared as calendar
// days: date in its own location, today in the location of the clock.
func (f *DateFormatter) Format(date time.Time) (string, error) {
	picked := calendarDay(date)
	if picked.After(calendarDay(f.now())) {
		return "", fmt.Errorf("format %s: %w", picked.Format(time.DateOnly), domain.ErrFutureDate)
	}
	return picked.Format(f.layout), nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
