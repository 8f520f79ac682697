package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"dompet/internal/core"
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var clockPattern = regexp.MustCompile(`(\d{2}):(\d{2})`)

var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ShortDate renders the leading YYYY-MM-DD of s as dd/mm/yyyy.
func ShortDate(s string) string {
	d, err := core.ParseDate(s)
	if err != nil {
		return Placeholder
	}
	return d.Format("02/01/2006")
}

// DetailDateTime renders "dd Mon yyyy ・ hh.mm" for the detail view. The
// clock comes from stamp (created or updated time); without one only the
// date is shown. Zoned stamps are shown in loc.
func DetailDateTime(date, stamp string, loc *time.Location) string {
	d, err := core.ParseDate(date)
	if err != nil {
		return Placeholder
	}
	text := fmt.Sprintf("%02d %s %d", d.Day(), monthNames[d.Month()-1], d.Year())
	if clock := clockText(stamp, loc); clock != "" {
		return text + " ・ " + clock
	}
	return text
}

func clockText(stamp string, loc *time.Location) string {
	stamp = strings.TrimSpace(stamp)
	if stamp == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	for i, layout := range stampLayouts {
		t, err := time.Parse(layout, stamp)
		if err != nil {
			continue
		}
		if i < 2 {
			t = t.In(loc)
		}
		return fmt.Sprintf("%02d.%02d", t.Hour(), t.Minute())
	}
	if m := clockPattern.FindStringSubmatch(stamp); m != nil {
		return m[1] + "." + m[2]
	}
	return ""
}

// TransactionStamp picks the creation time, falling back to the update time.
func TransactionStamp(tx core.Transaction) string {
	if tx.CreatedAt != "" {
		return tx.CreatedAt
	}
	return tx.UpdatedAt
}
