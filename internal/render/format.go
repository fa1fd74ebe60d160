package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// FormatHours renders a working-hours duration as hh:mm using total hours, so
// shifts longer than a day keep their full length. Negative durations of at
// least a minute get a leading "-". A nil duration renders as N/A.
func FormatHours(d *time.Duration) string {
	if d == nil {
		return notAvailable
	}

	v := *d
	neg := v < 0
	if neg {
		v = -v
	}

	mins := int64(v / time.Minute)
	sign := ""
	if neg && mins > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d", sign, mins/60, mins%60)
}

// FormatDate renders a calendar date as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatInt groups thousands with commas: 1234567 -> "1,234,567".
func FormatInt(n int64) string {
	return groupThousands(strconv.FormatInt(n, 10))
}

// FormatMoney rounds to two places and groups thousands: "1,000.33".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return groupThousands(whole) + "." + frac
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
