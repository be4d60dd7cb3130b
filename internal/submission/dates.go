package submission

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the Excel 1900 date system. The 1899-12-30
// anchor already absorbs Excel's phantom 1900-02-29; it must not be
// "corrected" or every converted date shifts by a day.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const dateLayout = "January 2, 2006"

// serialValue is the explicit numeric-or-not branch for date detection.
// It reports whether v carries a day serial and, if so, its value.
func serialValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// FormatDateSerial converts a spreadsheet day serial into a long calendar
// date ("December 31, 1899" for serial 1). The fractional time-of-day part
// is discarded. Null or empty values become "N/A"; non-numeric values are
// treated as already-formatted text and pass through unchanged.
func FormatDateSerial(v interface{}) string {
	if v == nil {
		return "N/A"
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return "N/A"
	}
	serial, ok := serialValue(v)
	if !ok {
		return Stringify(v)
	}
	return serialEpoch.AddDate(0, 0, int(serial)).Format(dateLayout)
}
