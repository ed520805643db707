package utils

import (
	"strconv"
)

type sizeUnit struct {
	suffix    string
	threshold int64
}

// sizeUnits is ordered from largest to smallest.
var sizeUnits = []sizeUnit{
	{suffix: "gb", threshold: 1 << 30},
	{suffix: "mb", threshold: 1 << 20},
	{suffix: "kb", threshold: 1 << 10},
}

// FormatFileSize renders an SVG or Markdown byte length as a short lower-case
// size such as "512b", "1.5kb" or "10mb". One decimal is kept below ten units.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0b"
	}
	for _, unit := range sizeUnits {
		if bytes < unit.threshold {
			continue
		}
		scaled := float64(bytes) / float64(unit.threshold)
		precision := 0
		if scaled < 10 {
			precision = 1
		}
		formatted := strconv.FormatFloat(scaled, 'f', precision, 64)
		if precision == 1 && formatted[len(formatted)-1] == '0' {
			formatted = formatted[:len(formatted)-2]
		}
		return formatted + unit.suffix
	}
	return strconv.FormatInt(bytes, 10) + "b"
}
