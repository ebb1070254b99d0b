package render

import (
	"math"
	"strconv"
)

// Placeholders for values a backend did not report.
const (
	MissingValue = "<none>"
	NAValue      = "n/a"
	UnknownValue = "<unknown>"
)

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// Truncate truncates a string to max runes.
func Truncate(s string, max int) string {
	rr := []rune(s)
	if len(rr) <= max {
		return s
	}
	if max <= 3 {
		return string(rr[:max])
	}
	return string(rr[:max-3]) + "..."
}

// AutoPlaces lets HumanizeSize pick decimal places from the unit.
const AutoPlaces = -1

// HumanizeSize formats bytes with SI units. B shows no decimals, kB and MB
// one, GB two, unless places forces a count. Trailing zeros are dropped.
func HumanizeSize(bytes uint64, places int) string {
	const k = 1000.0

	var (
		size = float64(bytes)
		unit string
		auto int
	)
	switch {
	case size < k:
		unit = "B"
	case size < k*k:
		size, unit, auto = size/k, "kB", 1
	case size < k*k*k:
		size, unit, auto = size/(k*k), "MB", 1
	default:
		size, unit, auto = size/(k*k*k), "GB", 2
	}
	if places < 0 {
		places = auto
	}
	m := math.Pow(10, float64(places))
	size = math.Round(size*m) / m

	return strconv.FormatFloat(size, 'f', -1, 64) + " " + unit
}
