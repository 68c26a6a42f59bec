package review

import (
	"math"
	"strconv"
)

// FormatCaption renders "<label> (<pct>%)" with the probability as a
// percentage rounded to two decimals.
func FormatCaption(label string, probability float64) string {
	pct := math.Round(probability*100*100) / 100
	return label + " (" + strconv.FormatFloat(pct, 'f', -1, 64) + "%)"
}
