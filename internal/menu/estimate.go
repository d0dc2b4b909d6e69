package menu

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// Estimate returns a copy of m with every item, section and menu time
// recomputed from distance, circle and sets. Stored times are ignored,
// so Estimate(Estimate(m)) == Estimate(m).
func Estimate(m domain.GeneratedMenu) domain.GeneratedMenu {
	out := m.Clone()
	out.TotalTime = 0
	for i := range out.Sections {
		sec := &out.Sections[i]
		sec.TotalTime = 0
		for j := range sec.Items {
			sec.Items[j].Time = ItemTime(sec.Items[j])
			sec.TotalTime += sec.Items[j].Time
		}
		out.TotalTime += sec.TotalTime
	}
	return out
}

// ItemTime is round(max(1, distance/100 * circleMinutes * sets)).
func ItemTime(it domain.MenuItem) int {
	minutes := float64(ParseDistance(it.Distance)) / 100 * ParseCircle(it.Circle) * float64(it.Sets)
	return int(math.Round(math.Max(1, minutes)))
}

// ParseDistance keeps only the digits of s. Unparseable input is 0.
func ParseDistance(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParseCircle reads "m:ss" into fractional minutes. Missing seconds
// count as zero and unparseable input is 0.
func ParseCircle(s string) float64 {
	minPart, secPart, _ := strings.Cut(strings.TrimSpace(s), ":")
	minutes, err := strconv.Atoi(strings.TrimSpace(minPart))
	if err != nil || minutes < 0 {
		return 0
	}
	seconds := 0
	if secPart = strings.TrimSpace(secPart); secPart != "" {
		if seconds, err = strconv.Atoi(secPart); err != nil || seconds < 0 {
			seconds = 0
		}
	}
	return float64(minutes) + float64(seconds)/60
}
