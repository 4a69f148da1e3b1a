package contrib

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/Zachkp/resume-site/internal/clock"
)

// Rand is the randomness used by Synthesize. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand returns the unseeded global source.
func DefaultRand() Rand { return globalRand{} }

const (
	// SynthesizedDays is the length of a synthesized calendar.
	SynthesizedDays = 365

	recentDays  = 180
	recentBoost = 1.5
	weekdayOdds = 0.7
	weekendOdds = 0.3

	// Reported totals split 40/60 across the previous and current year.
	previousYearPct = 40
	currentYearPct  = 60
)

// band is one intensity band: a cumulative probability threshold and the
// count range [lo, lo+span) it draws from.
type band struct {
	upTo float64
	lo   int
	span int
}

var bands = []band{
	{upTo: 0.4, lo: 1, span: 3},
	{upTo: 0.7, lo: 4, span: 6},
	{upTo: 0.9, lo: 10, span: 10},
	{upTo: 1.0, lo: 20, span: 20},
}

// Synthesize builds a year of activity ending at today. Weekdays are
// busier than weekends, a sinusoidal seasonal factor varies activity by
// month, and the most recent 180 days are boosted. The shape is fixed;
// the counts depend entirely on rnd.
func Synthesize(today time.Time, rnd Rand) Calendar {
	if rnd == nil {
		rnd = DefaultRand()
	}
	anchor := DateOf(today).Time

	days := make([]Day, 0, SynthesizedDays)
	total := 0
	for ago := SynthesizedDays - 1; ago >= 0; ago-- {
		date := anchor.AddDate(0, 0, -ago)

		odds := weekendOdds
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			odds = weekdayOdds
		}
		odds *= seasonalFactor(date.Month())
		if ago < recentDays {
			odds *= recentBoost
		}

		day := Day{Date: Date{date}}
		if rnd.Float64() < odds {
			day.Count = drawCount(rnd)
			day.Level = LevelFor(day.Count)
		}
		total += day.Count
		days = append(days, day)
	}

	year := anchor.Year()
	return Calendar{
		Total: map[string]int{
			strconv.Itoa(year - 1): total * previousYearPct / 100,
			strconv.Itoa(year):     total * currentYearPct / 100,
		},
		Contributions: days,
	}
}

// SynthesizeNow synthesizes a calendar ending at c's current date using
// the global random source.
func SynthesizeNow(c clock.Clock) Calendar {
	return Synthesize(c.Now(), DefaultRand())
}

// seasonalFactor maps a month onto [0, 1] along a sine curve.
func seasonalFactor(m time.Month) float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*float64(m)/12)
}

func drawCount(rnd Rand) int {
	r := rnd.Float64()
	for _, b := range bands {
		if r < b.upTo {
			return b.lo + rnd.IntN(b.span)
		}
	}
	last := bands[len(bands)-1]
	return last.lo + rnd.IntN(last.span)
}
