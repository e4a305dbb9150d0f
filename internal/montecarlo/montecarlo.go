// Package montecarlo estimates the probability distribution of the
// project completion date by repeatedly sampling task durations from a
// triangular distribution over each task's PERT estimates.
package montecarlo

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/model"
)

// DefaultIterations is the trial count used when none is configured.
const DefaultIterations = 1000

// Options tunes a simulation run. The zero value gives 1000 iterations,
// a time-seeded RNG and weekends-only working days.
type Options struct {
	Iterations   int
	Rand         *rand.Rand // inject a seeded source for deterministic tests
	IsWorkingDay calendar.WorkdayFunc
}

// Forecast holds the percentile outcomes of one simulation.
type Forecast struct {
	P50        time.Time
	P80        time.Time
	Iterations int

	samples []int64 // simulated end dates as epoch seconds, ascending
}

// Percentile reads an arbitrary percentile (0..1) off the sorted sample
// set, using the same floor-index convention as P50/P80.
func (f *Forecast) Percentile(p float64) time.Time {
	if len(f.samples) == 0 {
		return f.P50
	}
	idx := int(math.Floor(float64(len(f.samples)) * p))
	if idx >= len(f.samples) {
		idx = len(f.samples) - 1
	}
	return time.Unix(f.samples[idx], 0).UTC()
}

// Run simulates the project end date. Each iteration draws a duration
// for every PERT-enabled task, derives that task's perturbed end date
// from its own start date, and takes the maximum end across tasks; the
// iteration does not re-run the full CPM pass, which is a deliberate
// single-pass approximation. Zero tasks yields today for every
// percentile.
func Run(tasks []model.Task, opts Options) *Forecast {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	workday := opts.IsWorkingDay
	if workday == nil {
		workday = calendar.IsWeekday
	}

	if len(tasks) == 0 {
		today := calendar.Date(time.Now())
		return &Forecast{P50: today, P80: today, Iterations: opts.Iterations}
	}

	log.Debug().Int("iterations", opts.Iterations).Int("tasks", len(tasks)).
		Msg("starting completion-date simulation")

	samples := make([]int64, opts.Iterations)
	for i := 0; i < opts.Iterations; i++ {
		var end time.Time
		for j := range tasks {
			t := &tasks[j]
			taskEnd := calendar.Date(t.EndDate)
			if t.UsePERT && t.HasPERT() {
				dur := Triangular(rng, *t.Optimistic, *t.MostLikely, *t.Pessimistic)
				taskEnd = calendar.AddWorkingDaysFunc(
					calendar.Date(t.StartDate), int(math.Round(dur)), workday)
			}
			if taskEnd.After(end) {
				end = taskEnd
			}
		}
		samples[i] = end.Unix()
	}

	sort.Slice(samples, func(a, b int) bool { return samples[a] < samples[b] })

	f := &Forecast{Iterations: opts.Iterations, samples: samples}
	f.P50 = f.Percentile(0.5)
	f.P80 = f.Percentile(0.8)
	return f
}

// Triangular draws one duration from the triangular distribution over
// (optimistic, mostLikely, pessimistic): below the median draw the
// rising side of the triangle, above it the falling side. A zero spread
// (pessimistic == optimistic) returns mostLikely rather than dividing
// by zero.
func Triangular(rng *rand.Rand, o, m, p float64) float64 {
	// Estimate ordering is not validated upstream; clamp instead of
	// propagating NaN from a negative sqrt argument.
	if m < o {
		m = o
	}
	if p < m {
		p = m
	}
	if p-o <= 0 {
		return m
	}
	r := rng.Float64()
	if r < 0.5 {
		return o + math.Sqrt(r*2*(m-o))
	}
	return p - math.Sqrt((1-r)*2*(p-m))
}
