package zone

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/metrics"
)

// Options tunes Analyze.
type Options struct {
	// Workers bounds concurrency; 0 uses DefaultWorkers.
	Workers int
	// Policy resolves fibers touching several zones; empty means LowestZoneWins.
	Policy Policy
}

// ModelResult is the outcome for one model instance.
type ModelResult struct {
	Model      int        `json:"model"`
	Zones      []Sphere   `json:"zones"`
	Table      Table      `json:"membership"`
	Assignment Assignment `json:"assignment"`
}

// Report is the output of one Analyze call.
type Report struct {
	RunID    uuid.UUID     `json:"run_id"`
	Policy   Policy        `json:"policy"`
	Fibers   int           `json:"fibers"`
	Models   []ModelResult `json:"models"`
	Duration time.Duration `json:"duration_ns"`
}

// Analyze places fs for every model of l, computes each membership table and
// resolves ties with opts.Policy.
func Analyze(ctx context.Context, l Layout, fs fiber.FiberSet, opts Options) (*Report, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fibers, zones := l.ModelInputs(fs)
	tables, err := ComputeModels(ctx, fibers, zones, opts.Workers)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:  uuid.New(),
		Policy: policy,
		Fibers: len(fs),
		Models: make([]ModelResult, len(tables)),
	}
	for m, t := range tables {
		assign, err := Resolve(t, len(fs), policy)
		if err != nil {
			return nil, err
		}
		report.Models[m] = ModelResult{
			Model:      m,
			Zones:      zones[m],
			Table:      t,
			Assignment: assign,
		}
		metrics.MembershipEntries.WithLabelValues(strconv.Itoa(m)).Set(float64(len(t)))
	}
	report.Duration = time.Since(start)
	metrics.AnalysisDuration.Observe(report.Duration.Seconds())

	return report, nil
}
