package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

type LyapunovConfig struct {
	Center       dynamo.Vec2
	StepSize     float64
	Duration     float64
	Perturbation float64
	// RenormEvery is the number of sub-steps between renormalisations.
	RenormEvery int
}

func DefaultLyapunovConfig() LyapunovConfig {
	return LyapunovConfig{
		Center:       dynamo.V(640, 400),
		StepSize:     1.0 / physics.ReferenceAccuracy,
		Duration:     200,
		Perturbation: 1e-6,
		RenormEvery:  100,
	}
}

// separation is the phase-space distance between two copies of a body set.
func separation(a, b []*physics.Body) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i].Position.Sub(b[i].Position).NormSq()
		sum += a[i].Velocity.Sub(b[i].Velocity).NormSq()
	}
	return math.Sqrt(sum)
}

// pullBack moves b toward a so their separation shrinks by scale.
func pullBack(a, b []*physics.Body, scale float64) {
	for i := range a {
		b[i].Position = a[i].Position.Add(b[i].Position.Sub(a[i].Position).Scale(scale))
		b[i].Velocity = a[i].Velocity.Add(b[i].Velocity.Sub(a[i].Velocity).Scale(scale))
	}
}

// LyapunovExponent estimates the largest Lyapunov exponent of preset i by
// following a copy whose first body is nudged along x, renormalising the
// separation back to the nudge at fixed intervals.
//
// λ ≈ Σ ln(d_k / d0) / t
func LyapunovExponent(preset int, stepper integrators.Stepper, cfg LyapunovConfig) (float64, error) {
	if cfg.Perturbation <= 0 || cfg.StepSize <= 0 || cfg.Duration <= 0 {
		return 0, fmt.Errorf("%w: perturbation, step size and duration must be positive", dynamo.ErrInvalidState)
	}
	if cfg.RenormEvery < 1 {
		cfg.RenormEvery = 1
	}

	x, err := scenario.Build(preset, cfg.Center, physics.WithTrailLimit(1))
	if err != nil {
		return 0, err
	}
	xp, err := scenario.Build(preset, cfg.Center, physics.WithTrailLimit(1))
	if err != nil {
		return 0, err
	}
	xp[0].Position.X += cfg.Perturbation
	d0 := cfg.Perturbation

	steps := int(math.Ceil(cfg.Duration / cfg.StepSize))
	interval := physics.PracticalSampleInterval(int(math.Round(1 / cfg.StepSize)))
	sumLog := 0.0

	for n := 1; n <= steps; n++ {
		stepper.Step(x, cfg.StepSize, interval)
		stepper.Step(xp, cfg.StepSize, interval)

		if n%cfg.RenormEvery != 0 && n != steps {
			continue
		}
		sep := separation(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("%w: separation %g at step %d", dynamo.ErrInvalidState, sep, n)
		}
		sumLog += math.Log(sep / d0)
		pullBack(x, xp, d0/sep)
	}

	return sumLog / (float64(steps) * cfg.StepSize), nil
}
