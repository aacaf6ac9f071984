package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Script is a scripted sequence of controller commands.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one command. Which fields apply depends on Action.
type Step struct {
	Action   string    `yaml:"action"`
	Preset   string    `yaml:"preset"`
	Body     int       `yaml:"body"`
	At       []float64 `yaml:"at"`
	Velocity []float64 `yaml:"velocity"`
	Frames   int       `yaml:"frames"`
	Value    int       `yaml:"value"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func vec(field string, v []float64) (dynamo.Vec2, error) {
	if len(v) != 2 {
		return dynamo.Vec2{}, fmt.Errorf("%s needs two components, got %d", field, len(v))
	}
	return dynamo.V(v[0], v[1]), nil
}

// RunScript replays every step against c and returns the number of frames
// run. It stops at the first failing step.
func RunScript(ctx context.Context, c *sim.Controller, s *Script, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	frames := 0

	for i, step := range s.Steps {
		log.Debug("script step", "n", i+1, "action", step.Action)
		n, err := apply(ctx, c, step)
		frames += n
		if err != nil {
			return frames, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return frames, nil
}

func apply(ctx context.Context, c *sim.Controller, step Step) (int, error) {
	switch step.Action {
	case "reset":
		if step.Preset == "" {
			c.Reset(c.Preset())
			return 0, nil
		}
		i, err := scenario.Index(step.Preset)
		if err != nil {
			return 0, err
		}
		c.Reset(i)
	case "restart":
		c.Restart()
	case "next":
		c.NextPreset()
	case "prev":
		c.PrevPreset()
	case "spawn":
		at, err := vec("at", step.At)
		if err != nil {
			return 0, err
		}
		idx := c.SpawnBody(at)
		if step.Velocity != nil {
			v, err := vec("velocity", step.Velocity)
			if err != nil {
				return 0, err
			}
			return 0, c.SetBodyVelocity(idx, v)
		}
	case "velocity":
		v, err := vec("velocity", step.Velocity)
		if err != nil {
			return 0, err
		}
		return 0, c.SetBodyVelocity(step.Body, v)
	case "aim":
		at, err := vec("at", step.At)
		if err != nil {
			return 0, err
		}
		return 0, c.AimBody(step.Body, at)
	case "run":
		frames := step.Frames
		if frames < 1 {
			frames = 1
		}
		for f := 0; f < frames; f++ {
			if _, err := c.StepOnce(ctx); err != nil {
				return f, err
			}
		}
		return frames, nil
	case "clear_trails":
		c.ClearTrails()
	case "clear_ghosts":
		c.ClearGhosts()
	case "ghosts":
		c.ToggleGhosts()
	case "pause":
		c.SetPaused(true)
	case "resume":
		c.SetPaused(false)
	case "speed":
		c.SetSpeed(step.Value)
	case "accuracy":
		c.SetAccuracy(step.Value)
	default:
		return 0, fmt.Errorf("unknown action %q", step.Action)
	}
	return 0, nil
}

// MonteCarloConfig perturbs a preset's initial velocities at random and
// checks whether the system stays bound.
type MonteCarloConfig struct {
	Preset       int
	Perturbation float64
	NumTrials    int
	Frames       int
	Speed        int
	Accuracy     int
	Radius       float64
	Seed         int64
	// Workers bounds how many trials run at once. Values below 1 mean 1.
	Workers int
	Options []sim.Option
}

type MonteCarloResult struct {
	TrialID     int
	Stability   float64
	EnergyDrift float64
	Stable      bool
}

// RunMonteCarlo runs the trials, in parallel when Workers > 1. All random
// draws happen up front, so a fixed seed gives the same results for any
// worker count.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	p, err := scenario.Get(cfg.Preset)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	kicks := make([][]dynamo.Vec2, cfg.NumTrials)
	for trial := range kicks {
		kicks[trial] = make([]dynamo.Vec2, len(p.Bodies))
		for i := range kicks[trial] {
			kicks[trial][i] = dynamo.V(rng.Float64()-0.5, rng.Float64()-0.5).Scale(2 * cfg.Perturbation)
		}
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for trial := range kicks {
		g.Go(func() error {
			r, err := runTrial(gctx, cfg, kicks[trial])
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			r.TrialID = trial
			results[trial] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runTrial(ctx context.Context, cfg *MonteCarloConfig, kicks []dynamo.Vec2) (MonteCarloResult, error) {
	opts := append([]sim.Option{
		sim.WithPreset(cfg.Preset),
		sim.WithSpeed(cfg.Speed),
		sim.WithAccuracy(cfg.Accuracy),
	}, cfg.Options...)
	c := sim.New(opts...)

	snap := c.Snapshot()
	for i, b := range snap.Bodies {
		if err := c.SetBodyVelocity(i, b.Velocity.Add(kicks[i])); err != nil {
			return MonteCarloResult{}, err
		}
	}

	stability := metrics.NewStability(cfg.Radius)
	drift := metrics.NewEnergyDrift()
	c.AddMetric(stability)
	c.AddMetric(drift)

	for f := 0; f < cfg.Frames; f++ {
		if _, err := c.StepOnce(ctx); err != nil {
			return MonteCarloResult{}, err
		}
	}

	return MonteCarloResult{
		Stability:   stability.Value(),
		EnergyDrift: drift.Value(),
		Stable:      stability.Value() == 1 && c.Validate() == nil,
	}, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
