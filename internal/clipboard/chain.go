// Package clipboard delivers rendered composites to the user through an
// ordered chain of strategies: the native clipboard, the platform copy
// command, a manual-copy overlay and finally a file download.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// Method names a delivery strategy.
type Method string

const (
	MethodNative    Method = "native"
	MethodSelection Method = "selection"
	MethodOverlay   Method = "overlay"
	MethodDownload  Method = "download"
)

// Default download names, by kind of copy.
const (
	CompositeFilename = "combined-product.png"
	SingleFilename    = "product-image.png"
	BulkFilename      = "product-images.png"
)

// ErrNoStrategy means no step was available for the environment.
var ErrNoStrategy = errors.New("no delivery method available")

// Step is one delivery strategy. Deliver returns a human-readable location
// (file path, overlay URL) when there is one.
type Step interface {
	Method() Method
	Available(env Env) bool
	Deliver(ctx context.Context, png *imagepkg.Rendered, filename string) (string, error)
}

// Attempt records one tried step.
type Attempt struct {
	Method Method `json:"method"`
	Err    error  `json:"-"`
}

// Outcome is the result of running a chain.
type Outcome struct {
	Method   Method    `json:"method,omitempty"`
	Location string    `json:"location,omitempty"`
	Attempts []Attempt `json:"attempts"`
	// Err is set only when every planned step failed.
	Err error `json:"-"`
}

// OK reports whether some step succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Method != ""
}

// Chain holds the configured steps. Any of them may be nil.
type Chain struct {
	Native    Step
	Selection Step
	Overlay   Step
	Download  Step

	logger *zap.Logger
}

// NewChain returns a chain with the given steps.
func NewChain(native, selection, overlay, download Step, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		Native:    native,
		Selection: selection,
		Overlay:   overlay,
		Download:  download,
		logger:    logger,
	}
}

// Plan returns the steps to try for env, in order. Desktop tries native,
// selection, then download. Mobile tries native then the overlay, or a
// download when no overlay is configured.
func (c *Chain) Plan(env Env) []Step {
	var order []Step
	if env.Mobile {
		last := c.Overlay
		if last == nil {
			last = c.Download
		}
		order = []Step{c.Native, last}
	} else {
		order = []Step{c.Native, c.Selection, c.Download}
	}

	plan := make([]Step, 0, len(order))
	for _, s := range order {
		if s == nil || !s.Available(env) {
			continue
		}
		plan = append(plan, s)
	}
	return plan
}

// Deliver runs the plan until a step succeeds. Step failures are logged
// and recorded, never returned.
func (c *Chain) Deliver(ctx context.Context, env Env, png *imagepkg.Rendered, filename string) Outcome {
	var out Outcome
	plan := c.Plan(env)
	if len(plan) == 0 {
		out.Err = ErrNoStrategy
		return out
	}

	var lastErr error
	for _, s := range plan {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		loc, err := s.Deliver(ctx, png, filename)
		out.Attempts = append(out.Attempts, Attempt{Method: s.Method(), Err: err})
		if err == nil {
			out.Method = s.Method()
			out.Location = loc
			c.logger.Debug("composite delivered",
				zap.String("method", string(s.Method())),
				zap.String("location", loc))
			return out
		}
		lastErr = err
		c.logger.Warn("delivery method failed",
			zap.String("method", string(s.Method())),
			zap.Error(err))
	}
	out.Err = fmt.Errorf("all delivery methods failed: %w", lastErr)
	return out
}

// StepFunc adapts a function into a Step.
type StepFunc struct {
	Name  Method
	When  func(Env) bool
	Apply func(ctx context.Context, png *imagepkg.Rendered, filename string) (string, error)
}

func (f StepFunc) Method() Method { return f.Name }

func (f StepFunc) Available(env Env) bool {
	return f.When == nil || f.When(env)
}

func (f StepFunc) Deliver(ctx context.Context, png *imagepkg.Rendered, filename string) (string, error) {
	return f.Apply(ctx, png, filename)
}
