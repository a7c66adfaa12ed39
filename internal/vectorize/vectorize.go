// Package vectorize converts raster artwork to SVG through an external
// tracing command.
package vectorize

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Options tune the tracer. Zero-valued fields are filled from
// DefaultOptions before the trace runs.
type Options struct {
	LineThreshold float64 // straight-line error tolerance
	QuadThreshold float64 // quadratic-spline error tolerance
	Scale         float64
	ColorSampling int
	Colors        int
	MinColorRatio float64
}

// DefaultOptions returns the tracing defaults used for packaging
// artwork.
func DefaultOptions() Options {
	return Options{
		LineThreshold: 0.1,
		QuadThreshold: 1,
		Scale:         1,
		ColorSampling: 2,
		Colors:        64,
		MinColorRatio: 0.02,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LineThreshold == 0 {
		o.LineThreshold = d.LineThreshold
	}
	if o.QuadThreshold == 0 {
		o.QuadThreshold = d.QuadThreshold
	}
	if o.Scale == 0 {
		o.Scale = d.Scale
	}
	if o.ColorSampling == 0 {
		o.ColorSampling = d.ColorSampling
	}
	if o.Colors == 0 {
		o.Colors = d.Colors
	}
	if o.MinColorRatio == 0 {
		o.MinColorRatio = d.MinColorRatio
	}
	return o
}

// Tracer converts raster image bytes to SVG markup.
type Tracer interface {
	Trace(ctx context.Context, raster []byte, opts Options) (string, error)
}

// Option configures the CLI tracer.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps an imagetracer-style command that reads a raster image on
// stdin and writes SVG to stdout.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI tracer using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "imagetracer"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Trace runs the tracer and returns the SVG document.
func (c *CLI) Trace(ctx context.Context, raster []byte, opts Options) (string, error) {
	if len(raster) == 0 {
		return "", fmt.Errorf("raster image required")
	}
	opts = opts.withDefaults()

	args := []string{
		"--ltres", formatFloat(opts.LineThreshold),
		"--qtres", formatFloat(opts.QuadThreshold),
		"--scale", formatFloat(opts.Scale),
		"--colorsampling", strconv.Itoa(opts.ColorSampling),
		"--numberofcolors", strconv.Itoa(opts.Colors),
		"--mincolorratio", formatFloat(opts.MinColorRatio),
	}

	cmd := commandContext(ctx, c.binary, args...)
	cmd.Stdin = bytes.NewReader(raster)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("trace failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("trace failed: %w", err)
	}

	svg := strings.TrimSpace(stdout.String())
	if !strings.Contains(svg, "<svg") {
		return "", fmt.Errorf("tracer produced no SVG output")
	}
	return svg, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var _ Tracer = (*CLI)(nil)
