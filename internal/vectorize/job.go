package vectorize

import "context"

// Result carries the outcome of a background trace.
type Result struct {
	SVG string
	Err error
}

// Job is a single in-flight trace. The result is delivered exactly
// once; additional Wait calls after delivery return the same result.
type Job struct {
	done chan Result
	res  *Result
}

// Start launches a trace in the background and returns immediately.
// The trace itself is not cancellable once started; cancelling the
// Wait context only abandons the wait.
func Start(tracer Tracer, raster []byte, opts Options) *Job {
	j := &Job{done: make(chan Result, 1)}
	go func() {
		svg, err := tracer.Trace(context.Background(), raster, opts)
		j.done <- Result{SVG: svg, Err: err}
	}()
	return j
}

// Wait blocks until the trace finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) (string, error) {
	if j.res != nil {
		return j.res.SVG, j.res.Err
	}
	select {
	case res := <-j.done:
		j.res = &res
		return res.SVG, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
