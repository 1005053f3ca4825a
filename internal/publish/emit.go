package publish

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/conn-castle/sitepub/internal/proc"
)

// errStopped unwinds a publish attempt after the consumer stopped reading output.
var errStopped = errors.New("output consumer stopped")

// emitter forwards progress lines to the consumer of a publish sequence.
type emitter struct {
	yield   func(string, error) bool
	stopped bool
}

// stream turns a publish step function into the lazy output sequence.
func stream(publish func(out *emitter) error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		out := &emitter{yield: yield}
		out.finish(publish(out))
	}
}

func (e *emitter) line(text string) bool {
	if e.stopped {
		return false
	}
	if !e.yield(text, nil) {
		e.stopped = true
	}
	return !e.stopped
}

func (e *emitter) say(format string, args ...any) error {
	if !e.line(fmt.Sprintf(format, args...)) {
		return errStopped
	}
	return nil
}

// run executes one step and forwards its output. Process failures are reported as a
// *PublishError naming step.
func (e *emitter) run(ctx context.Context, sys System, step string, cmd proc.Cmd) error {
	for text, err := range sys.Run(ctx, cmd) {
		if err != nil {
			return &PublishError{Step: step, Err: err}
		}
		if !e.line(text) {
			return errStopped
		}
	}
	return nil
}

func (e *emitter) finish(err error) {
	if err == nil || e.stopped || errors.Is(err, errStopped) {
		return
	}
	e.yield("", err)
}
