// Package proc runs external tools and streams their combined output line by line.
package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/conn-castle/sitepub/internal/messages"
)

// DefaultTailLines is the number of trailing output lines kept for error reports.
const DefaultTailLines = 20

const maxLineBytes = 1024 * 1024

var (
	execCommandContext = exec.CommandContext
	osPipe             = os.Pipe
	waitDelay          = 5 * time.Second
)

// Cmd describes one external process invocation.
// Args holds the executable followed by its arguments; each element is passed to the
// process as-is and is never interpreted by a shell.
type Cmd struct {
	Args []string
	Dir  string
	// Env replaces the inherited environment when non-nil.
	Env []string
}

// Name returns the executable name for messages.
func (c Cmd) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// ProcessError reports a process that could not be started or exited unsuccessfully.
type ProcessError struct {
	Args []string
	// ExitCode is the process exit status, or -1 when the process never ran to completion.
	ExitCode int
	// Tail holds the last lines of combined output.
	Tail []string
	Err  error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	name := ""
	if len(e.Args) > 0 {
		name = e.Args[0]
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, messages.ProcExitStatusFmt, name, e.ExitCode)
	} else {
		fmt.Fprintf(&b, messages.ProcKilledFmt, name, e.Err)
	}
	if len(e.Tail) > 0 {
		b.WriteString("\n")
		b.WriteString(messages.ProcOutputTailHeader)
		for _, line := range e.Tail {
			b.WriteString("\n")
			fmt.Fprintf(&b, messages.ProcOutputTailLineFmt, line)
		}
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Runner starts processes and streams their output.
type Runner struct {
	// TailLines bounds the output kept for ProcessError; zero means DefaultTailLines.
	TailLines int
}

// Run starts c and yields its stdout and stderr lines, interleaved, as they arrive.
// A non-zero exit is reported as a final *ProcessError element. When the consumer stops
// iterating early, or ctx is canceled, the process is killed and reaped before Run returns.
func (r Runner) Run(ctx context.Context, c Cmd) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(c.Args) == 0 || c.Args[0] == "" {
			yield("", errors.New(messages.ProcEmptyCommand))
			return
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// #nosec G204 -- argv is built from discrete tokens and never passed through a shell.
		cmd := execCommandContext(ctx, c.Args[0], c.Args[1:]...)
		cmd.Dir = c.Dir
		cmd.Env = c.Env
		cmd.WaitDelay = waitDelay

		reader, writer, err := osPipe()
		if err != nil {
			yield("", fmt.Errorf(messages.ProcOpenPipeFmt, c.Name(), err))
			return
		}
		cmd.Stdout = writer
		cmd.Stderr = writer
		if err := cmd.Start(); err != nil {
			_ = writer.Close()
			_ = reader.Close()
			yield("", &ProcessError{Args: c.Args, ExitCode: -1, Err: fmt.Errorf(messages.ProcStartFailedFmt, c.Name(), err)})
			return
		}
		// The child holds its own copy; closing ours lets the reader see EOF on exit.
		_ = writer.Close()

		tail := newTailBuffer(r.tailLines())
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			tail.add(line)
			if !yield(line, nil) {
				cancel()
				_ = reader.Close()
				_ = cmd.Wait()
				return
			}
		}
		scanErr := scanner.Err()
		if scanErr != nil {
			cancel()
		}
		_ = reader.Close()
		waitErr := cmd.Wait()

		switch {
		case scanErr != nil:
			yield("", &ProcessError{Args: c.Args, ExitCode: -1, Tail: tail.lines(), Err: fmt.Errorf(messages.ProcReadOutputFmt, c.Name(), scanErr)})
		case waitErr != nil && ctx.Err() != nil:
			yield("", &ProcessError{Args: c.Args, ExitCode: -1, Tail: tail.lines(), Err: fmt.Errorf(messages.ProcCanceledFmt, c.Name(), context.Cause(ctx))})
		case waitErr != nil:
			yield("", newProcessError(c.Args, waitErr, tail.lines()))
		}
	}
}

func (r Runner) tailLines() int {
	if r.TailLines > 0 {
		return r.TailLines
	}
	return DefaultTailLines
}

// newProcessError converts a Wait error into a ProcessError with the exit status.
func newProcessError(args []string, err error, tail []string) *ProcessError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ProcessError{Args: args, ExitCode: code, Tail: tail, Err: err}
}

// ExitCode extracts the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var procErr *ProcessError
	if errors.As(err, &procErr) && procErr.ExitCode >= 0 {
		return procErr.ExitCode, true
	}
	return 0, false
}

type tailBuffer struct {
	max  int
	buf  []string
	next int
	full bool
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max, buf: make([]string, 0, max)}
}

func (t *tailBuffer) add(line string) {
	if len(t.buf) < t.max {
		t.buf = append(t.buf, line)
		return
	}
	t.buf[t.next] = line
	t.next = (t.next + 1) % t.max
	t.full = true
}

func (t *tailBuffer) lines() []string {
	if !t.full {
		return append([]string(nil), t.buf...)
	}
	out := make([]string, 0, t.max)
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}
