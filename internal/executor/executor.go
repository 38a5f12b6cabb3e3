// Package executor runs one synthesized shell command in a child
// process, captures its combined stdout/stderr, and enforces a
// wall-clock budget with escalating termination of the whole process
// group (SIGTERM, then SIGKILL rounds, then abandonment).
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// #region errors

// ErrAbandoned reports a child that survived every termination attempt.
var ErrAbandoned = errors.New("child ignored all termination signals")

// #endregion errors

// #region executor

// Executor holds the runtime policy. The zero value is not usable;
// construct with New.
type Executor struct {
	Runtime      time.Duration // child wall-clock budget
	KillAttempts int           // SIGKILL rounds after the initial SIGTERM
	Tick         time.Duration // poll interval for deadline and reap checks
	Grace        time.Duration // drain allowance after the child is reaped
}

// New returns an executor with the standard 100 ms tick.
func New(runtime time.Duration, killAttempts int) *Executor {
	return &Executor{
		Runtime:      runtime,
		KillAttempts: killAttempts,
		Tick:         100 * time.Millisecond,
		Grace:        500 * time.Millisecond,
	}
}

// #endregion executor

// #region execute

// Execute runs cmdline via /bin/sh -c in its own process group and
// returns the combined output. The child is killed — group-wide — once
// the runtime budget is exceeded or ctx is done; a child reaped after
// being signalled still yields whatever output it produced. Only a
// child that survives every escalation stage fails with ErrAbandoned.
func (e *Executor) Execute(ctx context.Context, cmdline string) ([]byte, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	cmd := exec.Command("/bin/sh", "-c", cmdline)
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("start: %w", err)
	}
	// The parent's copy of the write end; the child holds its own.
	w.Close()

	pgid := cmd.Process.Pid

	var buf bytes.Buffer
	drained := make(chan struct{})
	go func() {
		io.Copy(&buf, r)
		close(drained)
	}()

	reaped := make(chan error, 1)
	go func() {
		reaped <- cmd.Wait()
	}()

	start := time.Now()
	ticker := time.NewTicker(e.Tick)
	defer ticker.Stop()

	stage := 0
	for {
		select {
		case <-reaped:
			out := e.drain(r, &buf, drained)
			return out, nil

		case <-ticker.C:
			if time.Since(start) < e.Runtime && ctx.Err() == nil {
				continue
			}
			switch {
			case stage == 0:
				syscall.Kill(-pgid, syscall.SIGTERM)
			case stage <= e.KillAttempts:
				syscall.Kill(-pgid, syscall.SIGKILL)
			default:
				syscall.Kill(-pgid, syscall.SIGKILL)
				r.Close()
				<-drained
				<-reaped
				return nil, ErrAbandoned
			}
			stage++
		}
	}
}

// drain waits for the copier to hit EOF — bounded by the grace period,
// after which the read end is closed under it — and returns the bytes
// captured so far.
func (e *Executor) drain(r *os.File, buf *bytes.Buffer, drained <-chan struct{}) []byte {
	select {
	case <-drained:
	case <-time.After(e.Grace):
		// A grandchild may still hold the write end open; stop waiting.
		r.Close()
		<-drained
	}
	r.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// #endregion execute
