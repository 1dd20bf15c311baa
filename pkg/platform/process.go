package platform

import (
	"context"
	"log/slog"
	"os/exec"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/diag"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for this package.
const tracerName = "github.com/StricklySoft/stricklysoft-sys/pkg/platform"

// StateChangeHandler is called after every state transition of a
// [Process]. Handlers run synchronously under the process state mutex and
// must not call methods on the same process. A panicking handler is
// recovered and logged; an abort from a handler still ends the process.
type StateChangeHandler func(old, new ProcessState)

// Command describes a process to spawn. Use [NewCommand] and the With
// methods, then call [Command.Spawn].
//
// Example:
//
//	out, err := platform.OpenAnonymous(ctx)
//	if err != nil {
//	    return err
//	}
//	proc, err := platform.NewCommand("echo", "-n", "Hello, world!").
//	    WithStdout(out).
//	    Spawn(ctx)
//	if err != nil {
//	    return err
//	}
//	code, err := proc.Wait(ctx)
type Command struct {
	argv     []string
	dir      string
	env      []string
	stdin    *File
	stdout   *File
	stderr   *File
	logger   *slog.Logger
	provider trace.TracerProvider
	handlers []StateChangeHandler
}

// NewCommand creates a command running name with args. name is resolved
// through PATH when it contains no path separator.
func NewCommand(name string, args ...string) *Command {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, name)
	argv = append(argv, args...)
	return &Command{argv: argv}
}

// WithDir sets the working directory of the process. The default is the
// caller's working directory.
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithEnv sets the complete environment of the process as KEY=VALUE
// pairs. Without WithEnv the process inherits the caller's environment.
func (c *Command) WithEnv(env ...string) *Command {
	c.env = append(c.env, env...)
	return c
}

// WithStdin connects the process's standard input to f. The default is
// the null device.
func (c *Command) WithStdin(f *File) *Command {
	c.stdin = f
	return c
}

// WithStdout connects the process's standard output to f. The default is
// the null device.
func (c *Command) WithStdout(f *File) *Command {
	c.stdout = f
	return c
}

// WithStderr connects the process's standard error to f. The default is
// the null device.
func (c *Command) WithStderr(f *File) *Command {
	c.stderr = f
	return c
}

// WithLogger sets the logger for process lifecycle events. The default is
// [diag.Default].
func (c *Command) WithLogger(logger *slog.Logger) *Command {
	c.logger = logger
	return c
}

// WithTracerProvider sets the OpenTelemetry tracer provider for the
// process's spans. The default is the global provider.
func (c *Command) WithTracerProvider(tp trace.TracerProvider) *Command {
	c.provider = tp
	return c
}

// OnStateChange registers a handler called on every state transition of
// the spawned process, in registration order.
func (c *Command) OnStateChange(h StateChangeHandler) *Command {
	c.handlers = append(c.handlers, h)
	return c
}

// Spawn creates the process. On success the returned process is in
// [ProcessRunning]; the caller must eventually call [Process.Wait] to
// reap it.
func (c *Command) Spawn(ctx context.Context) (*Process, error) {
	provider := c.provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	tracer := provider.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "platform.Spawn",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("process.executable", c.argv[0])),
	)
	defer span.End()
	defer callstack.Enter(ctx, "platform.Spawn").Exit()

	if c.argv[0] == "" {
		err := errors.Fail(ctx, errors.KindInvalidParameter, "empty executable name")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(ctx, err, errors.KindBadOperation, "spawn canceled before execution")
	}

	p := &Process{
		id:       uuid.NewString(),
		argv:     slices.Clone(c.argv),
		state:    ProcessUnknown,
		tracer:   tracer,
		logger:   diag.Or(c.logger),
		handlers: slices.Clone(c.handlers),
	}
	span.SetAttributes(attribute.String("process.id", p.id))

	if err := p.setState(ctx, ProcessStarting); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := osSpawn(ctx, p, c); err != nil {
		_ = p.setState(ctx, ProcessFailed)
		p.logger.ErrorContext(ctx, "platform: spawn failed",
			"process_id", p.id,
			"executable", p.argv[0],
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := p.setState(ctx, ProcessRunning); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	p.logger.InfoContext(ctx, "platform: process spawned",
		"process_id", p.id,
		"pid", p.pid,
		"executable", p.argv[0],
	)
	span.SetAttributes(attribute.Int("process.pid", p.pid))
	span.SetStatus(codes.Ok, "")
	return p, nil
}

// Process is a spawned child process. A Process is safe for concurrent
// use; in particular Kill may be called while another goroutine blocks in
// Wait.
type Process struct {
	// Immutable after Spawn.
	id       string
	argv     []string
	cmd      *exec.Cmd
	pid      int
	tracer   trace.Tracer
	logger   *slog.Logger
	handlers []StateChangeHandler

	mu       sync.RWMutex
	state    ProcessState
	exitCode int
	// reaping is set once the backend knows the child has exited and
	// is about to reap it. Kill refuses from then on so that a reused
	// pid is never signaled.
	reaping bool

	waitOnce sync.Once
	waitErr  error
}

// ID returns the unique identifier assigned at spawn time.
func (p *Process) ID() string {
	return p.id
}

// PID returns the OS process id.
func (p *Process) PID() int {
	return p.pid
}

// Args returns a copy of the process's argument vector.
func (p *Process) Args() []string {
	return slices.Clone(p.argv)
}

// State returns the current lifecycle state.
func (p *Process) State() ProcessState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// ExitCode returns the exit code recorded by Wait. ok is false until the
// process has been reaped. Processes terminated by a signal report -1.
func (p *Process) ExitCode() (code int, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch p.state {
	case ProcessExited, ProcessKilled:
		return p.exitCode, true
	default:
		return 0, false
	}
}

// Wait blocks until the process terminates, reaps it and returns its exit
// code. A non-zero exit code is not an error. Wait may be called any
// number of times and from several goroutines; every call returns the
// same result. Cancellation of ctx is checked before blocking but does
// not interrupt a blocked Wait; use [Process.Kill] for that.
func (p *Process) Wait(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "platform.Wait",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("process.id", p.id),
			attribute.Int("process.pid", p.pid),
		),
	)
	defer span.End()
	defer callstack.Enter(ctx, "platform.Process.Wait").Exit()

	if p.State() == ProcessRunning {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return -1, errors.Wrap(ctx, err, errors.KindBadOperation, "wait canceled before execution")
		}
	}

	p.waitOnce.Do(func() {
		code, signaled, err := osWait(ctx, p)
		next := ProcessExited
		switch {
		case err != nil:
			next = ProcessFailed
			p.waitErr = err
		case signaled:
			next = ProcessKilled
		}
		p.mu.Lock()
		p.exitCode = code
		p.mu.Unlock()
		_ = p.setState(ctx, next)

		p.logger.InfoContext(ctx, "platform: process reaped",
			"process_id", p.id,
			"pid", p.pid,
			"state", string(next),
			"exit_code", code,
		)
	})

	if p.waitErr != nil {
		span.RecordError(p.waitErr)
		span.SetStatus(codes.Error, p.waitErr.Error())
		return -1, p.waitErr
	}
	code, _ := p.ExitCode()
	span.SetAttributes(attribute.Int("process.exit_code", code))
	span.SetStatus(codes.Ok, "")
	return code, nil
}

// Kill forcibly terminates the process. Kill fails with KindBadOperation
// once the backend has seen the process exit. After Kill, Wait returns promptly and
// the process ends in [ProcessKilled].
func (p *Process) Kill(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "platform.Kill",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("process.id", p.id),
			attribute.Int("process.pid", p.pid),
		),
	)
	defer span.End()
	defer callstack.Enter(ctx, "platform.Process.Kill").Exit()

	// Holding the read lock keeps Wait from publishing a terminal state
	// while the signal is sent.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state != ProcessRunning {
		err := errors.Failf(ctx, errors.KindBadOperation,
			"process %d is %s, not running", p.pid, p.state)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if p.reaping {
		err := errors.Failf(ctx, errors.KindBadOperation, "process %d has exited", p.pid)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := osKill(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p.logger.InfoContext(ctx, "platform: process killed",
		"process_id", p.id,
		"pid", p.pid,
	)
	span.SetStatus(codes.Ok, "")
	return nil
}

// markReaping records that the child has exited and is about to be
// reaped.
func (p *Process) markReaping() {
	p.mu.Lock()
	p.reaping = true
	p.mu.Unlock()
}

// setState validates and applies a state transition and notifies the
// registered handlers.
func (p *Process) setState(ctx context.Context, next ProcessState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.state
	if !ValidProcessTransition(old, next) {
		return errors.Failf(ctx, errors.KindBadOperation,
			"invalid process state transition from %q to %q", old, next)
	}
	p.state = next

	for _, h := range p.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("platform: state change handler panicked",
						"panic", r,
						"process_id", p.id,
						"old_state", string(old),
						"new_state", string(next),
					)
				}
			}()
			h(old, next)
		}()
	}
	return nil
}

// buildCmd translates c into an exec.Cmd. Files are passed to the child
// as descriptors; no copying goroutines are involved.
func buildCmd(c *Command) *exec.Cmd {
	cmd := exec.Command(c.argv[0], c.argv[1:]...)
	cmd.Dir = c.dir
	if c.env != nil {
		cmd.Env = slices.Clone(c.env)
	}
	if c.stdin != nil {
		cmd.Stdin = c.stdin.osFile()
	}
	if c.stdout != nil {
		cmd.Stdout = c.stdout.osFile()
	}
	if c.stderr != nil {
		cmd.Stderr = c.stderr.osFile()
	}
	return cmd
}

// startCmd starts cmd and records it on p.
func startCmd(ctx context.Context, p *Process, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errors.Wrapf(ctx, err, errors.KindNoSuchObject,
				"spawn %s: executable not found", p.argv[0])
		}
		return errors.WrapNative(ctx, err, "spawn %s", p.argv[0])
	}
	p.cmd = cmd
	p.pid = cmd.Process.Pid
	return nil
}
