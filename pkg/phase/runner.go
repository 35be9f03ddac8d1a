package phase

import (
	"context"
	"fmt"
	"time"
)

// Phase is one named step of the pipeline. Run may append to ctx.Files
// and ctx.Errors but must not mutate frozen IR/analysis. CanSkip lets a
// phase opt out when its preconditions don't apply (e.g. GenerateOpenAPI
// with no models). Rollback is invoked, in addition to the runner's own
// generic file/error truncation, when a phase needs to undo extra state
// it stashed in ctx.Cache.
type Phase struct {
	Name     string
	Run      func(ctx *Context) error
	CanSkip  func(ctx *Context) bool
	Rollback func(ctx *Context)
}

// ErrFatal wraps a fatal diagnostic that should abort the run and trigger
// rollback, distinct from a Go error returned by a phase's Run for a
// genuine programming failure (both abort the run identically).
type ErrFatal struct{ Message string }

func (e *ErrFatal) Error() string { return e.Message }

// checkpoint snapshots what the runner needs to roll a phase back to.
type checkpoint struct {
	filePaths map[string]bool
	errorLen  int
}

func snapshot(ctx *Context) checkpoint {
	paths := ctx.Files.Paths()
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return checkpoint{filePaths: set, errorLen: ctx.Errors.Len()}
}

func rollbackTo(ctx *Context, cp checkpoint) {
	for _, p := range ctx.Files.Paths() {
		if !cp.filePaths[p] {
			ctx.Files.Delete(p)
		}
	}
	ctx.Errors.Truncate(cp.errorLen)
}

// Runner drives an ordered list of phases over one Context.
type Runner struct {
	phases []Phase
}

// NewRunner builds a Runner from an ordered phase list.
func NewRunner(phases []Phase) *Runner {
	return &Runner{phases: phases}
}

// RunResult summarizes a completed (or aborted) run.
type RunResult struct {
	Completed    bool
	AbortedPhase string
	RolledBack   []string
}

// Run executes every phase in order. On a fatal condition — a phase
// returning a non-nil error, or ctx.Errors accumulating a fatal entry
// during a phase — the runner stops, rolls back every completed phase in
// reverse order (including the failing one), and returns a non-nil error.
// Cancellation via goCtx lets in-flight callers finish their current
// phase then stop before the next one starts, per spec.md §5's
// cancellation contract.
func (r *Runner) Run(goCtx context.Context, ctx *Context) (RunResult, error) {
	var executed []Phase
	var checkpoints []checkpoint

	for _, p := range r.phases {
		select {
		case <-goCtx.Done():
			r.rollbackAll(ctx, executed, checkpoints)
			return RunResult{Completed: false, AbortedPhase: p.Name, RolledBack: namesOf(executed)}, goCtx.Err()
		default:
		}

		if p.CanSkip != nil && p.CanSkip(ctx) {
			continue
		}

		cp := snapshot(ctx)
		start := time.Now()
		err := p.Run(ctx)
		ctx.recordTiming(p.Name, time.Since(start))

		fatal := err != nil || ctx.Errors.HasFatal()
		if fatal {
			if p.Rollback != nil {
				p.Rollback(ctx)
			}
			rollbackTo(ctx, cp)
			r.rollbackAll(ctx, executed, checkpoints)

			if err == nil {
				err = &ErrFatal{Message: fmt.Sprintf("phase %q produced a fatal diagnostic", p.Name)}
			}
			return RunResult{Completed: false, AbortedPhase: p.Name, RolledBack: append(namesOf(executed), p.Name)}, err
		}

		if ctx.Config.Strict && ctx.Errors.HasErrorOrWorse() {
			if p.Rollback != nil {
				p.Rollback(ctx)
			}
			rollbackTo(ctx, cp)
			r.rollbackAll(ctx, executed, checkpoints)
			return RunResult{Completed: false, AbortedPhase: p.Name, RolledBack: append(namesOf(executed), p.Name)},
				fmt.Errorf("phase %q: strict mode treats accumulated errors as fatal", p.Name)
		}

		executed = append(executed, p)
		checkpoints = append(checkpoints, cp)
	}

	return RunResult{Completed: true}, nil
}

// rollbackAll unwinds every already-executed phase in reverse order,
// invoking its Rollback hook (if any) before restoring its checkpoint.
func (r *Runner) rollbackAll(ctx *Context, executed []Phase, checkpoints []checkpoint) {
	for i := len(executed) - 1; i >= 0; i-- {
		if executed[i].Rollback != nil {
			executed[i].Rollback(ctx)
		}
		rollbackTo(ctx, checkpoints[i])
	}
}

func namesOf(phases []Phase) []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.Name
	}
	return out
}
