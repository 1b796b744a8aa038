package deletion

import (
	"context"

	"github.com/robinjoseph08/golib/logger"
)

// Executor runs commands in order and tracks the ones that succeeded. When
// a command fails, every previously-succeeded command is undone in reverse
// order and the original error is returned unchanged. The guarantee is
// that either every command in the sequence executed or none of their
// effects remain.
type Executor struct {
	log      logger.Logger
	executed []Command
}

func NewExecutor() *Executor {
	return &Executor{log: logger.New()}
}

// Execute runs one command. On failure it rolls back everything executed so
// far and returns the command's error as-is.
func (e *Executor) Execute(ctx context.Context, cmd Command) error {
	if err := cmd.Execute(ctx); err != nil {
		e.rollback(ctx)
		return err
	}

	e.executed = append(e.executed, cmd)
	return nil
}

// Run executes the commands in order, stopping (and rolling back) at the
// first failure.
func (e *Executor) Run(ctx context.Context, cmds []Command) error {
	for _, cmd := range cmds {
		if err := e.Execute(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// rollback undoes the executed commands in reverse order. An error from an
// individual undo must never mask the error that triggered the rollback, so
// it is logged and skipped.
func (e *Executor) rollback(ctx context.Context) {
	for i := len(e.executed) - 1; i >= 0; i-- {
		cmd := e.executed[i]
		if err := cmd.Undo(ctx); err != nil {
			e.log.Err(err).Warn("rollback step failed", logger.Data{"command": cmd.Name()})
		}
	}
	e.executed = e.executed[:0]
}

// Clear resets the executed-list after a fully successful sequence.
func (e *Executor) Clear() {
	e.executed = e.executed[:0]
}
