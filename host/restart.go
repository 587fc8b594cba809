package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

var ErrNoRestartCommand = errors.New("no restart command configured")

// CommandRestarter shuts Steam down with an external command. Steam relaunches
// itself under gaming mode; AfterRestart runs once the command succeeded.
type CommandRestarter struct {
	Command      []string
	AfterRestart func()
	Logger       *slog.Logger

	run func(ctx context.Context, name string, args ...string) error
}

func NewCommandRestarter(command []string, afterRestart func(), logger *slog.Logger) *CommandRestarter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRestarter{
		Command:      command,
		AfterRestart: afterRestart,
		Logger:       logger,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (r *CommandRestarter) Restart(ctx context.Context) error {
	if len(r.Command) == 0 {
		return ErrNoRestartCommand
	}

	r.Logger.Info("Restarting Steam", "command", r.Command)
	if err := r.run(ctx, r.Command[0], r.Command[1:]...); err != nil {
		return fmt.Errorf("running %s: %w", r.Command[0], err)
	}

	if r.AfterRestart != nil {
		r.AfterRestart()
	}
	return nil
}
