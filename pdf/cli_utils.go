package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// errCommandTimeout is returned when the command outlives its deadline
var errCommandTimeout = errors.New("command timed out")

// execCommandWithTimeout executes a command with a timeout and returns its
// combined output together with the process exit code (-1 when the process
// never reported one)
func execCommandWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	// don't wait on grandchildren still holding the output pipe after a kill
	cmd.WaitDelay = 2 * time.Second
	output, err := cmd.CombinedOutput()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, -1, fmt.Errorf("%w after %v", errCommandTimeout, timeout)
	}
	if ctx.Err() != nil {
		return output, -1, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), fmt.Errorf("command failed: %w", err)
		}
		return output, -1, fmt.Errorf("command failed: %w", err)
	}

	return output, 0, nil
}
