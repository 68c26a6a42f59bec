package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"routelabel/internal/config"
	"routelabel/internal/inference"
)

// Access selects which permissions CheckDirectoryAccess requires.
type Access int

const (
	// AccessRead requires the directory to be listable.
	AccessRead Access = iota
	// AccessWrite requires the directory to accept new entries.
	AccessWrite
)

func (a Access) mode() uint32 {
	if a == AccessWrite {
		return unix.R_OK | unix.W_OK | unix.X_OK
	}
	return unix.R_OK | unix.X_OK
}

func (a Access) String() string {
	if a == AccessWrite {
		return "read/write"
	}
	return "read"
}

// modelCheckTimeout bounds the model health probe regardless of the
// configured request timeout.
const modelCheckTimeout = 10 * time.Second

// CheckModel verifies that the inference endpoint is reachable and reports
// the model as available. It makes a single attempt.
func CheckModel(ctx context.Context, cfg config.Model) Result {
	const name = "Model endpoint"

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return Result{Name: name, Detail: "missing model name"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	client := inference.NewClient(inference.Config{
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Name,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeModelError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", client.Endpoint())}
}

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, access.mode()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// summarizeModelError produces a human-readable summary for health check failures.
func summarizeModelError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (model server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (model server unreachable)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("model server unreachable (%v)", opErr.Err)
	}
	return err.Error()
}
