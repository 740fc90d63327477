// Package provision invokes the external hypervisor automation tool and
// interprets its output.
package provision

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/vmplane/vmplane/internal/logger"
	"github.com/vmplane/vmplane/internal/types"
)

// DefaultScriptPath is the default path to the PowerCLI creation script
const DefaultScriptPath = "scripts/create-vm.ps1"

// Outcome is the raw result of one provisioning tool invocation. All failure
// modes are reported through this value; Execute never panics or returns an
// error past this boundary.
type Outcome struct {
	Succeeded bool
	Output    string
	Error     string
}

// Executor runs the provisioning tool for one VM request
type Executor interface {
	Execute(ctx context.Context, req types.VMRequest) Outcome
}

// PowerCLIExecutor runs the PowerCLI wrapper script as a separate process.
// Exactly one invocation per call, no retry, no timeout: a hung script hangs
// the calling goroutine. Callers that want a deadline can pass a context
// with one.
type PowerCLIExecutor struct {
	// Binary is the PowerShell executable. Windows ships it as
	// "powershell", everywhere else PowerCLI requires "pwsh".
	Binary string
	// ScriptPath is the creation script handed to the binary.
	ScriptPath string
}

// NewPowerCLIExecutor creates an executor with the platform's PowerShell
// binary and the given script path
func NewPowerCLIExecutor(scriptPath string) *PowerCLIExecutor {
	if scriptPath == "" {
		scriptPath = DefaultScriptPath
	}
	return &PowerCLIExecutor{
		Binary:     platformBinary(),
		ScriptPath: scriptPath,
	}
}

func platformBinary() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	return "pwsh"
}

// Execute runs the creation script with the request fields as named
// arguments and captures stdout and stderr. A nonzero exit or a launch
// failure (binary missing, wrong platform binary configured) yields a failed
// Outcome, never an error.
func (e *PowerCLIExecutor) Execute(ctx context.Context, req types.VMRequest) Outcome {
	args := e.buildArgs(req)

	logger.InfoWithFields("Running provisioning tool", map[string]interface{}{
		"vm_name": req.Name,
		"binary":  e.Binary,
		"script":  e.ScriptPath,
	})

	var stdout, stderr bytes.Buffer
	// #nosec G204 -- arguments come from a validated request snapshot
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			// Launch failures (exec.ErrNotFound and friends) produce no
			// stderr, so fall back to the error itself.
			errMsg = err.Error()
		}
		logger.WarnWithFields("Provisioning tool failed", map[string]interface{}{
			"vm_name": req.Name,
			"error":   errMsg,
		})
		return Outcome{Succeeded: false, Output: stdout.String(), Error: errMsg}
	}

	return Outcome{Succeeded: true, Output: stdout.String()}
}

// buildArgs builds the command line from the 10 request snapshot fields
func (e *PowerCLIExecutor) buildArgs(req types.VMRequest) []string {
	return []string{
		"-NoProfile",
		"-NonInteractive",
		"-File", e.ScriptPath,
		"-VMName", req.Name,
		"-ESXiHost", req.ESXiHost,
		"-Datastore", req.Datastore,
		"-Network", req.Network,
		"-CPUCount", strconv.Itoa(req.CPUCount),
		"-MemoryGB", strconv.Itoa(req.MemoryGB),
		"-DiskGB", strconv.Itoa(req.DiskGB),
		"-ISOPath", req.ISOPath,
		"-GuestOS", req.GuestOS,
		"-VCenter", req.VCenter,
	}
}
