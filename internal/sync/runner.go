package sync

import (
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Runner executes external commands. Adapters depend on this narrow
// interface instead of os/exec so tests can substitute a fake and assert
// on the exact invocations.
type Runner interface {
	// LookPath reports whether the named tool is on PATH.
	LookPath(name string) bool

	// Run executes the command, streaming its output to the user's
	// terminal. Stdin is connected for interactive authentication.
	Run(name string, args ...string) error

	// Output executes the command and captures combined output.
	Output(name string, args ...string) (string, error)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

// NewRunner returns the default Runner.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (execRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}
	return nil
}

func (execRunner) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return string(out), errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}
	return string(out), nil
}
