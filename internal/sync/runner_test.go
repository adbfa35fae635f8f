package sync

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// fakeRunner records invocations and serves scripted results. Shared by
// the adapter tests.
type fakeRunner struct {
	// tools on the fake PATH
	tools map[string]bool

	// calls records every Run/Output invocation as "name arg1 arg2 ...".
	calls []string

	// failOn makes Run/Output fail for commands containing the substring.
	failOn string

	// outputs maps a command substring to canned Output content.
	outputs map[string]string
}

func (r *fakeRunner) LookPath(name string) bool {
	return r.tools[name]
}

func (r *fakeRunner) record(name string, args []string) string {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	return call
}

func (r *fakeRunner) Run(name string, args ...string) error {
	call := r.record(name, args)
	if r.failOn != "" && strings.Contains(call, r.failOn) {
		return errors.Newf("scripted failure for %q", call)
	}
	return nil
}

func (r *fakeRunner) Output(name string, args ...string) (string, error) {
	call := r.record(name, args)
	if r.failOn != "" && strings.Contains(call, r.failOn) {
		return "", errors.Newf("scripted failure for %q", call)
	}
	for sub, out := range r.outputs {
		if strings.Contains(call, sub) {
			return out, nil
		}
	}
	return "", nil
}

// calledWith reports whether any recorded call contains the substring.
func (r *fakeRunner) calledWith(sub string) bool {
	for _, c := range r.calls {
		if strings.Contains(c, sub) {
			return true
		}
	}
	return false
}
