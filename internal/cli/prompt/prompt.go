// Package prompt implements the interactive front-end: numbered choice
// prompts and yes/no confirmations that translate answers into the same
// IntentOptions struct the flag-driven path uses.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/install"
)

// Sentinel errors for interactive selection.
var (
	// ErrInvalidSelection indicates the answer was not one of the options.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Prompter asks questions on a reader/writer pair. It implements
// install.Prompter.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a Prompter on stdin and stdout.
func New() *Prompter {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates a Prompter with a custom reader and writer for testing.
func NewWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Confirm asks a yes/no question, defaulting to no. EOF counts as a
// declined answer so a closed stdin can never confirm a destructive step.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.writer, "%s [y/N]: ", question)

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "reading answer")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose presents numbered options and returns the selected index.
// Pressing enter picks the first option; EOF counts as a declined
// answer so a closed stdin can never commit to a choice.
func (p *Prompter) Choose(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.Wrap(ErrInvalidSelection, "no options")
	}

	fmt.Fprintf(p.writer, "%s\n", question)
	for i, opt := range options {
		fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, opt)
	}
	fmt.Fprintf(p.writer, "Select [1]: ")

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, errors.Wrap(err, "reading selection")
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		if err != nil {
			return 0, cdoterrors.ErrConfirmationDeclined
		}
		return 0, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q is not a number", answer)
	}
	if n < 1 || n > len(options) {
		return 0, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(options))
	}
	return n - 1, nil
}

// componentSetChoices presented by AskIntent.
var componentSetChoices = []string{
	"everything (settings, skills, hooks, rules, agents, commands, mcp)",
	"minimal (settings and rules only)",
	"choose components",
}

// profileChoices presented by AskIntent, index-aligned with profiles.
var profileChoices = []string{
	"balanced - sensible permission defaults",
	"conservative - ask before most actions",
	"autonomous - broad permissions",
}

var profileByChoice = []string{"balanced", "conservative", "autonomous"}

// AskIntent walks the user through the install questions and returns the
// raw options. Feeding them through install.NewIntent keeps this path
// behaviorally identical to the flag-driven one.
func (p *Prompter) AskIntent() (install.IntentOptions, error) {
	var opts install.IntentOptions

	setChoice, err := p.Choose("What do you want to install?", componentSetChoices)
	if err != nil {
		return opts, err
	}

	switch setChoice {
	case 0:
		opts.All = true
	case 1:
		opts.Minimal = true
	default:
		fmt.Fprintf(p.writer, "Components (comma-separated: settings, skills, hooks, rules, agents, commands, mcp): ")
		line, err := p.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return opts, errors.Wrap(err, "reading components")
		}
		for _, name := range strings.Split(line, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				opts.Components = append(opts.Components, name)
			}
		}
	}

	profileChoice, err := p.Choose("Which permission profile?", profileChoices)
	if err != nil {
		return opts, err
	}
	opts.Profile = profileByChoice[profileChoice]

	symlink, err := p.Confirm("Symlink instead of copying? (changes in the bundle apply immediately)")
	if err != nil {
		return opts, err
	}
	opts.Symlink = symlink

	return opts, nil
}
