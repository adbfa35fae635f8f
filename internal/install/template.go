package install

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// Prompter answers the questions template installation can raise.
// The CLI front-end implements it with interactive prompts; tests use a
// canned fake.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(question string) (bool, error)

	// Choose asks the user to pick one of the options, returning its index.
	Choose(question string, options []string) (int, error)
}

// Template conflict choices, in the order presented to the user.
var conflictChoices = []string{"overwrite", "merge", "cancel"}

const (
	choiceOverwrite = 0
	choiceMerge     = 1
	choiceCancel    = 2

	// choiceFresh marks a planned entry with no conflict to resolve.
	choiceFresh = -1
)

// templateAction is one planned entry placement with its resolved
// conflict decision.
type templateAction struct {
	entry  string
	src    string
	dest   string
	choice int
}

// InstallTemplate copies the named template bundle into workDir (the
// caller's working directory, not the configuration root). Existing
// destinations are never clobbered silently: the user chooses overwrite,
// merge, or cancel. All conflicts are decided before anything is written,
// so a cancel leaves the working directory exactly as it was. Merge
// copies entries that don't exist yet and leaves everything else alone.
func (i *Installer) InstallTemplate(name, workDir string, prompter Prompter) error {
	source := filepath.Join(i.bundleDir, templatesBundleDir, name)
	if !fileutil.Exists(source) {
		return errors.Wrapf(cdoterrors.ErrSourceMissing, "template %q", name)
	}

	entries, err := templateEntries(source)
	if err != nil {
		return err
	}

	plan := make([]templateAction, 0, len(entries))
	for _, entry := range entries {
		src := filepath.Join(source, entry)
		if !fileutil.IsDir(source) {
			// Single-file template: the source itself is the entry.
			src = source
		}
		action := templateAction{
			entry:  entry,
			src:    src,
			dest:   filepath.Join(workDir, entry),
			choice: choiceFresh,
		}

		if fileutil.Exists(action.dest) {
			choice, err := prompter.Choose(
				"destination "+entry+" already exists", conflictChoices)
			if err != nil {
				return err
			}
			if choice != choiceOverwrite && choice != choiceMerge {
				return cdoterrors.ErrConfirmationDeclined
			}
			action.choice = choice
		}

		plan = append(plan, action)
	}

	for _, action := range plan {
		switch action.choice {
		case choiceFresh:
			if err := i.placeTemplateEntry(action.src, action.dest); err != nil {
				return err
			}
			i.logger.Info("installed template entry", "entry", action.entry)
		case choiceOverwrite:
			if err := os.RemoveAll(action.dest); err != nil {
				return errors.Wrapf(err, "removing %s", action.dest)
			}
			if err := i.placeTemplateEntry(action.src, action.dest); err != nil {
				return err
			}
			i.logger.Info("overwrote template entry", "entry", action.entry)
		case choiceMerge:
			if !fileutil.IsDir(action.src) || !fileutil.IsDir(action.dest) {
				i.logger.Warn("merge only applies to directories, leaving existing entry", "entry", action.entry)
				continue
			}
			added, err := mergeDir(action.src, action.dest)
			if err != nil {
				return errors.Wrapf(err, "merging %s", action.entry)
			}
			i.logger.Info("merged template entry", "entry", action.entry, "added", added)
		}
	}

	return nil
}

// templateEntries lists the top-level entries of a template. A template
// that is a single file installs as that file.
func templateEntries(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, errors.Wrap(err, "stat template")
	}
	if !info.IsDir() {
		return []string{filepath.Base(source)}, nil
	}

	dirEntries, err := os.ReadDir(source)
	if err != nil {
		return nil, errors.Wrap(err, "reading template directory")
	}

	entries := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, e.Name())
	}
	return entries, nil
}

func (i *Installer) placeTemplateEntry(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}
	if fileutil.IsDir(src) {
		return fileutil.CopyDir(src, dest)
	}
	return fileutil.CopyFile(src, dest)
}

// mergeDir copies entries from src into dest that dest doesn't have yet,
// recursing into shared sub-directories. Existing files are left alone and
// nothing is deleted. Returns the number of entries copied.
func mergeDir(src, dest string) (int, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if !fileutil.Exists(destPath) {
			if entry.IsDir() {
				if err := fileutil.CopyDir(srcPath, destPath); err != nil {
					return added, err
				}
			} else {
				if err := fileutil.CopyFile(srcPath, destPath); err != nil {
					return added, err
				}
			}
			added++
			continue
		}

		if entry.IsDir() && fileutil.IsDir(destPath) {
			n, err := mergeDir(srcPath, destPath)
			if err != nil {
				return added, err
			}
			added += n
		}
	}

	return added, nil
}
