package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/install"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "garbage is no", input: "sure why not\n", want: false},
		{name: "eof is no", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewWithIO(strings.NewReader(tt.input), &out)

			got, err := p.Confirm("Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestChoose(t *testing.T) {
	options := []string{"alpha", "beta", "gamma"}

	t.Run("picks by number", func(t *testing.T) {
		var out bytes.Buffer
		p := NewWithIO(strings.NewReader("2\n"), &out)

		idx, err := p.Choose("Pick one", options)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Contains(t, out.String(), "[2] beta")
	})

	t.Run("empty answer picks first", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("\n"), &bytes.Buffer{})

		idx, err := p.Choose("Pick one", options)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("eof declines", func(t *testing.T) {
		p := NewWithIO(strings.NewReader(""), &bytes.Buffer{})

		_, err := p.Choose("Pick one", options)
		require.ErrorIs(t, err, cdoterrors.ErrConfirmationDeclined)
	})

	t.Run("out of range", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("7\n"), &bytes.Buffer{})

		_, err := p.Choose("Pick one", options)
		require.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("not a number", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("beta\n"), &bytes.Buffer{})

		_, err := p.Choose("Pick one", options)
		require.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("no options", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("1\n"), &bytes.Buffer{})

		_, err := p.Choose("Pick one", nil)
		require.ErrorIs(t, err, ErrInvalidSelection)
	})
}

func TestAskIntent(t *testing.T) {
	t.Run("everything with defaults", func(t *testing.T) {
		// First choice, first profile, no to symlinks.
		p := NewWithIO(strings.NewReader("1\n1\nn\n"), &bytes.Buffer{})

		opts, err := p.AskIntent()
		require.NoError(t, err)
		assert.True(t, opts.All)
		assert.Equal(t, "balanced", opts.Profile)
		assert.False(t, opts.Symlink)

		intent, err := install.NewIntent(opts)
		require.NoError(t, err)
		assert.Equal(t, install.AllComponents(), intent.Components)
	})

	t.Run("minimal autonomous symlinked", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("2\n3\ny\n"), &bytes.Buffer{})

		opts, err := p.AskIntent()
		require.NoError(t, err)
		assert.True(t, opts.Minimal)
		assert.Equal(t, "autonomous", opts.Profile)
		assert.True(t, opts.Symlink)

		intent, err := install.NewIntent(opts)
		require.NoError(t, err)
		assert.Equal(t, install.MinimalComponents(), intent.Components)
		assert.Equal(t, install.Symlink, intent.LinkMode)
	})

	t.Run("custom component list", func(t *testing.T) {
		p := NewWithIO(strings.NewReader("3\nskills, hooks\n2\n\n"), &bytes.Buffer{})

		opts, err := p.AskIntent()
		require.NoError(t, err)
		assert.Equal(t, []string{"skills", "hooks"}, opts.Components)
		assert.Equal(t, "conservative", opts.Profile)

		intent, err := install.NewIntent(opts)
		require.NoError(t, err)
		assert.Equal(t, []install.ComponentKind{install.Skills, install.Hooks}, intent.Components)
	})
}

func TestPrompterImplementsInstallPrompter(t *testing.T) {
	var _ install.Prompter = New()
}

// A closed stdin must never resolve a template conflict as an overwrite.
func TestInstallTemplateClosedStdinKeepsExistingFile(t *testing.T) {
	bundle := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "templates", "go-project"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(bundle, "templates", "go-project", "CLAUDE.md"),
		[]byte("# From the bundle\n"), 0o644))

	workDir := t.TempDir()
	existing := filepath.Join(workDir, "CLAUDE.md")
	require.NoError(t, os.WriteFile(existing, []byte("# My edits\n"), 0o644))

	installer := install.NewInstaller(bundle, install.WithInstallLogger(logging.ForTest(t)))
	p := NewWithIO(strings.NewReader(""), &bytes.Buffer{})

	err := installer.InstallTemplate("go-project", workDir, p)
	require.ErrorIs(t, err, cdoterrors.ErrConfirmationDeclined)

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "# My edits\n", string(content))
}
