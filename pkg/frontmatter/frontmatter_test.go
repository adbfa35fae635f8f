package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type skillMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func TestMustParse(t *testing.T) {
	doc := `---
name: tdd
description: Test-driven development workflow
---
# TDD

Write the test first.
`

	var matter skillMatter
	body, err := MustParse(strings.NewReader(doc), &matter)
	if err != nil {
		t.Fatalf("MustParse() error = %v", err)
	}

	if matter.Name != "tdd" {
		t.Errorf("Name = %q, want %q", matter.Name, "tdd")
	}
	if matter.Description != "Test-driven development workflow" {
		t.Errorf("Description = %q", matter.Description)
	}
	if !strings.HasPrefix(string(body), "# TDD") {
		t.Errorf("body = %q, want to start with heading", body)
	}
}

func TestMustParse_NoFrontmatter(t *testing.T) {
	var matter skillMatter
	_, err := MustParse(strings.NewReader("# Just a doc\n"), &matter)
	if !errors.Is(err, ErrMissingFrontmatter) {
		t.Errorf("error = %v, want ErrMissingFrontmatter", err)
	}
}

func TestMustParse_UnterminatedHeader(t *testing.T) {
	var matter skillMatter
	_, err := MustParse(strings.NewReader("---\nname: x\nno closing"), &matter)
	if !errors.Is(err, ErrMissingFrontmatter) {
		t.Errorf("error = %v, want ErrMissingFrontmatter", err)
	}
}

func TestParse_OptionalFrontmatter(t *testing.T) {
	content := "plain command definition\n"

	var matter skillMatter
	body, err := Parse(strings.NewReader(content), &matter)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if string(body) != content {
		t.Errorf("body = %q, want full content", body)
	}
	if matter.Name != "" {
		t.Errorf("matter should be untouched, got name %q", matter.Name)
	}
}

func TestParse_CRLF(t *testing.T) {
	doc := "---\r\nname: review\r\n---\r\nbody\r\n"

	var matter skillMatter
	body, err := Parse(strings.NewReader(doc), &matter)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if matter.Name != "review" {
		t.Errorf("Name = %q, want review", matter.Name)
	}
	if string(body) != "body\r\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SKILL.md")
	content := "---\nname: debugging\ndescription: Systematic debugging\n---\nSteps.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var matter skillMatter
	if _, err := ParseFile(path, &matter); err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if matter.Name != "debugging" {
		t.Errorf("Name = %q", matter.Name)
	}
}

func TestParseFile_Missing(t *testing.T) {
	var matter skillMatter
	if _, err := ParseFile(filepath.Join(t.TempDir(), "SKILL.md"), &matter); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustParse_InvalidYAML(t *testing.T) {
	var matter skillMatter
	_, err := MustParse(strings.NewReader("---\n: : :\n---\nbody"), &matter)
	if err == nil {
		t.Error("expected YAML parse error")
	}
}
