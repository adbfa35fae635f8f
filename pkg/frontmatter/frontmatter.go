package frontmatter

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingFrontmatter is returned by MustParse when no frontmatter is found.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// Parse extracts YAML frontmatter and body content from a reader.
// If no frontmatter is present, matter is left untouched and the full
// content is returned as body.
func Parse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, false)
}

// MustParse is like Parse but returns ErrMissingFrontmatter when the
// document has no frontmatter block. Use it for files where the manifest
// header is required (SKILL.md).
func MustParse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, true)
}

// ParseFile reads path and parses its frontmatter like MustParse.
func ParseFile[T any](path string, matter *T) (body []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return MustParse(f, matter)
}

func parse[T any](r io.Reader, matter *T, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, body, ok := split(content)
	if !ok {
		if required {
			return nil, ErrMissingFrontmatter
		}
		return content, nil
	}

	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// split separates the frontmatter header from the body. The header must
// start at the first byte with a "---" line and end with another "---" line.
func split(content []byte) (header, body []byte, ok bool) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, nil, false
	}

	// Skip the opening delimiter line.
	rest := content[3:]
	if len(rest) > 0 && rest[0] == '\r' {
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}

	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) < 2 {
		parts = bytes.SplitN(rest, []byte("\r\n---"), 2)
	}
	if len(parts) < 2 {
		return nil, nil, false
	}

	body = parts[1]
	if len(body) > 0 && body[0] == '\r' {
		body = body[1:]
	}
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}

	return parts[0], body, true
}
