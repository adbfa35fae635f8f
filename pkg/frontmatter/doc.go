// Package frontmatter parses YAML frontmatter from markdown manifest files
// such as SKILL.md and agent definitions.
package frontmatter
