// Package main is the entry point for the cdot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/peopleforrester/claude-dotfiles/cmd/cdot/commands"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", exitErr.Suggestion)
	}

	os.Exit(errors.Code(err))
}
