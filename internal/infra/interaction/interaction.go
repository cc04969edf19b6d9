// Where: internal/infra/interaction/interaction.go
// What: Prompt contract and terminal detection.
// Why: Workflows ask questions through one interface that tests can script.
package interaction

import (
	"os"

	"github.com/mattn/go-isatty"
)

// SelectOption is one entry of a choice list. Label is shown, Value is returned.
type SelectOption struct {
	Label string
	Value string
}

// Prompter asks the user for input.
type Prompter interface {
	// Input reads free text. The first suggestion doubles as placeholder.
	Input(title string, suggestions []string) (string, error)
	// SelectValue returns the Value of the chosen option, or "" when there
	// is nothing to choose from.
	SelectValue(title string, options []SelectOption) (string, error)
	MultiSelect(title string, options []SelectOption) ([]string, error)
	Confirm(title string, def bool) (bool, error)
}

// IsTerminal reports whether file is attached to a terminal, Cygwin
// pseudo terminals included. Replaced in tests.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
