// Where: internal/infra/interaction/selector.go
// What: Prompter backed by huh forms.
// Why: Keyboard-driven inputs, choices and confirmations in the terminal.
package interaction

import (
	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

// fields runs the individual huh widgets; tests replace them.
var fields = struct {
	input   func(title string, suggestions []string, value *string) error
	choose  func(title string, options []huh.Option[string], value *string) error
	chooseN func(title string, options []huh.Option[string], value *[]string) error
	confirm func(title string, value *bool) error
}{
	input: func(title string, suggestions []string, value *string) error {
		field := huh.NewInput().Title(title).Suggestions(suggestions).Value(value)
		if len(suggestions) > 0 {
			field.Placeholder(suggestions[0])
		}
		return field.Run()
	},
	choose: func(title string, options []huh.Option[string], value *string) error {
		return huh.NewSelect[string]().Title(title).Options(options...).Value(value).Run()
	},
	chooseN: func(title string, options []huh.Option[string], value *[]string) error {
		return huh.NewMultiSelect[string]().Title(title).Options(options...).Value(value).Run()
	},
	confirm: func(title string, value *bool) error {
		return huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(value).Run()
	},
}

// HuhPrompter implements Prompter on top of huh.
type HuhPrompter struct{}

func (HuhPrompter) Input(title string, suggestions []string) (string, error) {
	var value string
	if err := fields.input(title, suggestions, &value); err != nil {
		return "", errors.Wrap(err, "prompt input")
	}
	return value, nil
}

func (HuhPrompter) SelectValue(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	var value string
	if err := fields.choose(title, toHuh(options), &value); err != nil {
		return "", errors.Wrap(err, "prompt select")
	}
	return value, nil
}

// MultiSelect returns the values of every chosen option, possibly none.
func (HuhPrompter) MultiSelect(title string, options []SelectOption) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	var values []string
	if err := fields.chooseN(title, toHuh(options), &values); err != nil {
		return nil, errors.Wrap(err, "prompt multi select")
	}
	return values, nil
}

// Confirm starts from def so that pressing enter keeps it.
func (HuhPrompter) Confirm(title string, def bool) (bool, error) {
	value := def
	if err := fields.confirm(title, &value); err != nil {
		return false, errors.Wrap(err, "prompt confirm")
	}
	return value, nil
}

func toHuh(options []SelectOption) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, opt := range options {
		out = append(out, huh.NewOption(opt.Label, opt.Value))
	}
	return out
}
