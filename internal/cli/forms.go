package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// errCanceled is returned when the user backs out of a form or prompt.
var errCanceled = errors.New("canceled")

// Prompter asks the user for member fields and confirmations.
type Prompter interface {
	// MemberForm lets the user edit f in place. title heads the form.
	MemberForm(title string, f *types.MemberFields) error
	// Confirm asks a yes/no question.
	Confirm(title, description string) (bool, error)
}

// huhPrompter is the terminal Prompter.
type huhPrompter struct{}

var genderOptions = []huh.Option[string]{
	huh.NewOption("Male", string(types.GenderMale)),
	huh.NewOption("Female", string(types.GenderFemale)),
	huh.NewOption("Other", string(types.GenderOther)),
}

func (huhPrompter) MemberForm(title string, f *types.MemberFields) error {
	gender := string(f.Gender)
	if gender == "" {
		gender = string(types.GenderMale)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(requireText),
			huh.NewSelect[string]().Title("Gender").Options(genderOptions...).Value(&gender),
			huh.NewInput().Title("Birth date").Placeholder("1970").Value(&f.BirthDate),
			huh.NewInput().Title("Death date").Placeholder("leave empty if living").Value(&f.DeathDate),
			huh.NewInput().Title("Birthplace").Value(&f.BirthPlace),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Occupation").Value(&f.Occupation),
			huh.NewInput().Title("Partner").Value(&f.Partner),
			huh.NewInput().Title("Photo URL").Placeholder("https://").Value(&f.PhotoURL),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCanceled
		}
		return err
	}
	f.Gender = types.Gender(gender)
	return nil
}

func (huhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
