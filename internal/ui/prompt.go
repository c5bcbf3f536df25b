// ABOUTME: Interactive prompts for credentials and signup details
// ABOUTME: Builds huh forms for whatever the user did not pass as flags

package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bloomrefresh/bloom-cli/internal/models"
)

// ErrAborted is returned when the user cancels a prompt
var ErrAborted = errors.New("prompt cancelled")

// Prompter asks for missing input on a terminal
type Prompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// NewPrompter creates a prompter reading from in and drawing to out.
// Accessible mode replaces the TUI with plain line prompts.
func NewPrompter(in io.Reader, out io.Writer, accessible bool) *Prompter {
	return &Prompter{in: in, out: out, accessible: accessible}
}

// Login fills in whichever of username and password are empty
func (p *Prompter) Login(ctx context.Context, creds *models.LoginRequest) error {
	fields := loginFields(creds)
	if len(fields) == 0 {
		return nil
	}
	return p.run(ctx, huh.NewGroup(fields...).Title("Log in to Bloom Refresh"))
}

// Signup fills in missing signup fields
func (p *Prompter) Signup(ctx context.Context, in *models.SignupRequest) error {
	fields := signupFields(in)
	if len(fields) == 0 {
		return nil
	}
	return p.run(ctx, huh.NewGroup(fields...).Title("Create an account"))
}

// Confirm asks a yes/no question, defaulting to no
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	var ok bool
	err := p.run(ctx, huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&ok),
	))
	return ok, err
}

func (p *Prompter) run(ctx context.Context, group *huh.Group) error {
	form := huh.NewForm(group).
		WithTheme(theme()).
		WithAccessible(p.accessible).
		// Ctrl-C is delivered through ctx by the caller
		WithProgramOptions(tea.WithoutSignalHandler()).
		WithInput(p.in).
		WithOutput(p.out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func loginFields(creds *models.LoginRequest) []huh.Field {
	var fields []huh.Field
	if strings.TrimSpace(creds.Username) == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(required("username")))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password")))
	}
	return fields
}

func signupFields(in *models.SignupRequest) []huh.Field {
	var fields []huh.Field
	if strings.TrimSpace(in.Username) == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&in.Username).Validate(required("username")))
	}
	if in.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&in.Email).Validate(func(s string) error {
			if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
				return errors.New("invalid email format")
			}
			return nil
		}))
	}
	if in.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password).
			Validate(required("password")))
	}
	if in.Role == "" {
		fields = append(fields, huh.NewSelect[models.Role]().
			Title("I want to").
			Options(
				huh.NewOption("Volunteer at events", models.RoleVolunteer),
				huh.NewOption("Organize events", models.RoleOrganizer),
			).
			Value(&in.Role))
	}
	return fields
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

// theme returns a huh theme matching the CLI palette
func theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(Primary)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(Muted)

	return t
}
