package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
)

// Menu option labels, in display order.
const (
	OptionVideo        = "Download video"
	OptionVideoConvert = "Download video and convert"
	OptionAudio        = "Download audio"
	OptionBatch        = "Download playlist batches"
	OptionStatus       = "Show tool status"
	OptionHistory      = "Show download history"
	OptionQuit         = "Quit"
)

// Prompter abstracts interactive input so the loop is testable.
type Prompter interface {
	Select(message string, options []string) (int, error)
	Input(message string) (string, error)
}

// Actions is the surface the menu drives. The menu only sequences prompts;
// implementations decide how each action runs and what it prints.
type Actions interface {
	DownloadVideo(ctx context.Context, url string, convert bool) error
	DownloadAudio(ctx context.Context, url string) error
	RunBatch(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	ShowHistory(ctx context.Context) error
}

// Option configures the menu.
type Option func(*Menu)

// WithPrompter replaces the survey-backed prompter (primarily for tests).
func WithPrompter(p Prompter) Option {
	return func(m *Menu) {
		if p != nil {
			m.prompter = p
		}
	}
}

// WithOutput redirects menu messages away from stdout.
func WithOutput(w io.Writer) Option {
	return func(m *Menu) {
		if w != nil {
			m.out = w
		}
	}
}

// Menu is the interactive dispatch loop: prompt, dispatch, repeat until the
// quit option. Invalid or empty input never terminates the loop; action
// failures are printed and the menu returns to the prompt.
type Menu struct {
	prompter Prompter
	actions  Actions
	out      io.Writer
}

// New builds a menu over the provided actions.
func New(actions Actions, opts ...Option) *Menu {
	m := &Menu{
		prompter: surveyPrompter{},
		actions:  actions,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run drives the loop until the user quits or the context ends. Ctrl-C at a
// prompt quits cleanly; Ctrl-C during an action unwinds as context.Canceled.
func (m *Menu) Run(ctx context.Context) error {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintln(m.out, "reel")

	options := []string{
		OptionVideo,
		OptionVideoConvert,
		OptionAudio,
		OptionBatch,
		OptionStatus,
		OptionHistory,
		OptionQuit,
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := m.prompter.Select("What would you like to do?", options)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return fmt.Errorf("menu prompt: %w", err)
		}
		if choice < 0 || choice >= len(options) {
			continue
		}

		var actionErr error
		switch options[choice] {
		case OptionVideo:
			actionErr = m.download(ctx, false, true)
		case OptionVideoConvert:
			actionErr = m.download(ctx, true, true)
		case OptionAudio:
			actionErr = m.download(ctx, false, false)
		case OptionBatch:
			actionErr = m.actions.RunBatch(ctx)
		case OptionStatus:
			actionErr = m.actions.ShowStatus(ctx)
		case OptionHistory:
			actionErr = m.actions.ShowHistory(ctx)
		case OptionQuit:
			return nil
		}

		if actionErr != nil {
			if errors.Is(actionErr, terminal.InterruptErr) {
				return nil
			}
			if errors.Is(actionErr, context.Canceled) {
				return actionErr
			}
			color.New(color.FgRed).Fprintf(m.out, "error: %v\n", actionErr)
		}
	}
}

// download prompts for a URL and dispatches. An empty URL prints a hint and
// returns to the menu prompt.
func (m *Menu) download(ctx context.Context, convert, video bool) error {
	url, err := m.prompter.Input("Media URL:")
	if err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		fmt.Fprintln(m.out, "a URL is required")
		return nil
	}
	if video {
		return m.actions.DownloadVideo(ctx, url, convert)
	}
	return m.actions.DownloadAudio(ctx, url)
}

// surveyPrompter backs prompts with survey's terminal UI.
type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (int, error) {
	selected := 0
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: len(options),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return 0, err
	}
	return selected, nil
}

func (surveyPrompter) Input(message string) (string, error) {
	var value string
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
