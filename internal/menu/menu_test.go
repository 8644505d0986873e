package menu_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"

	"reel/internal/menu"
)

type scriptedPrompter struct {
	selections []string
	inputs     []string
	selectErr  error
}

func (p *scriptedPrompter) Select(_ string, options []string) (int, error) {
	if p.selectErr != nil {
		return 0, p.selectErr
	}
	if len(p.selections) == 0 {
		return 0, errors.New("selection script exhausted")
	}
	label := p.selections[0]
	p.selections = p.selections[1:]
	for i, option := range options {
		if option == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("option %q not offered", label)
}

func (p *scriptedPrompter) Input(string) (string, error) {
	if len(p.inputs) == 0 {
		return "", errors.New("input script exhausted")
	}
	value := p.inputs[0]
	p.inputs = p.inputs[1:]
	return value, nil
}

type call struct {
	name    string
	url     string
	convert bool
}

type recordingActions struct {
	calls []call
	errs  map[string]error
}

func (a *recordingActions) record(name, url string, convert bool) error {
	a.calls = append(a.calls, call{name: name, url: url, convert: convert})
	if a.errs != nil {
		return a.errs[name]
	}
	return nil
}

func (a *recordingActions) DownloadVideo(_ context.Context, url string, convert bool) error {
	return a.record("video", url, convert)
}

func (a *recordingActions) DownloadAudio(_ context.Context, url string) error {
	return a.record("audio", url, false)
}

func (a *recordingActions) RunBatch(context.Context) error   { return a.record("batch", "", false) }
func (a *recordingActions) ShowStatus(context.Context) error { return a.record("status", "", false) }
func (a *recordingActions) ShowHistory(context.Context) error {
	return a.record("history", "", false)
}

func runMenu(t *testing.T, prompter *scriptedPrompter, actions *recordingActions) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	m := menu.New(actions, menu.WithPrompter(prompter), menu.WithOutput(&out))
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return &out
}

func TestMenuDispatchesDownloads(t *testing.T) {
	prompter := &scriptedPrompter{
		selections: []string{menu.OptionVideo, menu.OptionVideoConvert, menu.OptionAudio, menu.OptionQuit},
		inputs:     []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"},
	}
	actions := &recordingActions{}
	runMenu(t, prompter, actions)

	want := []call{
		{name: "video", url: "https://example.com/1", convert: false},
		{name: "video", url: "https://example.com/2", convert: true},
		{name: "audio", url: "https://example.com/3", convert: false},
	}
	if len(actions.calls) != len(want) {
		t.Fatalf("expected %d calls, got %#v", len(want), actions.calls)
	}
	for i, w := range want {
		if actions.calls[i] != w {
			t.Fatalf("call %d = %#v, want %#v", i, actions.calls[i], w)
		}
	}
}

func TestMenuDispatchesUtilities(t *testing.T) {
	prompter := &scriptedPrompter{
		selections: []string{menu.OptionBatch, menu.OptionStatus, menu.OptionHistory, menu.OptionQuit},
	}
	actions := &recordingActions{}
	runMenu(t, prompter, actions)

	if len(actions.calls) != 3 {
		t.Fatalf("expected 3 calls, got %#v", actions.calls)
	}
	for i, name := range []string{"batch", "status", "history"} {
		if actions.calls[i].name != name {
			t.Fatalf("call %d = %q, want %q", i, actions.calls[i].name, name)
		}
	}
}

func TestMenuRepromptsOnEmptyURL(t *testing.T) {
	prompter := &scriptedPrompter{
		selections: []string{menu.OptionVideo, menu.OptionVideo, menu.OptionQuit},
		inputs:     []string{"   ", "https://example.com/1"},
	}
	actions := &recordingActions{}
	out := runMenu(t, prompter, actions)

	if len(actions.calls) != 1 {
		t.Fatalf("expected empty URL to be rejected, got %#v", actions.calls)
	}
	if !strings.Contains(out.String(), "a URL is required") {
		t.Fatalf("expected URL hint, got %q", out.String())
	}
}

func TestMenuSurvivesActionErrors(t *testing.T) {
	prompter := &scriptedPrompter{
		selections: []string{menu.OptionBatch, menu.OptionStatus, menu.OptionQuit},
	}
	actions := &recordingActions{errs: map[string]error{
		"batch": errors.New("another reel batch is already running"),
	}}
	out := runMenu(t, prompter, actions)

	if len(actions.calls) != 2 {
		t.Fatalf("expected loop to continue after error, got %#v", actions.calls)
	}
	if !strings.Contains(out.String(), "another reel batch is already running") {
		t.Fatalf("expected error message, got %q", out.String())
	}
}

func TestMenuStopsWhenActionCanceled(t *testing.T) {
	prompter := &scriptedPrompter{
		selections: []string{menu.OptionBatch, menu.OptionQuit},
	}
	actions := &recordingActions{errs: map[string]error{
		"batch": context.Canceled,
	}}
	var out bytes.Buffer
	m := menu.New(actions, menu.WithPrompter(prompter), menu.WithOutput(&out))
	if err := m.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(out.String(), "error:") {
		t.Fatalf("cancellation must not print an error line, got %q", out.String())
	}
	if len(actions.calls) != 1 {
		t.Fatalf("expected loop to stop after cancellation, got %#v", actions.calls)
	}
}

func TestMenuTreatsInterruptAsQuit(t *testing.T) {
	prompter := &scriptedPrompter{selectErr: terminal.InterruptErr}
	var out bytes.Buffer
	m := menu.New(&recordingActions{}, menu.WithPrompter(prompter), menu.WithOutput(&out))
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected clean exit on interrupt, got %v", err)
	}
}

func TestMenuStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompter := &scriptedPrompter{selections: []string{menu.OptionQuit}}
	m := menu.New(&recordingActions{}, menu.WithPrompter(prompter), menu.WithOutput(&bytes.Buffer{}))
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
