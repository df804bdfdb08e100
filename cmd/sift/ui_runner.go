package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sift/internal/driver"
	"sift/internal/source"
	"sift/internal/ui"
)

type checkOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runCheckDirWithUI runs a directory check while a Bubble Tea progress model
// consumes its event stream.
func runCheckDirWithUI(ctx context.Context, title, dir string, parser driver.Parser, set *driver.PluginSet, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListTargetFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		fileSet, results, err := driver.CheckDir(ctx, dir, parser, set, optsCopy)
		outcomeCh <- checkOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
