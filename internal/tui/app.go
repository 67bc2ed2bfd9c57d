// Package tui is the interactive Eisenhower matrix.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/eisen/internal/event"
	"github.com/Iron-Ham/eisen/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	ws      *workspace.Workspace
	subs    []string
}

// New creates a new TUI application over ws
func New(ws *workspace.Workspace) *App {
	return &App{
		model: NewModel(ws),
		ws:    ws,
	}
}

// Run starts the TUI application and blocks until the user quits.
// Pending writes are left to the caller's Workspace.Close.
func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Quit cleanly on termination so the caller can flush pending writes
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	// Writer outcomes arrive on timer goroutines, but also synchronously
	// from Flush inside Update; Send must not block the caller.
	a.subs = append(a.subs,
		a.ws.Bus.Subscribe(event.TypeWriteFailed, func(e event.Event) {
			if ev, ok := e.(event.WriteFailedEvent); ok {
				go a.program.Send(writeFailedMsg{key: ev.Key, err: ev.Err})
			}
		}),
		a.ws.Bus.Subscribe(event.TypeWriteCompleted, func(e event.Event) {
			if ev, ok := e.(event.WriteCompletedEvent); ok {
				go a.program.Send(writeCompletedMsg{key: ev.Key})
			}
		}),
	)
	defer func() {
		for _, id := range a.subs {
			a.ws.Bus.Unsubscribe(id)
		}
	}()

	// Follow edits made by other processes when the backend supports it
	if a.ws.IsReadOnly() {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = a.ws.Watch(watchCtx, func() {
				a.program.Send(changedMsg{})
			})
		}()
	}

	_, err := a.program.Run()
	return err
}
