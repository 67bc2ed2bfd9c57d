package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Iron-Ham/eisen/internal/render"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the matrix and redraw it when tasks change",
	Long: `Show the matrix and redraw it whenever another eisen process saves
changes, and periodically so urgency follows the clock.

watch never writes and does not take the writer lock, so it can run next
to 'eisen tui' or other commands. Only the file backend can be watched.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("category", "", "only tasks in this category")
}

func runWatch(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if err := applyCategoryFlag(cmd, ws); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		redraw := false
		if f, ok := out.(*os.File); ok {
			redraw = render.IsTerminal(f)
		}

		var mu sync.Mutex
		draw := func() {
			mu.Lock()
			defer mu.Unlock()
			if redraw {
				fmt.Fprint(out, clearScreen)
			}
			r := newRenderer(cmd, ws)
			fmt.Fprintln(out, r.Matrix(ws.View.Quadrants(), ws.View.Selected(), ws.View.Completion()))
			fmt.Fprintln(out, r.Theme.Muted.Render("Updated "+ws.Now().Local().Format(time.Kitchen)+". Ctrl+C to stop."))
		}
		draw()

		if interval := ws.Config.TUI.RefreshInterval(); interval > 0 {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						draw()
					}
				}
			}()
		}

		return ws.Watch(ctx, draw)
	}, workspace.ReadOnly())
}
