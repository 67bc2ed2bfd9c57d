package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/config"
	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/logging"
	"github.com/Iron-Ham/eisen/internal/render"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "eisen",
	Short: "Eisenhower matrix task manager",
	Long: `Eisen sorts your tasks into the four quadrants of the Eisenhower matrix:
important tasks are the ones with High priority, urgent tasks are the ones
due within the urgency window (48 hours by default).

Tasks and categories are stored locally and saved automatically.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/eisen/config.yaml)")
	rootCmd.PersistentFlags().String("dir", "", "data directory (overrides storage.dir)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: file, sqlite or memory")
	bindGlobalFlags()
}

// bindGlobalFlags connects the persistent flags to their viper keys.
func bindGlobalFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("storage.dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	// A .env file in the working directory seeds EISEN_* variables; real
	// environment variables win.
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("EISEN")
	// Replace dots with underscores for nested keys in env vars
	// e.g., EISEN_STORAGE_BACKEND for storage.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the logger described by cfg. Logging failures never
// stop a command; they fall back to a discarding logger.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(cfg.Storage.ResolveDir(), cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// withWorkspace opens the configured workspace, runs fn and closes the
// workspace, flushing every pending write before returning.
func withWorkspace(cmd *cobra.Command, fn func(context.Context, *workspace.Workspace) error, opts ...workspace.Option) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts = append([]workspace.Option{
		workspace.WithLogger(logger),
		workspace.WithCommand(cmd.CommandPath()),
	}, opts...)
	ws, err := workspace.Open(ctx, cfg, opts...)
	if err != nil {
		if errors.Is(err, workspace.ErrLocked) {
			return fmt.Errorf("%w\nClose the other eisen session or use 'eisen watch' to follow it", err)
		}
		return err
	}

	runErr := fn(ctx, ws)
	// Close with a fresh context so a canceled command still flushes.
	closeErr := ws.Close(context.WithoutCancel(ctx))
	return errors.Join(runErr, closeErr)
}

// newRenderer sizes a renderer for the command's output. Output that is
// not a terminal gets the mono theme.
func newRenderer(cmd *cobra.Command, ws *workspace.Workspace) *render.Renderer {
	themeName := ws.Config.TUI.Theme
	width := render.DefaultWidth
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		width = render.TerminalWidth(f)
		if !render.IsTerminal(f) {
			themeName = render.ThemeMono
		}
	} else {
		themeName = render.ThemeMono
	}
	r := render.New(render.ThemeFor(themeName), width, ws.Now(), ws.MatrixOptions())
	r.ShowCompleted = ws.Config.TUI.ShowCompleted
	return r
}

// parseCategory normalizes a category argument and rejects empty labels.
func parseCategory(value string) (string, error) {
	label := category.Normalize(value)
	if label == "" {
		return "", errors.NewValidationError("cannot be empty").WithField("category")
	}
	return label, nil
}
