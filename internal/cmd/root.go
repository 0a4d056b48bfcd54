package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/bqam/scriptterm/internal/config"
	"github.com/bqam/scriptterm/internal/db"
	apperr "github.com/bqam/scriptterm/internal/errors"
	"github.com/bqam/scriptterm/internal/telemetry"
	sessterm "github.com/bqam/scriptterm/internal/term"
	ui "github.com/bqam/scriptterm/internal/ui/model"
	"github.com/bqam/scriptterm/internal/ui/styles"
	"github.com/bqam/scriptterm/internal/version"
)

func init() {
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "Custom scriptterm data directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.Flags().StringP("interpreter", "i", "", "Interpreter to start")
	rootCmd.Flags().StringP("script", "s", "", "Stored script to run")
	rootCmd.Flags().StringP("cwd", "c", "", "Working directory for the interpreter")
	rootCmd.Flags().BoolP("help", "h", false, "Help")

	rootCmd.AddCommand(
		interpretersCmd,
		scriptsCmd,
		transcriptCmd,
		dirsCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "scriptterm",
	Short: "A terminal for script interpreters",
	Long:  "A terminal emulator that runs stored scripts or interactive interpreter sessions and records their transcripts",
	Example: `
# Start an interactive python session
scriptterm -i python

# Run a stored script (the interpreter is picked by extension)
scriptterm -s hello.py

# Run with debug logging and a custom data directory
scriptterm -d -D /path/to/data -i sh

# List the recorded sessions and print one transcript
scriptterm transcript
scriptterm transcript 0d9c0a4e-...
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.shutdown()

		interpName, _ := cmd.Flags().GetString("interpreter")
		script, _ := cmd.Flags().GetString("script")
		cwd, _ := cmd.Flags().GetString("cwd")
		if interpName == "" && script == "" {
			// Match the original's behavior of refusing to start a
			// terminal with nothing to run, but offer a default.
			interpName = "sh"
		}

		sess := sessterm.NewSession(sessionOptions(env, interpName, script, cwd))

		ctx := cmd.Context()
		if err := sess.Init(ctx); err != nil {
			var uerr *apperr.UserError
			if errors.As(err, &uerr) {
				fmt.Fprintln(os.Stderr, apperr.FormatErrorForDisplay(uerr))
				telemetry.Default().Track(telemetry.EventCommandError, map[string]any{
					"category": apperr.CategoryName(uerr.Category),
				})
				return errors.New("session could not start")
			}
			return err
		}
		defer sess.Teardown(context.Background())

		telemetry.Default().Track(telemetry.EventSessionStart, map[string]any{
			"interpreter": sess.InterpreterName(),
		})

		model := ui.New(sess, env.store)
		var teaEnv uv.Environ = os.Environ()
		program := tea.NewProgram(
			model,
			tea.WithEnvironment(teaEnv),
			tea.WithContext(ctx),
		)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return errors.New("scriptterm crashed; check the log file under the data directory")
		}

		telemetry.Default().Track(telemetry.EventSessionEnd, map[string]any{
			"interpreter": sess.InterpreterName(),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Default().FlushSync()
	},
}

var banner = lipgloss.NewStyle().Bold(true).SetString("SCRIPTTERM")

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("scriptterm version %s\n", version.Version)
			return
		}
	}
	// cobra has no hook for printing the version itself, so render
	// the banner through a colorprofile writer up front and prepend
	// it to the version template.
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(banner.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// sessionOptions assembles the session options from the command
// environment. A missing transcript store leaves Recorder nil: a nil
// *db.Store stuffed into the interface would carry its type and slip
// past the session's nil check.
func sessionOptions(env *appEnv, interpName, script, cwd string) sessterm.Options {
	opts := sessterm.Options{
		Interpreter: interpName,
		Script:      script,
		ScriptsDir:  config.ScriptsDir(env.dataDir),
		Cwd:         cwd,
		SchemeCount: len(styles.Schemes),
		Prefs:       env.prefs,
	}
	if env.store != nil {
		opts.Recorder = env.store
	}
	return opts
}

// appEnv is the shared per-command environment: resolved data dir,
// preference store, transcript store.
type appEnv struct {
	dataDir string
	prefs   *config.Prefs
	store   *db.Store
	closeDB func() error
	logFile *os.File
}

func (e *appEnv) shutdown() {
	if e.closeDB != nil {
		_ = e.closeDB()
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// setupEnv handles the common setup for every command: data dir,
// logging, preferences, database, telemetry.
func setupEnv(cmd *cobra.Command) (*appEnv, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDirFlag, _ := cmd.Flags().GetString("data-dir")

	dataDir, err := config.DataDir(dataDirFlag)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDataDir(dataDir); err != nil {
		return nil, err
	}

	env := &appEnv{dataDir: dataDir}

	// The TUI owns stdout, so logs go to a file under the data dir.
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logFile, err := os.OpenFile(config.LogPath(dataDir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		env.logFile = logFile
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))
	}

	env.prefs = config.LoadPrefs(config.PrefsPath(dataDir))

	// Transcripts are an extra: a broken database degrades to an
	// unrecorded session instead of blocking the terminal.
	conn, err := db.Connect(cmd.Context(), dataDir)
	if err != nil {
		slog.Warn("Transcript store unavailable", "error", err)
	} else {
		env.store = db.NewStore(conn)
		env.closeDB = conn.Close
	}

	telemetry.InitDefault(shouldEnableMetrics(), map[string]any{
		"version": version.Version,
	})

	return env, nil
}

func shouldEnableMetrics() bool {
	return os.Getenv("SCRIPTTERM_METRICS") == "1"
}
