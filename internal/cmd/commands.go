package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bqam/scriptterm/internal/config"
	"github.com/bqam/scriptterm/internal/interpreter"
	"github.com/bqam/scriptterm/internal/scripts"
)

var interpretersCmd = &cobra.Command{
	Use:   "interpreters",
	Short: "List the available interpreters",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := interpreter.DefaultRegistry()
		for _, name := range reg.Names() {
			i, err := reg.ByName(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s %s", i.Name, i.Binary)
			if len(i.Extensions) > 0 {
				fmt.Printf("  (%s)", strings.Join(i.Extensions, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the stored scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.shutdown()

		names, err := scripts.List(config.ScriptsDir(env.dataDir))
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No stored scripts. Drop files into", config.ScriptsDir(env.dataDir))
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript [session-id]",
	Short: "List recorded sessions, or print one session's transcript",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.shutdown()

		if env.store == nil {
			return fmt.Errorf("transcript store unavailable")
		}

		ctx := cmd.Context()
		if len(args) == 0 {
			sessions, err := env.store.Sessions(ctx)
			if err != nil {
				return err
			}
			for _, s := range sessions {
				script := s.ScriptPath
				if script == "" {
					script = "(interactive)"
				}
				fmt.Printf("%s  %-8s %-30s %s\n", s.ID, s.Interpreter, script, humanize.Time(s.StartedAt))
			}
			return nil
		}

		content, err := env.store.Transcript(ctx, args[0])
		if err != nil {
			return err
		}
		// The raw transcript is full of escape sequences; print plain
		// text unless the caller asked for raw bytes.
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			_, err = os.Stdout.Write(content)
			return err
		}
		fmt.Println(ansi.Strip(string(content)))
		return nil
	},
}

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print the directories scriptterm uses",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDirFlag, _ := cmd.Flags().GetString("data-dir")
		dataDir, err := config.DataDir(dataDirFlag)
		if err != nil {
			return err
		}
		fmt.Println("data:    ", dataDir)
		fmt.Println("scripts: ", config.ScriptsDir(dataDir))
		fmt.Println("prefs:   ", config.PrefsPath(dataDir))
		fmt.Println("log:     ", config.LogPath(dataDir))
		return nil
	},
}

func init() {
	transcriptCmd.Flags().Bool("raw", false, "Print the raw transcript bytes including escape sequences")
}
