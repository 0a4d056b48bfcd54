package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/bqam/scriptterm/internal/cmd"
	"github.com/bqam/scriptterm/internal/config"
)

func main() {
	// Load the user-level env file first so a project-local one can
	// override it.
	if dataDir, err := config.DataDir(""); err == nil {
		_ = godotenv.Load(filepath.Join(dataDir, ".env.local"))
	}
	_ = godotenv.Load(".env.local")

	if os.Getenv("SCRIPTTERM_PROFILE") != "" {
		go func() {
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				fmt.Fprintln(os.Stderr, "pprof:", err)
			}
		}()
	}

	cmd.Execute()
}
