// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/joho/godotenv"
	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting RelayHub v%s", nuts.GetVersion())

	// .env is optional; deployments usually set RELAYHUB_* variables directly
	if err := godotenv.Load(); err != nil {
		nuts.L.Infof("[Main] No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ____       __            __  __      __  ",
		"   / __ \\___  / /___ ___  __/ / / /_  __/ /_ ",
		"  / /_/ / _ \\/ / __ `/ / / / /_/ / / / / __ \\",
		" / _, _/  __/ / /_/ / /_/ / __  / /_/ / /_/ /",
		"/_/ |_|\\___/_/\\__,_/\\__, /_/ /_/\\__,_/_.___/ ",
		"                   /____/                     " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
