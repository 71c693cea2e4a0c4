package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/promptdesk/server/internal/tui"
)

const usage = `promptdesk terminal client

environment:
  PROMPTDESK_TOKEN         bearer token for the API (required)
  PROMPTDESK_API_ENDPOINT  API base URL, default http://localhost:8080
  PROMPTDESK_WS_ENDPOINT   feed URL, default ws://localhost:8080/api/v1/ws

obtain a token by signing in via /api/v1/auth/{provider}, or locally with
scripts/gen_test_token.go.`

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println(usage)
		return
	}

	// the workspace cannot submit prompts without a token, so fail here
	// with a pointer instead of inside the TUI
	if os.Getenv("PROMPTDESK_TOKEN") == "" {
		fmt.Fprintln(os.Stderr, "PROMPTDESK_TOKEN is not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	app := tui.NewApp(env)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "promptdesk tui: %v\n", err)
		os.Exit(1)
	}
}
