package main

import (
	"os"

	"github.com/wonny/natal/cmd/natal/commands"
)

// main is the entry point for the natal CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/natal [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
