package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyx-daemon/circle/internal/config"
	"github.com/onyx-daemon/circle/internal/views"
)

func main() {
	if config.IsDebugEnabled() {
		f, err := tea.LogToFile("circle-debug.log", "debug")
		if err != nil {
			fmt.Printf("Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	app, err := views.NewAppModel()
	if err != nil {
		fmt.Printf("Error initializing application: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
