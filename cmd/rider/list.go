package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hill-rider/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all generation strategies",
	Long:  `Shows a list of all terrain generation strategies that can be selected with --strategy.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	strategies := registry.List()

	if len(strategies) == 0 {
		fmt.Println("No strategies available.")
		return
	}

	fmt.Println("Available strategies:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, s := range strategies {
		if len(s.Name) > maxNameLen {
			maxNameLen = len(s.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, s := range strategies {
		fmt.Printf("  %-*s  %s\n", maxNameLen, s.Name, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'rider ride --strategy <name>' to ride one.")
}
