package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pool.json>",
	Short: "Validate a pool file and report what would be dropped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open pool file: %w", err)
		}
		defer f.Close()

		pool, dropped, err := mcq.LoadPool(f)
		if err != nil {
			return fmt.Errorf("load pool: %w", err)
		}

		title := pool.Title
		if title == "" {
			title = "(sin título)"
		}
		fmt.Printf("Pool:      %s\n", title)
		if pool.Version != "" {
			fmt.Printf("Versión:   %s\n", pool.Version)
		}

		single, multi := 0, 0
		for _, q := range pool.Questions {
			if q.Type == mcq.TypeMulti {
				multi++
			} else {
				single++
			}
		}
		fmt.Printf("Preguntas: %d válidas (%d radio, %d checkbox)\n", len(pool.Questions), single, multi)

		if len(dropped) == 0 {
			fmt.Println("Descartes: ninguno")
			return nil
		}

		fmt.Printf("Descartes: %d\n", len(dropped))
		for _, reason := range dropped {
			fmt.Printf("  - %s\n", reason)
		}
		// Invalid questions are not fatal; the quiz runs on what is left.
		return nil
	},
}
