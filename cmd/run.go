package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/quizdeck/internal/app"
	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/store"
	"github.com/abhisek/quizdeck/internal/tutor"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <pool.json>",
	Short: "Start a quiz from a pool file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := mcq.LoadPoolFile(args[0])
		if err != nil {
			return fmt.Errorf("load pool: %w", err)
		}
		if len(pool.Questions) == 0 {
			return fmt.Errorf("pool %s has no valid questions", args[0])
		}

		// Open the event store for LLM request logging.
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		settings := mcq.DefaultSettings()
		if n, _ := cmd.Flags().GetInt("block-size"); n > 0 {
			settings.BlockSize = n
		}
		if noShuffle, _ := cmd.Flags().GetBool("no-shuffle"); noShuffle {
			settings.ShuffleEnabled = false
		}

		// The LLM provider is optional; the quiz works without it.
		var aiTutor session.Tutor
		var usage *llm.UsageTracker
		provider, tracker, err := llm.NewProviderFromEnv(ctx, st)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		} else {
			aiTutor = tutor.NewService(provider, tutor.DefaultConfig())
			usage = tracker
		}

		sess := session.New(aiTutor, settings, nil)
		sess.LoadPool(pool)

		return app.Run(sess, usage)
	},
}

func init() {
	runCmd.Flags().Int("block-size", 0, "Questions per block (default 10)")
	runCmd.Flags().Bool("no-shuffle", false, "Keep the pool's question order")
}
