package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingerspell/internal/store"
)

var (
	historySession string
	historyLimit   int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded practice attempts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historySession, "session", "", "only show attempts of this session")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of attempts (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := store.New(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	var attempts []*store.Attempt
	if historySession != "" {
		attempts, err = st.Attempts().ListBySession(historySession)
	} else {
		attempts, err = st.Attempts().List(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to list attempts: %w", err)
	}

	if len(attempts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSESSION\tSIGN\tOUTCOME\tBEST\tFRAMES\tDURATION")
	for _, a := range attempts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
			a.CreatedAt.Local().Format(time.DateTime), shortID(a.SessionID), a.SignID, a.Outcome,
			a.BestConfidence, a.Frames, a.Duration.Round(time.Millisecond))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
