package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/scorer"
)

var signsStage string

// signsCmd represents the signs command
var signsCmd = &cobra.Command{
	Use:   "signs",
	Short: "List the practice signs",
	Args:  cobra.NoArgs,
	RunE:  runSigns,
}

func init() {
	rootCmd.AddCommand(signsCmd)

	signsCmd.Flags().StringVar(&signsStage, "stage", "", "only list this stage (letters, words)")
}

func runSigns(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load()
	if err != nil {
		return err
	}

	stages := c.Stages
	if signsStage != "" {
		st, err := c.Stage(signsStage)
		if err != nil {
			return err
		}
		stages = []catalog.Stage{*st}
	}

	rules := scorer.DefaultRegistry()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tID\tNAME\tSCORED")
	for _, st := range stages {
		for _, s := range st.Signs {
			scored := "no"
			if rules.Has(s.ID) {
				scored = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Name, s.ID, s.Name, scored)
		}
	}
	return w.Flush()
}
