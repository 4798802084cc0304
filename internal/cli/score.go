package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingerspell/internal/hand"
	"github.com/ayusman/fingerspell/internal/scorer"
)

var scoreTarget string

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <frame.json>",
	Short: "Score one recorded frame against a target sign",
	Long: `Score reads a recorded landmark frame and prints the verdict as JSON.
Use "-" to read the frame from standard input. The target defaults to the
frame's own target tag.

Example:
  fingerspell score fist.json --target A
  cat frame.json | fingerspell score -`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreTarget, "target", "t", "", "target sign id")
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	frame, err := hand.DecodeFrame(data)
	if err != nil {
		return err
	}

	target := scoreTarget
	if target == "" {
		target = frame.Target
	}
	if target == "" {
		return errors.New("no target sign: pass --target or tag the frame")
	}

	verdict, err := scorer.NewDefault().Score(frame.Primary(), target)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(verdict)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return data, nil
}
