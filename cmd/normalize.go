package cmd

import (
	"fmt"
	"os"

	"github.com/midisuite/midifile/smf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file> [out]",
	Short: "Rewrites a MIDI file in canonical form",
	Long: `Rewrites a MIDI file in canonical form: minimal delta encodings,
running status applied wherever possible and repaired end-of-track markers.
Without an output path the file is rewritten in place.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		out := args[0]
		if len(args) == 2 {
			out = args[1]
		}
		if err := normalize(args[0], out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func normalize(in, out string) error {
	f, err := smf.ReadFile(in, readOptions()...)
	if err != nil {
		return err
	}
	for _, w := range f.Warnings {
		fmt.Fprintf(os.Stderr, "repaired: %v\n", w)
	}
	return f.WriteFile(out)
}
