package cmd

import (
	"fmt"
	"os"

	"github.com/midisuite/midifile/excerpt"
	"github.com/midisuite/midifile/smf"
	"github.com/spf13/cobra"
)

var (
	excerptOffset uint64
	excerptNotes  int
)

func init() {
	excerptCmd.Flags().Uint64Var(&excerptOffset, "offset", 0,
		"tick at which the excerpt starts")
	excerptCmd.Flags().IntVar(&excerptNotes, "notes", 10,
		"max note events kept per track")
	rootCmd.AddCommand(excerptCmd)
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt <file> <out>",
	Short: "Cuts a short excerpt out of a MIDI file",
	Long:  `Cuts a short excerpt out of a MIDI file`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := makeExcerpt(args[0], args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func makeExcerpt(in, out string) error {
	f, err := smf.ReadFile(in, readOptions()...)
	if err != nil {
		return err
	}
	return excerpt.Create(f, excerptOffset, excerptNotes).WriteFile(out)
}
