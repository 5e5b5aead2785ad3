package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/stats"
	"github.com/spf13/cobra"
)

var inspectEvents bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectEvents, "events", false,
		"dump every event of every track")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspects a MIDI file",
	Long:  `Inspects a MIDI file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := inspect(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func inspect(path string) error {
	f, err := smf.ReadFile(path, readOptions()...)
	if err != nil {
		return err
	}

	summary, err := stats.Summarize(f, path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}

	if inspectEvents {
		for i, t := range f.Tracks {
			fmt.Printf("track %v:\n", i)
			for _, ev := range t.Events {
				fmt.Printf("  %v\n", ev)
			}
		}
	}
	return nil
}
