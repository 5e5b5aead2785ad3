package cmd

import (
	"github.com/midisuite/midifile/smf"
	"github.com/spf13/cobra"
)

var lenient bool

var rootCmd = &cobra.Command{
	Use:   "midifile",
	Short: "Standard MIDI file toolkit",
	Long:  `Inspect, repair, excerpt and serve standard MIDI files.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&lenient, "lenient", false,
		"tolerate and repair malformed files")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func readOptions() []smf.Option {
	if lenient {
		return []smf.Option{smf.WithLenient()}
	}
	return nil
}
