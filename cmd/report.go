package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/stats"
	"github.com/midisuite/midifile/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <dir> [maxNum]",
	Short: "Creates a report over a directory of MIDI files",
	Long:  `Creates a report over a directory of MIDI files`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 2 {
			arg1, err := strconv.Atoi(args[1])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}
		report(args[0], maxNum)
	},
}

type dirReport struct {
	numFiles    int64
	numBad      int64
	numEvents   int64
	numNotes    int64
	numWarnings int64
	seconds     float64
	noteCounts  []int64
}

func report(dir string, maxNum int) {
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		panic("Could not gather paths: " + err.Error())
	}

	var rep dirReport
	for _, path := range paths {
		f, err := smf.ReadFile(path, readOptions()...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %v: %v\n", path, err)
			rep.numBad += 1
			continue
		}
		summary, err := stats.Summarize(f, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %v: %v\n", path, err)
			rep.numBad += 1
			continue
		}
		rep.numFiles += 1
		rep.numEvents += int64(summary.NumEvents)
		rep.numNotes += int64(summary.NumNotes)
		rep.numWarnings += int64(len(summary.Warnings))
		rep.seconds += summary.Seconds
		rep.noteCounts = append(rep.noteCounts, int64(summary.NumNotes))
	}

	fmt.Printf("rep.numFiles: %v\n", rep.numFiles)
	fmt.Printf("rep.numBad: %v\n", rep.numBad)
	fmt.Printf("rep.numEvents: %v\n", rep.numEvents)
	fmt.Printf("rep.numNotes: %v\n", util.Sum(rep.noteCounts))
	fmt.Printf("rep.numWarnings: %v\n", rep.numWarnings)
	fmt.Printf("rep.seconds: %v\n", rep.seconds)
}
