package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/midisuite/midifile/model"
	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/stats"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a MIDI inspection API",
	Long:  `Serves a MIDI inspection API`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

// HandleSummarize decodes the MIDI bytes of the request body and responds
// with a file summary.
func HandleSummarize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := smf.ReadBytes(body, smf.WithLenient())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	summary, err := stats.Summarize(f, "")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	json.NewEncoder(w).Encode(summary)
}

// HandleNormalize decodes the MIDI bytes of the request body, leniently
// repairing what it can, and responds with the canonical encoding.
func HandleNormalize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := smf.ReadBytes(body, smf.WithLenient())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	out, err := f.Bytes()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(out)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/summarize", HandleSummarize).Methods("POST")
	router.HandleFunc("/normalize", HandleNormalize).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", servePort), handler))
}
