package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blockidx/daatsearch/docstore"
	"github.com/blockidx/daatsearch/index"
	"github.com/blockidx/daatsearch/query"
)

var queryIndexDir string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Open a search session against a built index",
	Run: func(_ *cobra.Command, _ []string) {
		log := newLogger()

		indexDir := firstNonEmpty(queryIndexDir, viper.GetString("index"), "./index")

		manifest, err := index.ReadManifest(indexDir)
		if err != nil {
			die("failed to read manifest: %s", err)
		}
		table, err := index.LoadLexiconTable(indexDir)
		if err != nil {
			die("failed to load lexicon: %s", err)
		}
		store, err := docstore.Open(filepath.Join(indexDir, "documents.sqlite3"))
		if err != nil {
			die("failed to open document store: %s", err)
		}
		defer store.Close()

		log.Info().Uint32("chunks", manifest.ChunkCount).Msg("index loaded")
		runInteractiveLoop(os.Stdin, os.Stdout, indexDir, manifest, table, store)
	},
}

func runInteractiveLoop(in *os.File, out *os.File, indexDir string, manifest index.Manifest, table *index.LexiconTable, store *docstore.Store) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintln(out, "1) conjunctive (AND)  2) disjunctive (OR)  3) exit")
		fmt.Fprint(out, "choice: ")
		choiceLine, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		choice, err := strconv.Atoi(strings.TrimSpace(choiceLine))
		if err != nil {
			color.New(color.FgRed).Fprintln(out, "unrecognized menu selection, try again")
			continue
		}
		if choice == 3 {
			return
		}
		if choice != 1 && choice != 2 {
			color.New(color.FgRed).Fprintln(out, "unrecognized menu selection, try again")
			continue
		}

		fmt.Fprint(out, "query: ")
		queryLine, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		terms, err := query.PrepareTerms(queryLine)
		if err != nil {
			color.New(color.FgRed).Fprintln(out, "empty query, try again")
			continue
		}

		var results []query.Result
		if choice == 1 {
			results, err = query.Conjunctive(indexDir, manifest, table, terms)
		} else {
			results, err = query.Disjunctive(indexDir, manifest, table, terms)
		}
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "query failed: %s\n", err)
			continue
		}
		renderResults(out, results, store)
	}
}

func renderResults(out *os.File, results []query.Result, store *docstore.Store) {
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return
	}
	tw := tablewriter.NewWriter(out)
	tw.SetHeader([]string{"rank", "docId", "score", "snippet"})
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, r := range results {
		body, err := store.Lookup(r.DocID)
		if err != nil {
			body = "<missing>"
		}
		tw.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(uint64(r.DocID), 10),
			strconv.FormatFloat(r.Score, 'f', 4, 64),
			snippet(body, 80),
		})
	}
	tw.Render()
}

func snippet(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryIndexDir, "index", "", "directory holding the built index, lexicon, manifest, and document store (default ./index)")
}
