package cmd

import (
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blockidx/daatsearch/build"
)

var (
	buildCorpus          string
	buildOutDir          string
	buildSegmentSizeMB   int
	buildIntermediateDir string
	buildDocCount        int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a compressed block-structured index from a TSV document collection",
	Run: func(_ *cobra.Command, _ []string) {
		log := newLogger()

		corpusPath := firstNonEmpty(buildCorpus, viper.GetString("corpus"))
		if corpusPath == "" {
			die("--corpus is required")
		}
		outDir := firstNonEmpty(buildOutDir, viper.GetString("out"), "./index")
		intermediateDir := firstNonEmpty(buildIntermediateDir, viper.GetString("intermediate"), filepath.Join(outDir, "intermediate"))

		corpus, err := os.Open(corpusPath)
		if err != nil {
			die("failed to open corpus: %s", err)
		}
		defer corpus.Close()

		info, err := corpus.Stat()
		if err != nil {
			die("failed to stat corpus: %s", err)
		}
		bar := progressbar.DefaultBytes(info.Size(), "indexing")
		reader := progressbar.NewReader(corpus, bar)

		docCount := buildDocCount
		if docCount == 0 {
			docCount = viper.GetInt("doc-count")
		}

		docStorePath := filepath.Join(outDir, "documents.sqlite3")
		result, err := build.Run(log, &reader, intermediateDir, outDir, docStorePath, buildSegmentSizeMB<<20, docCount)
		if err != nil {
			die("build failed: %s", err)
		}
		bar.Finish()
		log.Info().
			Int("documents", result.DocCount).
			Uint32("chunks", result.ChunkCount).
			Int("index_files", len(result.IndexFiles)).
			Msg("build complete")
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildCorpus, "corpus", "", "path to the tab-separated (docId, text) collection")
	buildCmd.Flags().StringVar(&buildOutDir, "out", "", "directory to write the index, lexicon, manifest, and document store to (default ./index)")
	buildCmd.Flags().StringVar(&buildIntermediateDir, "intermediate", "", "directory for intermediate merge-sort segments (default <out>/intermediate)")
	buildCmd.Flags().IntVar(&buildSegmentSizeMB, "segment-size-mb", 384, "size in megabytes of each in-memory segment before it is flushed")
	buildCmd.Flags().IntVar(&buildDocCount, "doc-count", 0, "total collection size N used by BM25 (default: number of distinct docIds observed)")
}
