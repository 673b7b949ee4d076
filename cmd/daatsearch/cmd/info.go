package cmd

import (
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blockidx/daatsearch/index"
)

var infoIndexDir string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a built index's manifest",
	Run: func(_ *cobra.Command, _ []string) {
		indexDir := firstNonEmpty(infoIndexDir, viper.GetString("index"), "./index")

		manifest, err := index.ReadManifest(indexDir)
		if err != nil {
			die("failed to read manifest: %s", err)
		}

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"file", "blocks", "chunks"})
		tw.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, f := range manifest.Files {
			tw.Append([]string{f.Name, strconv.Itoa(f.BlockCount), strconv.Itoa(f.ChunkCount)})
		}
		tw.Render()
		color.New(color.Bold).Printf("total chunks: %d\n", manifest.ChunkCount)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVar(&infoIndexDir, "index", "", "directory holding the built index manifest (default ./index)")
}
