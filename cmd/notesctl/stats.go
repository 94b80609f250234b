package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index coverage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			stats, err := a.Pipeline.CoverageStats(cmd.Context())
			if err != nil {
				return err
			}
			queries, err := a.QueryLog.Count(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Coverage any `json:"coverage"`
					Queries  int `json:"queries_logged"`
				}{stats, queries})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Notes\t%d\n", stats.Notes)
			fmt.Fprintf(w, "Unindexed notes\t%d\n", stats.NotesWith0Chunks)
			fmt.Fprintf(w, "Chunks\t%d\n", stats.Chunks)
			fmt.Fprintf(w, "Distinct chunk texts\t%d\n", stats.DistinctHashes)
			fmt.Fprintf(w, "Chunk tokens (min/mean/p95/max)\t%d/%.1f/%d/%d\n",
				stats.ChunkTokenStats.Min, stats.ChunkTokenStats.Mean, stats.ChunkTokenStats.P95, stats.ChunkTokenStats.Max)
			fmt.Fprintf(w, "Chunker\t%s\n", stats.ChunkerVersion)
			fmt.Fprintf(w, "Embedding model\t%s\n", stats.EmbeddingModel)
			fmt.Fprintf(w, "Index version\t%s\n", stats.IndexVersion)
			fmt.Fprintf(w, "Queries logged\t%d\n", queries)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}
