package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smartnotes/internal/search"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		mode   string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search notes",
		Long: `Search notes by keyword frequency (keyword), chunk embedding similarity
(semantic) or a weighted blend of both (hybrid).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			resp, err := a.Ranker.Search(cmd.Context(), search.Request{
				Query: strings.Join(args, " "),
				Mode:  search.Mode(mode),
				Limit: limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			fmt.Fprintf(out, "Found %d notes in %s (%s)\n", resp.TotalFound, resp.Elapsed.Round(time.Microsecond), resp.Mode)
			for i, res := range resp.Results {
				fmt.Fprintf(out, "%2d. [%.3f] %s (%s)\n", i+1, res.Score, res.Note.Title, res.Note.ID)
				for _, chunk := range res.MatchedChunks {
					fmt.Fprintf(out, "      %s\n", chunk)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(search.ModeKeyword), "Search mode: keyword, semantic or hybrid")
	cmd.Flags().IntVarP(&limit, "limit", "l", search.DefaultLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response as JSON")
	return cmd
}
