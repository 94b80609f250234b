package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReindexCmd(opts *rootOptions) *cobra.Command {
	var noteID string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the chunk index",
		Long: `Re-chunk and re-embed notes with the current embedder configuration.
Chunks whose text is already stored reuse the stored vector. This is
necessary after changing EMBEDDER, EMBEDDING_DIM or CHUNK_MAX_SIZE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()

			if noteID != "" {
				note, err := a.Notes.Get(ctx, noteID)
				if err != nil {
					return fmt.Errorf("failed to load note %s: %w", noteID, err)
				}
				if err := a.Pipeline.Index(ctx, note.ID, note.Title, note.Content); err != nil {
					return err
				}
				chunks, err := a.Chunks.ListByNote(ctx, note.ID)
				if err != nil {
					return fmt.Errorf("failed to list chunks of note %s: %w", note.ID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reindexed note %s (%d chunks)\n", note.ID, len(chunks))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reindexing all notes with %s (dimension %d)\n",
				a.Embedder.ModelInfo(), a.Embedder.Dimension())
			if err := a.Pipeline.IndexAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reindexing completed")
			return nil
		},
	}
	cmd.Flags().StringVar(&noteID, "note", "", "Reindex a single note by ID")
	return cmd
}
