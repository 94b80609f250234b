package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/service"
	"smartnotes/internal/vault"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a directory of markdown files as notes",
		Long: `Create one note per markdown file below dir and index it. The note title
is the file's first level-1 heading or its file name; folder names become tags.
Hidden directories such as .obsidian are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()
			logger := contextutil.LoggerFromContext(ctx)

			files, err := vault.Scan(ctx, args[0])
			if err != nil {
				return err
			}

			notes := service.NewNoteService(a.Notes, nil, nil)
			var imported, skipped, unindexed int
			for _, f := range files {
				doc, err := vault.Load(f)
				if err != nil {
					logger.WarnContext(ctx, "skipping file", "path", f.RelPath, "error", err)
					skipped++
					continue
				}

				note, err := notes.Create(ctx, service.NoteInput{
					Title:    doc.Title,
					Content:  doc.Content,
					IsPublic: public,
					Tags:     doc.Tags,
				})
				var validationErr *service.ValidationError
				if errors.As(err, &validationErr) {
					logger.WarnContext(ctx, "skipping file", "path", f.RelPath, "error", err)
					skipped++
					continue
				}
				if err != nil {
					return err
				}
				imported++

				// The note is stored either way; a later reindex picks it up.
				if err := a.Pipeline.Index(ctx, note.ID, note.Title, note.Content); err != nil {
					logger.WarnContext(ctx, "note imported but not indexed", "path", f.RelPath, "note_id", note.ID, "error", err)
					unindexed++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes (%d skipped, %d not indexed)\n", imported, skipped, unindexed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "Mark imported notes as public")
	return cmd
}
