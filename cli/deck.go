package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/deck"
)

func newDeckCmd(a *app) *cobra.Command {
	var content, out, notes string

	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Build the briefing deck as PPTX",
		Long: `Builds the slide deck from the built-in content, or from a YAML file given ` +
			`with --content. With --notes the speaker notes are also written as an HTML handout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeck(content)
			if err != nil {
				return err
			}

			data, err := deck.Build(d)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write deck: %w", err)
			}
			a.log.Info("deck written", zap.String("path", out), zap.Int("slides", len(d.Slides)))
			fmt.Fprintf(cmd.OutOrStdout(), "Deck:  %s (%d slides)\n", out, len(d.Slides))

			if notes == "" {
				return nil
			}
			html, err := deck.NotesHTML(d)
			if err != nil {
				return err
			}
			if err := os.WriteFile(notes, html, 0o644); err != nil {
				return fmt.Errorf("write notes: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notes: %s\n", notes)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "deck content YAML (default built-in deck)")
	cmd.Flags().StringVarP(&out, "out", "o", "briefing.pptx", "output PPTX file")
	cmd.Flags().StringVar(&notes, "notes", "", "also write the speaker notes as HTML")
	return cmd
}

func loadDeck(path string) (*deck.Deck, error) {
	if path == "" {
		return deck.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck content: %w", err)
	}
	defer f.Close()
	return deck.Load(f)
}
