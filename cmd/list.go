package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/logger"
	"github.com/zhubert/chatlog/internal/markup"
)

// listTitleWidth is the title column width of the plain-text listing
const listTitleWidth = 48

var (
	listGroup     string
	listFavorites bool
	listFilter    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the conversation list as plain text",
	Long: `Fetches the conversation list from the archive server and prints it
grouped the same way the TUI sidebar shows it.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listGroup, "group", "g", "", "Only list conversations in this group")
	listCmd.Flags().BoolVarP(&listFavorites, "favorites", "f", false, "Only list favorites")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only list titles containing this text")
	listCmd.MarkFlagsMutuallyExclusive("group", "favorites")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	convs, err := newClient(cfg).Conversations(context.Background())
	if err != nil {
		return fmt.Errorf("error listing conversations: %w", err)
	}

	cat := catalog.New()
	cat.Set(convs)

	groupFilter := listGroup
	if listFavorites {
		groupFilter = catalog.FavoritesFilter
	}
	writeList(cmd.OutOrStdout(), cat.DeriveView(groupFilter, listFilter))
	return nil
}

// writeList prints rows as group headings followed by indented entries
func writeList(w io.Writer, rows []catalog.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No conversations.")
		return
	}
	for i, row := range rows {
		if row.Kind == catalog.RowHeader {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, markup.Line(row.Label))
			continue
		}

		conv := row.Conversation
		star := " "
		if conv.IsFavorite {
			star = "★"
		}
		title := markup.Line(conv.DisplayTitle())
		if title == "" {
			title = "(untitled)"
		}
		title = runewidth.FillRight(runewidth.Truncate(title, listTitleWidth, "…"), listTitleWidth)
		fmt.Fprintf(w, "  %s %s  %-10s  %-8s  %s\n", star, title, markup.Line(conv.CreatedDate()), markup.Line(string(conv.TotalLength)), markup.Line(conv.ID))
	}
}
