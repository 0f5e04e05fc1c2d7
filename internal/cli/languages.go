package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/languages"
)

// languagesCommand creates the languages command.
func (c *CLI) languagesCommand() *cobra.Command {
	var blocks bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), languagesTable(languages.All, blocks))
			printNextStep("Generate code", "blockgen generate <workspace.json> -l "+languages.All[0].Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&blocks, "blocks", false, "list the supported block types")
	return cmd
}

// languagesTable renders langs as a table, optionally with every block type.
func languagesTable(langs []*generator.Language, blocks bool) string {
	headers := []string{"Language", "Blocks", "Indent", "Comment"}
	if blocks {
		headers = append(headers, "Block types")
	}

	rows := make([][]string, 0, len(langs))
	for _, lang := range langs {
		row := []string{
			lang.Name,
			strconv.Itoa(len(lang.Rules)),
			strconv.Quote(lang.Indent),
			strconv.Quote(lang.CommentPrefix),
		}
		if blocks {
			row = append(row, strings.Join(lang.BlockTypes(), "\n"))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return style.Foreground(colorGray).Bold(true)
			case col == 0:
				return style.Foreground(colorCyan)
			default:
				return style.Foreground(colorWhite)
			}
		}).
		Render()
}

// joinNames lists the language names for flag help.
func joinNames() string {
	return strings.Join(languages.Names(), ", ")
}
