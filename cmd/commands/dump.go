package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/metoxid/metoxid-cli/internal/cli"
	"github.com/metoxid/metoxid-cli/pkg/metadata"
	"github.com/metoxid/metoxid-cli/pkg/models"
	"github.com/metoxid/metoxid-cli/pkg/utils"
)

var (
	dumpCategory string
	dumpWidth    int
)

// NewDumpCommand creates the dump command
func NewDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the metadata of a file",
		Long: `Print every metadata category and field of an image file.

Examples:
  # Table of all fields
  metoxid dump photo.jpg

  # Only the EXIF category, values not truncated
  metoxid dump photo.jpg --category exif --width 0

  # Machine readable
  metoxid dump photo.jpg -o json
  metoxid dump photo.png -o yaml`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return cli.ValidateOutputFormat(outputFormat)
		},
		RunE: runDump,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	cmd.Flags().StringVarP(&dumpCategory, "category", "c", "", "Only print this category")
	cmd.Flags().IntVar(&dumpWidth, "width", 60, "Truncate text values to this many cells (0 disables)")

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	store, err := openStore(ctx, args[0])
	if err != nil {
		return err
	}

	categories := store.Categories()
	if dumpCategory != "" {
		i, err := findCategory(store, dumpCategory)
		if err != nil {
			return err
		}
		categories = categories[i : i+1]
	}

	dump := buildDump(store, categories)

	outputFormat, _ := cmd.Flags().GetString("output")
	if format := cli.OutputFormat(outputFormat); format != cli.FormatText {
		return cli.Encode(cmd.OutOrStdout(), format, dump)
	}
	return printDump(cmd.OutOrStdout(), dump, dumpWidth)
}

func buildDump(store *metadata.Store, categories []*metadata.Category) models.FileDump {
	dump := models.FileDump{
		Path:       store.Path(),
		Format:     store.Format(),
		Categories: make([]models.CategoryDump, 0, len(categories)),
	}
	for _, c := range categories {
		cd := models.CategoryDump{Name: c.Name}
		for _, f := range c.Fields() {
			cd.Fields = append(cd.Fields, models.FieldDump{Name: f.Name, Value: f.String()})
		}
		dump.Categories = append(dump.Categories, cd)
	}
	return dump
}

func printDump(w io.Writer, dump models.FileDump, width int) error {
	fmt.Fprintf(w, "File: %s\n", dump.Path)
	fmt.Fprintf(w, "Format: %s\n", dump.Format)

	if len(dump.Categories) == 0 {
		fmt.Fprintln(w, "\nNo metadata found.")
		return nil
	}

	for _, c := range dump.Categories {
		fmt.Fprintf(w, "\n%s (%d)\n", c.Name, len(c.Fields))

		table := cli.NewTable("FIELD", "VALUE")
		table.MaxCell = width
		for _, f := range c.Fields {
			table.Add(f.Name, utils.SingleLine(f.Value))
		}
		if err := table.Render(w); err != nil {
			return err
		}
	}
	return nil
}
