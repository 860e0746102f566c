package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metoxid/metoxid-cli/internal/cli"
	"github.com/metoxid/metoxid-cli/pkg/metadata"
)

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <category> <field> <value>",
		Short: "Set one metadata field and save the file",
		Long: `Set the value of a single metadata field without opening the TUI.

The value is parsed the same way as when edited interactively. Other
sections of the file are written back unchanged.

Examples:
  # Replace the file comment
  metoxid set photo.jpg Comment Comment "Harbour at dusk"

  # Edit an EXIF tag
  metoxid set photo.jpg Exif Exif.Image.Artist "Ann Example"

  # Edit an XMP property
  metoxid set photo.jpg "XMP Data" Xmp.dc.title "Harbour"`,
		Args: cobra.ExactArgs(4),
		RunE: runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	path, categoryName, fieldName, value := args[0], args[1], args[2], args[3]

	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	store, err := openStore(ctx, path)
	if err != nil {
		return err
	}

	category, err := findCategory(store, categoryName)
	if err != nil {
		return err
	}
	name := store.Category(category).Name

	if err := store.SetFieldValue(category, fieldName, value); err != nil {
		if errors.Is(err, metadata.ErrNoSuchField) || errors.Is(err, metadata.ErrReadOnly) {
			return err
		}
		return fmt.Errorf("invalid value for %s/%s: %w", name, fieldName, err)
	}

	if err := store.Save(); err != nil {
		return err
	}

	ctx.Logger.Info().Str("path", path).Str("field", name+"/"+fieldName).Msg("Set field")
	cli.PrintSuccess("Set %s/%s in %s", name, fieldName, path)
	return nil
}
