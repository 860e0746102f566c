package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metoxid/metoxid-cli/internal/cli"
	"github.com/metoxid/metoxid-cli/pkg/metadata"
)

// commandContext builds the shared context from the root's --config flag.
func commandContext(cmd *cobra.Command) (*cli.CommandContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return cli.NewCommandContext(configPath)
}

// openStore validates path and loads its metadata.
func openStore(ctx *cli.CommandContext, path string) (*metadata.Store, error) {
	if err := cli.ValidateFilePath(path); err != nil {
		return nil, err
	}
	return metadata.Load(path, ctx.Logger)
}

// findCategory matches a category by name, ignoring case.
func findCategory(store *metadata.Store, name string) (int, error) {
	if i := store.CategoryIndex(name); i >= 0 {
		return i, nil
	}
	for i, c := range store.Categories() {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}

	names := make([]string, 0, store.Len())
	for _, c := range store.Categories() {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return -1, fmt.Errorf("category %q not found: %s has no metadata", name, store.Path())
	}
	return -1, fmt.Errorf("category %q not found (available: %s)", name, strings.Join(names, ", "))
}
