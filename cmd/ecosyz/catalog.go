// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecosyz/internal/catalog"
	"github.com/pdiddy/ecosyz/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local curated catalog",
	Long: `Catalog manages a local SQLite database of curated resources. When
catalog.path is set, the catalog is queried alongside the remote providers.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.yaml...]",
	Short: "Load resources from YAML files into the catalog",
	Long: `Import reads YAML lists of resources (id, type, title, authors, year,
url, license, description, tags, meta) and upserts them by id. A file with
an invalid entry is rejected as a whole.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	total := 0
	for _, path := range args {
		n, err := store.ImportYAML(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %d resources\n", path, n)
		total += n
	}
	count, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d resources; catalog holds %d\n", total, count)
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rs, err := store.List(cmd.Context(), typ, limit)
	if err != nil {
		return err
	}
	env := types.Envelope{Results: rs, Total: len(rs), Page: 1, Limit: len(rs)}
	if rs == nil {
		env.Results = []types.Resource{}
	}
	return printEnvelope(env, asJSON)
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = viper.GetString("catalog.path")
	}
	if path == "" {
		return nil, fmt.Errorf("no catalog: set catalog.path or pass --path")
	}
	return catalog.Open(path, logger)
}

func init() {
	catalogCmd.PersistentFlags().String("path", "", "catalog database file (default catalog.path)")

	catalogListCmd.Flags().String("type", types.TypeAll, "resource type filter")
	catalogListCmd.Flags().Int("limit", 0, "maximum entries (0 for all)")
	catalogListCmd.Flags().Bool("json", false, "output as JSON")

	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}
