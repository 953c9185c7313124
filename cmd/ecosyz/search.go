// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecosyz/internal/search"
	"github.com/pdiddy/ecosyz/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one federated query and print the ranked results",
	Long: `Search sends the query to every configured provider concurrently, merges
records that describe the same item, ranks the rest, and prints one page.

Use --save to write the query and envelope to a YAML query file, or --load to
print a previously saved file without querying providers.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	if load, _ := cmd.Flags().GetString("load"); load != "" {
		qf, err := search.ReadQueryFile(load)
		if err != nil {
			return err
		}
		return printEnvelope(qf.Envelope, asJSON)
	}

	typ, _ := cmd.Flags().GetString("type")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	debug, _ := cmd.Flags().GetBool("debug")
	req := search.Request{
		Q:     strings.Join(args, " "),
		Type:  typ,
		Page:  page,
		Limit: limit,
		Debug: debug,
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	env, err := eng.service.Query(cmd.Context(), req)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := search.WriteQueryFile(save, req, env); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file: %s\n", save)
	}
	return printEnvelope(env, asJSON)
}

func printEnvelope(env types.Envelope, asJSON bool) error {
	if asJSON {
		return search.FormatJSON(env, os.Stdout)
	}
	search.FormatTable(env, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().String("type", types.TypeAll, "resource type: paper, dataset, code, model, hardware, video or all")
	searchCmd.Flags().Int("page", 1, "page number (1-based)")
	searchCmd.Flags().Int("limit", 0, "results per page (default search.default_limit)")
	searchCmd.Flags().Bool("debug", false, "include merge decisions")
	searchCmd.Flags().Bool("json", false, "output the envelope as JSON")
	searchCmd.Flags().String("save", "", "write query and results to a YAML query file")
	searchCmd.Flags().String("load", "", "print a saved YAML query file instead of querying")

	rootCmd.AddCommand(searchCmd)
}
