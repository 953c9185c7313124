// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecosyz/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON query interface over HTTP",
	Long: `Serve exposes GET /api/search?q=&type=&page=&limit=&debug= returning the
result envelope, plus /healthz and Prometheus metrics at /metrics. The result
cache lives for the life of the process and is shared by all requests.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		viper.Set("server.addr", addr)
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	srv := api.New(eng.service, logger, eng.registry)
	return srv.Run(cmd.Context(), cfg.Server.Addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr)")

	rootCmd.AddCommand(serveCmd)
}
