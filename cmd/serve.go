package cmd

import (
	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the job list, single job lookup, skill recommendation and résumé
matching over HTTP until interrupted.`,
	Example: `  jobmatch serve
  jobmatch serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		store, err := application.Store(ctx)
		if err != nil {
			return err
		}

		opts := server.Options{
			Addr:           application.Config.Server.Addr,
			MaxUploadBytes: application.Config.Server.MaxUploadBytes,
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			opts.Addr = addr
		}

		srv := server.New(opts, store, application.Engine, application.Logger)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr)")
}
