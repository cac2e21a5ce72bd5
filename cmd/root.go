package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Skill-based job matching CLI",
	Long: `Jobmatch harvests job postings, extracts the skills they ask for and
ranks them against your résumé or an explicit list of skills.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(cmd.Context(), configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		current = application
		return nil
	},
}

// current is closed by Execute once the command has returned
var current *app.App

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)

	if current != nil {
		if cerr := current.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close app: %w", cerr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input (unknown format, empty résumé, no skills)
// and 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case app.IsInvalidInput(err):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.jobmatch/config.yaml)")
}
