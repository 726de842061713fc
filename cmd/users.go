package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/shiftcrew/internal/config"
	"github.com/shaharia-lab/shiftcrew/internal/logger"
	"github.com/shaharia-lab/shiftcrew/internal/service"
)

// NewUsersCmd returns the "users" command group.
func NewUsersCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage volunteers and admins",
	}
	cmd.AddCommand(newUsersImportCmd(cfg))
	return cmd
}

func newUsersImportCmd(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create users from a YAML file",
		Long: `Create users from a YAML file of the form:

  users:
    - first_name: Ann
      last_name: Lee
      email: ann@example.org
      is_admin: true

Users whose email is already registered are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			log := logger.NewConsoleLogger(os.Stderr, cfg.SlogLevel())

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			a, err := openApp(ctx, cfg, log, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			// Import never sends mail, so no notifier is wired.
			svc := service.NewUserService(a.users, nil, log)
			res, err := svc.ImportUsers(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d skipped\n", res.Created, res.Skipped)
			return nil
		},
	}
}
