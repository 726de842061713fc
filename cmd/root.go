package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/shiftcrew/internal/config"
)

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftcrew",
		Short:         "Volunteer shift scheduling and notifications",
		Long:          "ShiftCrew schedules volunteer shifts and sends the emails that go with them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewServeCmd(cfg))
	root.AddCommand(NewNotifyCmd(cfg))
	root.AddCommand(NewUsersCmd(cfg))
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command.
func Execute(cfg *config.AppConfig) {
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
