package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "admin <on|off|toggle|status>",
		Short:     "Show or change admin mode",
		Long:      "Admin mode reveals the create, edit and delete commands. It is stored locally and grants no server permission.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "on":
				err = a.admin.Set(true)
			case "off":
				err = a.admin.Set(false)
			case "toggle":
				_, err = a.admin.Toggle()
			}
			if err != nil {
				return fmt.Errorf("failed to save admin mode: %w", err)
			}
			state := "off"
			if a.admin.Enabled() {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin mode: %s\n", state)
			a.logger.Debug("Admin state file", map[string]interface{}{"path": a.admin.Path()})
			return nil
		},
	}
	return cmd
}
