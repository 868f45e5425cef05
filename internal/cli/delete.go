package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"swcommons/internal/ui"
	"swcommons/pkg/models"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0], nil)
			if err != nil {
				return err
			}
			def := v.Definition()
			ref, err := models.NewRef(def.Collection, args[1])
			if err != nil {
				return usagef("%v", err)
			}

			confirm := func() bool {
				if yes {
					return true
				}
				if !ui.Interactive() {
					fmt.Fprintln(cmd.ErrOrStderr(), "Refusing to delete without a terminal; pass --yes")
					return false
				}
				return confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(def.Label)))
			}

			deleted, err := v.Delete(cmd.Context(), ref, confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), a.display.Success(fmt.Sprintf("Deleted %s %s", def.Collection, args[1])))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirmPrompt asks a yes/no question defaulting to no
func confirmPrompt(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
