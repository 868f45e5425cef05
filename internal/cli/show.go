package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"swcommons/internal/views"
	"swcommons/pkg/models"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection> <id>",
		Short: "Show one record",
		Long: `Show prints one record. Research papers and readings open their document
view, with the download link and the shareable page URL.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.entity(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if def.DetailPath != "" {
				dv, err := views.NewDetailView(def, a.client, a.client.BaseURL(), args[1])
				if err != nil {
					return err
				}
				if err := dv.Load(cmd.Context()); err != nil {
					return err
				}
				text, err := a.display.Detail(dv, def)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
				return nil
			}

			ref, err := models.NewRef(def.Collection, args[1])
			if err != nil {
				return usagef("%v", err)
			}
			rec, err := a.client.Get(cmd.Context(), ref)
			if err != nil {
				return err
			}
			text, err := a.display.Record(def, rec)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
}
