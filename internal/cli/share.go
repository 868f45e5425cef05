package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"swcommons/internal/views"
	"swcommons/pkg/models"
)

func newShareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "share <collection> <id>",
		Short: "Print a shareable link for a blog post or document",
		Long: `Blog posts are shared as a prefilled email link. Research papers and
readings print their canonical page URL.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.entity(args[0])
			if err != nil {
				return err
			}
			base := a.client.BaseURL()
			out := cmd.OutOrStdout()

			switch {
			case def.Collection == models.BlogPosts:
				ref, err := models.NewRef(def.Collection, args[1])
				if err != nil {
					return usagef("%v", err)
				}
				rec, err := a.client.Get(cmd.Context(), ref)
				if err != nil {
					return err
				}
				shared, err := views.ShareBlogPost(nil, base, def, rec.(*models.BlogPost))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, shared.Link)
			case def.DetailPath != "":
				dv, err := views.NewDetailView(def, a.client, base, args[1])
				if err != nil {
					return err
				}
				link, err := dv.Share(nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, link)
			default:
				return usagef("%s records have no share link", def.Collection)
			}
			return nil
		},
	}
}
