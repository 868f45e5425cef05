package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swcommons/internal/views"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		fields     []string
		entries    []string
		attachment string
	)
	cmd := &cobra.Command{
		Use:   "create <kind>",
		Short: "Submit a new record through the content form",
		Long: `Create fills the submission form for one content kind and submits it.
Inputs are addressed by their form slot; see 'swctl schema <kind>'. Values
left out take the kind's defaults, and dates are stamped automatically.`,
		Example: `  swctl create job --field title="Case Manager" --field organization="Harbor Services" \
      --field location=Leeds --field description="Adult services team"
  swctl create country --field country=Kenya --regulator "KNASW=https://knasw.org"
  swctl create research --field title="Kinship care" --field content=Mwangi --file paper.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := views.NewForm(a.registry, a.client, a.client, a.admin, a.logger)
			if err := form.SelectKind(args[0]); err != nil {
				return err
			}

			assigns, err := parseAssignments(fields)
			if err != nil {
				return err
			}
			for _, as := range assigns {
				if err := form.Set(as.key, as.value); err != nil {
					return err
				}
			}
			if err := fillEntries(form, entries); err != nil {
				return err
			}

			if attachment != "" {
				att, closeFile, err := openAttachment(attachment)
				if err != nil {
					return err
				}
				defer closeFile()
				if err := form.Attach(att); err != nil {
					return err
				}
			}

			kind := form.Kind().Kind
			sub, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Created %s %s, listed at %s", kind, sub.Ref, sub.Redirect)
			fmt.Fprint(cmd.OutOrStdout(), a.display.Success(msg))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Form input as slot=value (repeatable)")
	cmd.Flags().StringArrayVar(&entries, "regulator", nil, "Repeatable entry as name=url")
	cmd.Flags().StringVar(&attachment, "file", "", "File to upload with the record")
	return cmd
}

// fillEntries writes name=url pairs into the form's entry rows, one row each
func fillEntries(form *views.Form, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	lf := listField(form.Kind())
	if lf == nil || len(lf.Fields) == 0 {
		return usagef("%s has no repeatable entries", form.Kind().Kind)
	}
	for i, p := range pairs {
		first, second, _ := strings.Cut(p, "=")
		if i > 0 {
			if err := form.AddEntry(); err != nil {
				return err
			}
		}
		if err := form.SetEntry(i, lf.Fields[0].Name, strings.TrimSpace(first)); err != nil {
			return err
		}
		if second != "" && len(lf.Fields) > 1 {
			if err := form.SetEntry(i, lf.Fields[1].Name, strings.TrimSpace(second)); err != nil {
				return err
			}
		}
	}
	return nil
}
