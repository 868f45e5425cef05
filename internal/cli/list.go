package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"swcommons/internal/views"
)

type listOptions struct {
	search   string
	category string
}

func (o *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.search, "search", "s", "", "Case-insensitive text filter")
	cmd.Flags().StringVarP(&o.category, "category", "c", "", "Only show records in this category")
}

// view builds the list screen for name with the filters applied
func (a *app) view(name string, o *listOptions) (*views.ListView, error) {
	def, err := a.entity(name)
	if err != nil {
		return nil, err
	}
	v := views.NewListView(def, a.client, a.admin)
	if o == nil {
		return v, nil
	}
	if o.search != "" {
		if !v.Searchable() {
			return nil, usagef("%s has no search", def.Collection)
		}
		v.SetSearch(o.search)
	}
	if o.category != "" {
		if err := v.SetCategory(o.category); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List the records of a collection",
		Example: `  swctl list jobs
  swctl list countries --search coru
  swctl list forumPosts --category "Career Advice"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0], &opts)
			if err != nil {
				return err
			}
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			out, err := a.display.List(v, opts.search, opts.category)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "watch <collection>",
		Short: "Follow a collection live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0], &opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, v, &opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, v *views.ListView, opts *listOptions) error {
	snapshots, err := a.client.Subscribe(ctx, v.Definition().Collection, v.ListOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for snap := range snapshots {
		if snap.Err != nil {
			fmt.Fprint(out, a.display.Failure(snap.Err))
			continue
		}
		if err := v.Replace(snap.Records); err != nil {
			return err
		}
		screen, err := a.display.List(v, opts.search, opts.category)
		if err != nil {
			return err
		}
		if a.display.TTY {
			fmt.Fprint(out, "\033[H\033[2J")
		}
		fmt.Fprint(out, screen)
		a.logger.Debug("Snapshot rendered", map[string]interface{}{
			"collection": string(snap.Collection),
			"records":    len(snap.Records),
		})
	}
	return nil
}
