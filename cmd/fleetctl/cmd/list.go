package cmd

import (
	"context"
	"time"

	"fleetdesk/internal/listing"
	"fleetdesk/internal/render"

	"github.com/spf13/cobra"
)

type listOptions struct {
	OrgID   int64
	Page    int
	Count   int
	Search  string
	Filters map[string]string
	Wait    time.Duration
}

func listCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:          "list <entity>",
		Short:        "print one page of an entity as a table",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], &opts)
		},
	}

	fs := cmd.Flags()
	fs.Int64VarP(&opts.OrgID, "org", "o", 0, "organisation id")
	fs.IntVarP(&opts.Page, "page", "p", 1, "page to show")
	fs.IntVarP(&opts.Count, "count", "c", 0, "rows per page (default LIST_DEFAULT_COUNT)")
	fs.StringVarP(&opts.Search, "search", "s", "", "search text")
	fs.StringToStringVarP(&opts.Filters, "filter", "f", nil, "filter as key=value, repeatable")
	fs.DurationVar(&opts.Wait, "wait", 30*time.Second, "how long to wait for the backend")
	return cmd
}

func runList(cmd *cobra.Command, entity string, opts *listOptions) error {
	if opts.OrgID <= 0 {
		return errOrgRequired
	}
	cfg, catalog := newCatalog()

	count := opts.Count
	if count <= 0 {
		count = cfg.List.DefaultCount
	}
	view, err := catalog.OpenView(entity, listing.Options{
		OrgID:   opts.OrgID,
		Count:   count,
		Timeout: time.Duration(cfg.Backend.TimeoutSec) * time.Second,
		Search:  opts.Search,
		Filters: opts.Filters,
	})
	if err != nil {
		return err
	}
	defer view.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Wait)
	defer cancel()

	view.Start()
	if _, err := view.WaitIdle(ctx); err != nil {
		return err
	}
	if opts.Page > 1 {
		if err := view.SetPage(opts.Page); err != nil {
			return err
		}
		if _, err := view.WaitIdle(ctx); err != nil {
			return err
		}
	}
	return render.Render(cmd.OutOrStdout(), view.Table())
}
