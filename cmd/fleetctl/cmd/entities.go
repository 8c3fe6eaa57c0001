package cmd

import (
	"fmt"
	"strings"

	"fleetdesk/internal/fleet"

	"github.com/spf13/cobra"
)

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "entities",
		Short:        "list the entities and their filters",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]fleet.Info, 0, len(fleet.All()))
			for _, e := range fleet.All() {
				infos = append(infos, fleet.Describe(e, false))
			}
			return printEntities(cmd, infos)
		},
	}
}

func printEntities(cmd *cobra.Command, infos []fleet.Info) error {
	out := cmd.OutOrStdout()
	for _, info := range infos {
		filters := strings.Join(info.Filters, ", ")
		if filters == "" {
			filters = "-"
		}
		if _, err := fmt.Fprintf(out, "%-14s filters: %s\n", info.Name, filters); err != nil {
			return err
		}
	}
	return nil
}
