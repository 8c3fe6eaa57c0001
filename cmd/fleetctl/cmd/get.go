package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	var orgID int64
	cmd := &cobra.Command{
		Use:          "get <entity> <id>",
		Short:        "print one record as JSON",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgID <= 0 {
				return errOrgRequired
			}
			_, catalog := newCatalog()
			snap, err := catalog.Load(cmd.Context(), args[0], orgID, args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
	cmd.Flags().Int64VarP(&orgID, "org", "o", 0, "organisation id")
	return cmd
}
