package index

import (
	"fmt"

	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/spf13/cobra"
)

var (
	database db.JSONDB

	// IndexCommands represents the index command group
	IndexCommands = &cobra.Command{
		Use:   "index",
		Short: "Manage secondary indexes",
	}

	createCmd = &cobra.Command{
		Use:   "create [field]",
		Short: "Creates an index on a record field",
		Long: `Creates an index on a record field. Default indexes are written to the store
file with their contents, lazy indexes only with their definition and are rebuilt on load.
An index holding values other than strings is always lazy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			recreate, _ := cmd.Flags().GetBool("recreate")
			if err := database.CreateIndex(args[0], recreate, db.IndexType(typ)); err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Printf("index %s created\n", args[0])
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [field]",
		Short: "Removes the index on a record field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.RemoveIndex(args[0]); err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Printf("index %s removed\n", args[0])
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all indexes with their bucket statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.PrintJSON(database.Indexes())
		},
	}
)

func init() {
	IndexCommands.AddCommand(createCmd)
	IndexCommands.AddCommand(removeCmd)
	IndexCommands.AddCommand(listCmd)

	createCmd.Flags().String("type", string(db.IndexTypeDefault), util.WrapString("Index type (default, lazy)"))
	createCmd.Flags().Bool("recreate", false, util.WrapString("Rebuild the index if it already exists"))

	for _, c := range IndexCommands.Commands() {
		c.PreRunE = func(_ *cobra.Command, _ []string) error {
			var err error
			database, err = util.OpenDB()
			return err
		}
	}
}
