package kv

import (
	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/spf13/cobra"
)

var (
	database db.JSONDB

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Read and write records",
		Long: `Read and write the records of the store file. Records are JSON objects.
Commands that change the database commit it before they exit.`,
	}
)

func init() {
	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(existsCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(insertCmd)
	KeyValueCommands.AddCommand(updateCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(allCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(filterCmd)

	getCmd.Flags().String("path-expr", "", util.WrapString("gjson path selecting a part of the record (e.g. address.city, tags.0)"))
	filterCmd.Flags().Bool("plan", false, util.WrapString("Print the query plan instead of the matching records"))
	updateCmd.Flags().Bool("replace", false, util.WrapString("Replace the record instead of merging the given fields into it"))

	for _, c := range KeyValueCommands.Commands() {
		c.PreRunE = openDB
	}
}

// openDB opens the database configured by the flags
func openDB(_ *cobra.Command, _ []string) error {
	var err error
	database, err = util.OpenDB()
	return err
}
