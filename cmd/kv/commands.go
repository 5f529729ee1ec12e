package kv

import (
	"fmt"

	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Prints the record stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := database.Get(args[0])
			if err != nil {
				return err
			}

			expr, _ := cmd.Flags().GetString("path-expr")
			if expr == "" {
				return util.PrintJSON(rec)
			}

			raw, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			result := gjson.GetBytes(raw, expr)
			if !result.Exists() {
				return fmt.Errorf("path %q does not exist in record %q", expr, args[0])
			}
			fmt.Println(result.String())
			return nil
		},
	}
	existsCmd = &cobra.Command{
		Use:   "exists [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("key=%s, found=%t\n", args[0], database.Exists(args[0]))
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [record]",
		Short: "Stores a record under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := util.ParseRecordArg(args[1])
			if err != nil {
				return err
			}
			if err := database.Set(args[0], rec); err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	insertCmd = &cobra.Command{
		Use:   "insert [record]",
		Short: "Stores a record under a generated key and prints the key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := util.ParseRecordArg(args[0])
			if err != nil {
				return err
			}
			key, err := database.Insert(rec)
			if err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [key] [fields]",
		Short: "Merges fields into the record stored under a key",
		Long:  "Merges fields into the record stored under a key. If the key does not exist, the fields are stored as new record.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := util.ParseRecordArg(args[1])
			if err != nil {
				return err
			}
			if replace, _ := cmd.Flags().GetBool("replace"); replace {
				err = database.Set(args[0], rec)
			} else {
				err = database.Update(args[0], rec)
			}
			if err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Println("update successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes the record stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Delete(args[0]); err != nil {
				return err
			}
			if err := util.CommitPending(database); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Prints all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.PrintJSON(database.All())
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Prints all keys in sorted order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, key := range database.Keys() {
				fmt.Println(key)
			}
		},
	}
	filterCmd = &cobra.Command{
		Use:   "filter [criteria]",
		Short: "Prints all records whose fields equal the given fields",
		Long: `Prints all records whose fields equal every field of the given criteria object.
Fields with an index are looked up, the others are scanned.`,
		Example: `  jkv kv filter '{"city": "Paris", "active": true}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := util.ParseRecordArg(args[0])
			if err != nil {
				return err
			}
			result, plan := database.Filter(criteria)
			if showPlan, _ := cmd.Flags().GetBool("plan"); showPlan {
				return util.PrintJSON(struct {
					Matched int `json:"matched"`
					Plan    any `json:"plan"`
				}{len(result), plan})
			}
			if result == nil {
				result = map[string]value.Record{}
			}
			return util.PrintJSON(result)
		},
	}
)
