package info

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// InfoCmd prints information about the database
	InfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print information about the store file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := util.OpenDB()
			if err != nil {
				return err
			}
			if metrics, _ := cmd.Flags().GetBool("metrics"); metrics {
				database.WriteMetrics(os.Stdout)
				return nil
			}
			return util.PrintJSON(database.GetInfo())
		},
	}

	// CheckCmd verifies the indexes of the database
	CheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Verify that every index matches the records",
		Long: `Loads the store file, recomputes every index from the records and compares it
with the loaded index. Exits with an error on the first mismatch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := util.OpenDB()
			if err != nil {
				return err
			}
			info := database.GetInfo()
			if info.RecoveredCorrupt {
				return fmt.Errorf("store file %s is corrupt", info.Path)
			}
			if err := database.VerifyIndexes(); err != nil {
				return err
			}
			fmt.Printf("%d records, %d indexes ok\n", info.Records, len(info.Indexes))
			return nil
		},
	}
)

func init() {
	InfoCmd.Flags().Bool("metrics", false, util.WrapString("Print the metrics of loading the database in Prometheus format"))
}
