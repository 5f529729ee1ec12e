package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/jKV/cmd/bench"
	"github.com/ValentinKolb/jKV/cmd/index"
	"github.com/ValentinKolb/jKV/cmd/info"
	"github.com/ValentinKolb/jKV/cmd/kv"
	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "jkv",
		Short: "embedded JSON key-value store",
		Long: fmt.Sprintf(`jKV (v%s)

An embedded key-value store for JSON records with secondary equality indexes,
persisted to a single file.

All flags can also be set with environment variables in the format JKV_<flag>
(e.g. JKV_PATH=people.json, JKV_LAZY_INDEXES=true). A .env and .env.local file
in the working directory are loaded as well.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: util.Setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of jKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jKV v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(index.IndexCommands)
	RootCmd.AddCommand(info.InfoCmd)
	RootCmd.AddCommand(info.CheckCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupDBFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
