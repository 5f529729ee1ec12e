package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/engines/pasture"
	"github.com/ValentinKolb/jKV/lib/logging"
	"github.com/ValentinKolb/jKV/lib/storage"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var plog = logger.GetLogger("cli")

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// SetupDBFlags adds the flags that configure the database to a command
func SetupDBFlags(cmd *cobra.Command) {
	key := "path"
	cmd.PersistentFlags().String(key, "jkv.json", WrapString("Path of the store file. An empty path keeps the database in memory"))

	key = "backend"
	cmd.PersistentFlags().String(key, "go-json", WrapString("Codec used to read and write the store file (json, go-json, yaml, binary)"))

	key = "compression"
	cmd.PersistentFlags().String(key, "none", WrapString("Compression of written store files (none, zstd, lz4, snappy). Compressed files are detected on load"))

	key = "lazy-indexes"
	cmd.PersistentFlags().Bool(key, false, WrapString("Write only index definitions and rebuild all indexes on load"))

	key = "autocommit"
	cmd.PersistentFlags().Bool(key, false, WrapString("Commit after every mutation"))

	key = "autocommit-after"
	cmd.PersistentFlags().Int(key, 0, WrapString("Commit after every n mutations (0 = disabled)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("jkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// Setup binds the flags of cmd and configures the loggers. It is used as
// PersistentPreRunE of the root command.
func Setup(cmd *cobra.Command, _ []string) error {
	if err := BindCommandFlags(cmd); err != nil {
		return err
	}
	return logging.InitLoggers(viper.GetString("log-level"))
}

// GetDBOptions reads the database options from viper
func GetDBOptions() (*pasture.Options, error) {
	compression, err := storage.ParseCompression(viper.GetString("compression"))
	if err != nil {
		return nil, err
	}
	return &pasture.Options{
		Path:            viper.GetString("path"),
		AutoCommit:      viper.GetBool("autocommit"),
		AutoCommitAfter: viper.GetInt("autocommit-after"),
		LazyIndexes:     viper.GetBool("lazy-indexes"),
		Backend:         viper.GetString("backend"),
		Compression:     compression,
	}, nil
}

// OpenDB opens the database configured by the flags and environment
func OpenDB() (db.JSONDB, error) {
	opts, err := GetDBOptions()
	if err != nil {
		return nil, err
	}
	plog.Debugf("opening %q (backend %s, compression %s)", opts.Path, opts.Backend, opts.Compression)
	return pasture.NewPastureDB(opts)
}

// CommitPending commits the database if it holds mutations that are not written
// yet. Mutating commands call it before they exit.
func CommitPending(database db.JSONDB) error {
	info := database.GetInfo()
	if info.PendingWrites == 0 {
		return nil
	}
	plog.Debugf("committing %d pending writes to %q", info.PendingWrites, info.Path)
	return database.Commit()
}

// --------------------------------------------------------------------------
// Input and Output
// --------------------------------------------------------------------------

// ParseRecordArg parses a command line argument holding a JSON object
func ParseRecordArg(arg string) (value.Record, error) {
	rec, err := value.ParseRecord([]byte(arg))
	if err != nil {
		return nil, fmt.Errorf("invalid record %q: %w", arg, err)
	}
	return rec, nil
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
