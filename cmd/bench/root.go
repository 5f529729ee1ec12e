package bench

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/jKV/cmd/util"
	"github.com/ValentinKolb/jKV/lib/codec"
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/engines/pasture"
	"github.com/ValentinKolb/jKV/lib/storage"
	"github.com/ValentinKolb/jKV/lib/store/lstore"
	"github.com/ValentinKolb/jKV/lib/value"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd compares the backends and compressions
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Compare backends and compressions on a generated data set",
		Long: `Generates a data set, then for every backend and compression writes it, commits it
and loads it again. The store files are written to a temporary directory. Reported
times are the mean of all runs.`,
		Args:    cobra.NoArgs,
		PreRunE: processBenchConfig,
		RunE:    run,
	}
	benchRecords      = 10000
	benchRuns         = 5
	benchThreads      = 8
	benchLazy         = false
	benchBackends     = codec.Names()
	benchCompressions = storage.Compressions()
)

func init() {
	key := "records"
	BenchCmd.Flags().Int(key, 10000, util.WrapString("Number of records in the generated data set"))
	key = "runs"
	BenchCmd.Flags().Int(key, 5, util.WrapString("How often every commit and load is repeated"))
	key = "threads"
	BenchCmd.Flags().Int(key, 8, util.WrapString("Number of goroutines running filters concurrently"))
	key = "backends"
	BenchCmd.Flags().String(key, "", util.WrapString("Backends to test (comma separated, empty = all)"))
	key = "compressions"
	BenchCmd.Flags().String(key, "", util.WrapString("Compressions to test (comma separated, empty = all)"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchRecords = viper.GetInt("records")
	benchRuns = viper.GetInt("runs")
	benchThreads = viper.GetInt("threads")
	benchLazy = viper.GetBool("lazy-indexes")
	if benchRecords <= 0 || benchRuns <= 0 || benchThreads <= 0 {
		return fmt.Errorf("records, runs and threads must be positive")
	}

	if s := viper.GetString("backends"); s != "" {
		benchBackends = nil
		for _, name := range strings.Split(s, ",") {
			if _, err := codec.ByName(strings.TrimSpace(name)); err != nil {
				return err
			}
			benchBackends = append(benchBackends, strings.TrimSpace(name))
		}
	}

	if s := viper.GetString("compressions"); s != "" {
		benchCompressions = nil
		for _, name := range strings.Split(s, ",") {
			c, err := storage.ParseCompression(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			benchCompressions = append(benchCompressions, c)
		}
	}
	return nil
}

// result holds the measurements of one backend and compression
type result struct {
	Backend     string
	Compression storage.Compression
	FileSize    int64
	Set         gometrics.Timer
	Commit      gometrics.Timer
	Load        gometrics.Timer
	Filter      gometrics.Timer
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Backend benchmark for jKV")
	fmt.Println()
	fmt.Printf("Records: %d, Runs: %d, Threads: %d, Lazy indexes: %t\n", benchRecords, benchRuns, benchThreads, benchLazy)
	fmt.Println()

	dir, err := os.MkdirTemp("", "jkv-bench-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	data := generate(benchRecords)
	registry := gometrics.NewRegistry()
	results := make([]*result, 0, len(benchBackends)*len(benchCompressions))

	fmt.Printf("%-10s%-10s%12s%14s%14s%14s%14s\n", "backend", "compr.", "size", "set/op", "commit", "load", "filter/op")
	for _, backend := range benchBackends {
		for _, compression := range benchCompressions {
			res, err := benchmark(registry, filepath.Join(dir, backend+"-"+string(compression)), backend, compression, data)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", backend, compression, err)
			}
			results = append(results, res)
			printResult(res)
		}
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}
	return nil
}

// benchmark measures one backend and compression
func benchmark(registry gometrics.Registry, path, backend string, compression storage.Compression, data map[string]value.Record) (*result, error) {
	prefix := backend + "." + string(compression) + "."
	res := &result{
		Backend:     backend,
		Compression: compression,
		Set:         gometrics.GetOrRegisterTimer(prefix+"set", registry),
		Commit:      gometrics.GetOrRegisterTimer(prefix+"commit", registry),
		Load:        gometrics.GetOrRegisterTimer(prefix+"load", registry),
		Filter:      gometrics.GetOrRegisterTimer(prefix+"filter", registry),
	}
	opts := &pasture.Options{Path: path, Backend: backend, Compression: compression, LazyIndexes: benchLazy}

	database, err := pasture.NewPastureDB(opts)
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"city", "active"} {
		if err := database.CreateIndex(field, false, db.IndexTypeDefault); err != nil {
			return nil, err
		}
	}
	for key, rec := range data {
		start := time.Now()
		if err := database.Set(key, rec); err != nil {
			return nil, err
		}
		res.Set.UpdateSince(start)
	}

	for i := 0; i < benchRuns; i++ {
		var commitErr error
		res.Commit.Time(func() { commitErr = database.Commit() })
		if commitErr != nil {
			return nil, commitErr
		}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	res.FileSize = stat.Size()

	var loaded db.JSONDB
	for i := 0; i < benchRuns; i++ {
		var loadErr error
		res.Load.Time(func() { loaded, loadErr = pasture.NewPastureDB(opts) })
		if loadErr != nil {
			return nil, loadErr
		}
		if loaded.Len() != len(data) {
			return nil, fmt.Errorf("loaded %d records, expected %d", loaded.Len(), len(data))
		}
	}

	// run filters on the loaded database from several goroutines
	shared, err := lstore.NewLocalStore(func() (db.JSONDB, error) { return loaded, nil })
	if err != nil {
		return nil, err
	}
	var wg sync.WaitGroup
	for t := 0; t < benchThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for i := 0; i < benchRuns*20; i++ {
				criteria := value.Record{
					"city":   value.String(cities[(t+i)%len(cities)]),
					"active": value.Bool(i%2 == 0),
					"age":    value.Int(int64(20 + i%50)),
				}
				res.Filter.Time(func() { shared.Filter(criteria) })
			}
		}(t)
	}
	wg.Wait()

	return res, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

var cities = []string{"Berlin", "Paris", "Rome", "Madrid", "Vienna", "Prague", "Lisbon", "Oslo", "Dublin", "Athens"}

// generate creates n records with a fixed seed
func generate(n int) map[string]value.Record {
	rnd := rand.New(rand.NewSource(1))
	data := make(map[string]value.Record, n)
	for i := 0; i < n; i++ {
		data[fmt.Sprintf("user-%06d", i)] = value.Record{
			"name":   value.String(fmt.Sprintf("User %d", i)),
			"city":   value.String(cities[rnd.Intn(len(cities))]),
			"age":    value.Int(int64(18 + rnd.Intn(70))),
			"active": value.Bool(rnd.Intn(2) == 0),
			"score":  value.Float(rnd.Float64() * 100),
			"tags":   value.Array(value.String("t"+strconv.Itoa(rnd.Intn(5))), value.String("t"+strconv.Itoa(rnd.Intn(5)))),
			"address": value.Object(value.Record{
				"street": value.String(fmt.Sprintf("Street %d", rnd.Intn(1000))),
				"zip":    value.Int(int64(10000 + rnd.Intn(89999))),
			}),
		}
	}
	return data
}

// mean returns the mean duration recorded by timer
func mean(timer gometrics.Timer) time.Duration {
	return time.Duration(timer.Snapshot().Mean())
}

// printResult prints the result of one benchmark in a formatted way
func printResult(res *result) {
	fmt.Printf("%-10s%-10s%12s%14s%14s%14s%14s\n",
		res.Backend, res.Compression, formatSize(res.FileSize),
		mean(res.Set), mean(res.Commit).Round(time.Microsecond), mean(res.Load).Round(time.Microsecond), mean(res.Filter))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []*result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Backend", "Compression", "FileSizeBytes",
		"SetNsPerOp", "CommitNs", "CommitP95Ns", "LoadNs", "LoadP95Ns", "FilterNsPerOp", "FilterP95Ns",
		"Records", "Runs", "Threads", "LazyIndexes",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	ns := func(f float64) string { return strconv.FormatFloat(f, 'f', 0, 64) }
	for _, res := range results {
		commit, load, filter := res.Commit.Snapshot(), res.Load.Snapshot(), res.Filter.Snapshot()
		row := []string{
			res.Backend,
			string(res.Compression),
			strconv.FormatInt(res.FileSize, 10),
			ns(res.Set.Snapshot().Mean()),
			ns(commit.Mean()),
			ns(commit.Percentile(0.95)),
			ns(load.Mean()),
			ns(load.Percentile(0.95)),
			ns(filter.Mean()),
			ns(filter.Percentile(0.95)),
			strconv.Itoa(benchRecords),
			strconv.Itoa(benchRuns),
			strconv.Itoa(benchThreads),
			strconv.FormatBool(benchLazy),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s/%s: %v", res.Backend, res.Compression, err)
		}
	}

	return nil
}
