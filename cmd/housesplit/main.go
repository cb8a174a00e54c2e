package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/housesplit/internal/config"
	"github.com/mmynk/housesplit/internal/loader"
	"github.com/mmynk/housesplit/internal/metrics"
	"github.com/mmynk/housesplit/internal/notify"
	"github.com/mmynk/housesplit/internal/report"
	"github.com/mmynk/housesplit/internal/service"
	"github.com/mmynk/housesplit/internal/storage"
	"github.com/mmynk/housesplit/internal/storage/sqlite"
	"github.com/mmynk/housesplit/pkg/logging"
)

const usage = `usage: housesplit <command> [flags] [args]

commands:
  run FILE.yaml              process a ledger file
  run -db PATH [-house NAME] process a ledger from the catalog
  import [-db PATH] FILE.yaml
                             load a ledger file into the catalog
  summary -people N [-month YYYY-MM] service=amount...
                             print the monthly bills e-mail
`

var errUsage = errors.New("invalid usage")

func main() {
	// Load .env for local development; missing file is fine
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("housesplit failed", "error", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "run":
		return runCommand(ctx, cfg, args[1:], stdout)
	case "import":
		return importCommand(ctx, cfg, args[1:])
	case "summary":
		return summaryCommand(cfg, args[1:], stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runCommand(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dbPath := fs.String("db", "", "read the ledger from this catalog instead of a file")
	house := fs.String("house", cfg.House, "house to read from the catalog")
	workers := fs.Int("workers", cfg.Workers, "allocate entries with this many goroutines")
	metricsFile := fs.String("metrics", cfg.MetricsFile, "write Prometheus metrics to this file")
	settle := fs.Bool("settle", true, "print suggested transfers after the ledger")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var source storage.Source
	switch {
	case *dbPath != "" && fs.NArg() == 0:
		store, err := sqlite.New(*dbPath, *house)
		if err != nil {
			return err
		}
		slog.Info("Catalog opened", "database", *dbPath, "house", *house)
		source = store
	case *dbPath == "" && fs.NArg() == 1:
		file, err := loader.NewFileSource(fs.Arg(0))
		if err != nil {
			return err
		}
		slog.Info("Ledger file parsed", "path", file.Path())
		source = file
	default:
		return fmt.Errorf("%w: run takes exactly one of FILE.yaml or -db PATH", errUsage)
	}
	defer source.Close()

	recorder := metrics.New()
	defer func() {
		if *metricsFile == "" {
			return
		}
		if err := recorder.WriteToTextfile(*metricsFile); err != nil {
			slog.Error("Failed to write metrics", "path", *metricsFile, "error", err)
			return
		}
		slog.Debug("Metrics written", "path", *metricsFile)
	}()

	result, err := service.NewLedgerService(source, *workers, recorder).Run(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteLedger(stdout, result.Steps); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if *settle {
		if err := report.WriteSettlement(stdout, result.Transfers); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func importCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.DBPath, "catalog to import into")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import takes one FILE.yaml", errUsage)
	}

	doc, err := loader.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	store, err := sqlite.New(*dbPath, "")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(ctx, doc.House, doc.Entries); err != nil {
		return err
	}
	slog.Info("Ledger imported",
		"database", *dbPath,
		"house", doc.House.Name,
		"people", len(doc.House.People),
		"entries", len(doc.Entries),
	)
	return nil
}

func summaryCommand(cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	month := fs.String("month", time.Now().Format("2006-01"), "billing month as YYYY-MM")
	people := fs.Int("people", 0, "number of people splitting the bills")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	monthDate, err := time.Parse("2006-01", *month)
	if err != nil {
		return fmt.Errorf("%w: invalid month %q", errUsage, *month)
	}

	items := make([]notify.Item, 0, fs.NArg())
	for _, arg := range fs.Args() {
		item, err := notify.ParseItem(arg)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	addr := notify.Addresses{
		House:  cfg.HouseName,
		Pay:    cfg.HouseEmail,
		PayCc:  cfg.SquareEmail,
		Notify: cfg.GroupEmail,
	}
	notice, err := notify.BuildSummary(addr, items, *people, monthDate)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%s\n%s\n", notice, notice.Mailto())
	return err
}
