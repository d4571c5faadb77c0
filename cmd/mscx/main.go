package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/FigmentBoy/MuseScore/internal/api"
	"github.com/FigmentBoy/MuseScore/internal/catalog"
	"github.com/FigmentBoy/MuseScore/internal/config"
	"github.com/FigmentBoy/MuseScore/internal/mscx"
	"github.com/FigmentBoy/MuseScore/internal/scheduler"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	configFlag := flag.String("config", "mscx.json", "Path to config file")
	rootFlag := flag.String("root", "", "Score directory to catalog (overrides config)")
	dbFlag := flag.String("db", "", "Path to the catalog database (overrides config)")
	logfileFlag := flag.String("logfile", "", "Path to log file")
	checkFlag := flag.String("check", "", "Read one score file and print its statistics")
	recomputeFlag := flag.Bool("recompute", false, "Rebuild the catalog from scratch")
	serveFlag := flag.Bool("serve", false, "Serve catalog queries over JSON-RPC")
	listenFlag := flag.String("listen", "", "Address to serve on (overrides config)")
	refreshFlag := flag.Duration("refresh", 10*time.Minute,
		"Interval between catalog updates in serve mode (0 disables)")
	flag.Parse()

	// Print the version if the flag is set
	if *versionFlag {
		fmt.Printf("mscx catalog version %s\n", Version)
		return
	}

	// Give it some cores
	runtime.GOMAXPROCS(4)

	cfg, err := config.LoadFile(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *rootFlag != "" {
		cfg.Root = *rootFlag
	}
	if *dbFlag != "" {
		cfg.CatalogPath = *dbFlag
	}
	if *listenFlag != "" {
		cfg.ListenAddr = *listenFlag
	}

	// Set up logging
	if *logfileFlag != "" {
		commonlog.Configure(cfg.Verbosity, logfileFlag)
	} else {
		commonlog.Configure(cfg.Verbosity, nil)
	}

	// A single file check runs without the catalog
	if *checkFlag != "" {
		if err := checkScore(*checkFlag); err != nil {
			log.Fatalf("Check failed: %v", err)
		}
		return
	}

	db, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer db.Close()

	store := catalog.NewStore(db, cfg.Root, cfg.Extensions)

	if *serveFlag {
		if *refreshFlag > 0 {
			sched := scheduler.New(1)
			sched.Run()
			defer sched.Stop()
			sched.SchedulePeriodic(*refreshFlag, scheduler.Task{
				Name: "catalog update",
				Execute: func() error {
					_, err := store.UpdateAll()
					return err
				},
			})
		}
		if err := api.Serve(cfg.ListenAddr, store); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	var run *catalog.RunRecord
	if *recomputeFlag {
		run, err = store.Recompute()
	} else {
		run, err = store.UpdateAll()
	}
	if err != nil {
		log.Fatalf("Catalog update failed: %v", err)
	}

	printRun(run, store)
}

func checkScore(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	_, stats, err := mscx.ReadScore(content, mscx.WithDocName(path))
	if err != nil {
		return fmt.Errorf("failed to read score: %w", err)
	}

	fmt.Printf("%s: %d measures, %d chords, %d rests, %d spanners, %d tuplets\n",
		path, stats.Measures, stats.Chords, stats.Rests, stats.Spanners, stats.Tuplets)

	switch {
	case stats.Discarded > 0 || stats.Repaired > 0:
		color.Red("discarded %d, repaired %d, warnings %d\n",
			stats.Discarded, stats.Repaired, stats.Warnings)
	case !stats.Clean():
		color.Yellow("%d warnings\n", stats.Warnings)
	default:
		color.Green("ok\n")
	}

	return nil
}

func printRun(run *catalog.RunRecord, store *catalog.Store) {
	fmt.Printf("catalogued %d files\n", run.Files)
	if run.Failures > 0 {
		color.Red("%d files failed to read\n", run.Failures)
	}

	broken, err := store.Broken()
	if err != nil {
		log.Fatalf("Failed to query broken scores: %v", err)
	}

	if len(broken) > 0 {
		color.Yellow("%d scores needed repair or dropped content:\n", len(broken))
		for _, record := range broken {
			color.Yellow("  %s (repaired %d, discarded %d)\n",
				record.Path, record.Repaired, record.Discarded)
		}
	} else if run.Failures == 0 {
		color.Green("all scores clean\n")
	}
}
