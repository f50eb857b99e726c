package main

import (
	"context"
	"elevator-dispatch-service/internal/adapters/remote"
	"elevator-dispatch-service/internal/adapters/repositories"
	"elevator-dispatch-service/internal/config"
	"elevator-dispatch-service/internal/platform/db"
	"elevator-dispatch-service/internal/ports"
	"elevator-dispatch-service/internal/services"
	"elevator-dispatch-service/internal/simulator"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/joho/godotenv"
)

// simulate plays every configured fleet profile through the same rider
// schedule and prints one score line per profile.
func main() {
	_ = godotenv.Load()

	var (
		configPath   = flag.String("config", config.Get("SCHEDULER_CONFIG", ""), "scheduler yaml (default profiles when empty)")
		arrivalsPath = flag.String("arrivals", "", "JSON array of arrivals per tick (built-in profile when empty)")
		journalPath  = flag.String("journal", "", "SQLite file to journal rides into")
		remoteURL    = flag.String("url", "", "drive the fleet served at this URL instead of local profiles")
		lower        = flag.Int("lower", -13, "lowest floor")
		higher       = flag.Int("higher", 27, "highest floor")
		capacity     = flag.Int("capacity", 60, "riders per cabin")
		cabins       = flag.Int("cabins", 2, "cabins in the building")
		ticks        = flag.Int("ticks", 0, "ticks to run (twice the arrival profile when 0)")
		seed         = flag.Uint64("seed", 1, "rider generator seed")
		asJSON       = flag.Bool("json", false, "print results as JSON")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(config.Get("LOG_LEVEL", "warn")),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := run(ctx, log, runArgs{
		configPath:   *configPath,
		arrivalsPath: *arrivalsPath,
		journalPath:  *journalPath,
		remoteURL:    *remoteURL,
		building: simulator.BuildingOptions{
			LowerFloor:  *lower,
			HigherFloor: *higher,
			Capacity:    *capacity,
			Cabins:      *cabins,
		},
		ticks: *ticks,
		seed:  *seed,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FLEET\tSCORE\tRIDES\tWAITING\tABOARD\tRESETS\tINCOMPATIBLE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", r.Name, r.Score, r.Rides, r.Waiting, r.Aboard, r.Resets, r.Incompatible)
	}
	_ = tw.Flush()
}

type runArgs struct {
	configPath   string
	arrivalsPath string
	journalPath  string
	remoteURL    string
	building     simulator.BuildingOptions
	ticks        int
	seed         uint64
}

func run(ctx context.Context, log *slog.Logger, a runArgs) ([]simulator.Result, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	profiles := make([]services.FleetOptions, len(cfg.Fleets))
	for i, fc := range cfg.Fleets {
		profiles[i] = fc.FleetOptions()
	}

	arrivals := simulator.DefaultArrivals()
	if a.arrivalsPath != "" {
		if arrivals, err = simulator.LoadArrivals(a.arrivalsPath); err != nil {
			return nil, err
		}
	}
	if a.ticks == 0 {
		a.ticks = 2 * len(arrivals)
	}

	var journal ports.RideJournal
	if a.journalPath != "" {
		conn, err := db.OpenSQLite(a.journalPath)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		if err := repositories.InitSchema(conn, repositories.SQLite); err != nil {
			return nil, err
		}
		journal = repositories.NewSQLiteRideJournal(conn)
	}

	sim, err := simulator.New(simulator.Options{
		Building: a.building,
		Ticks:    a.ticks,
		Arrivals: arrivals,
		Seed:     a.seed,
	}, nil, journal, log)
	if err != nil {
		return nil, err
	}
	if a.remoteURL == "" {
		return sim.Run(ctx, profiles)
	}

	client, err := remote.New(a.remoteURL, log)
	if err != nil {
		return nil, err
	}
	res, err := sim.RunScheduler(ctx, a.remoteURL, client)
	if err != nil {
		return nil, err
	}
	if err := client.Err(); err != nil {
		log.Warn("remote scheduler reported errors", "err", err)
	}
	return []simulator.Result{res}, nil
}
