package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/aditiintechk/CraveCount/internal/cli"
	"github.com/aditiintechk/CraveCount/internal/cloudsync"
	"github.com/aditiintechk/CraveCount/internal/notify"
	"github.com/aditiintechk/CraveCount/internal/storage"
	"github.com/aditiintechk/CraveCount/internal/store"
)

var CLI struct {
	Version kong.VersionFlag
	Data    string `help:"Data file path." type:"path" default:"~/.config/cravecount/cravecount.db"`

	Init cli.InitCmd `cmd:"" help:"Set up identity and load existing data."`

	Log struct {
		Add    cli.LogAddCmd    `cmd:"" help:"Record a craving moment."`
		Edit   cli.LogEditCmd   `cmd:"" help:"Edit a logged moment."`
		Delete cli.LogDeleteCmd `cmd:"" help:"Delete a logged moment."`
		List   cli.LogListCmd   `cmd:"" help:"List logged moments."`
	} `cmd:"" help:"Manage craving logs."`

	Joy struct {
		Add    cli.JoyAddCmd    `cmd:"" help:"Plan a future joy."`
		Edit   cli.JoyEditCmd   `cmd:"" help:"Edit a planned joy."`
		Delete cli.JoyDeleteCmd `cmd:"" help:"Delete a planned joy."`
		List   cli.JoyListCmd   `cmd:"" help:"List planned joys."`
	} `cmd:"" help:"Manage planned joys."`

	Stats    cli.StatsCmd    `cmd:"" help:"Show points, level, streaks and weekly stats."`
	Chart    cli.ChartCmd    `cmd:"" help:"Show daily craving counts."`
	Insights cli.InsightsCmd `cmd:"" help:"Show detected behavioral patterns."`
	Badges   cli.BadgesCmd   `cmd:"" help:"Show achievements."`

	Cravings struct {
		Set  cli.CravingsSetCmd  `cmd:"" help:"Choose which cravings to track."`
		List cli.CravingsListCmd `cmd:"" help:"List tracked cravings."`
	} `cmd:"" help:"Manage the craving selection."`

	Emotions struct {
		Set cli.EmotionsSetCmd `cmd:"" help:"Choose which emotions to track."`
	} `cmd:"" help:"Manage the emotion selection."`

	Sync   cli.SyncCmd   `cmd:"" help:"Push the current state to the cloud."`
	Status cli.StatusCmd `cmd:"" help:"Show sync status."`
}

func main() {
	// A .env next to the binary can hold the Redis settings.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("cravecount"),
		kong.Description("Craving awareness tracker with offline-first cloud sync"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	// Determine storage type based on extension
	var local storage.Provider
	if strings.HasSuffix(CLI.Data, ".json") {
		local = storage.NewJSONStore(CLI.Data)
	} else {
		local = storage.NewSQLiteStore(CLI.Data)
	}
	if err := local.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	remote := buildRemote()
	coordinator := cloudsync.New(local, remote, cloudsync.NewFileIdentity(local))

	appCtx := &cli.Context{
		Store: store.New(local, coordinator, notify.Noop{}),
	}

	err := ctx.Run(appCtx)
	appCtx.Store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildRemote wires the Redis-backed document store when configured, and
// falls back to local-only operation otherwise.
func buildRemote() cloudsync.Remote {
	addr := os.Getenv("CRAVECOUNT_REDIS_ADDR")
	if addr == "" {
		return cloudsync.Disabled{}
	}

	db := 0
	if v := os.Getenv("CRAVECOUNT_REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("warning: invalid CRAVECOUNT_REDIS_DB %q, using 0", v)
		} else {
			db = parsed
		}
	}

	remote, err := cloudsync.NewRedisRemote(addr, os.Getenv("CRAVECOUNT_REDIS_PASSWORD"), db)
	if err != nil {
		log.Printf("warning: cloud sync unavailable: %v", err)
		return cloudsync.Disabled{}
	}
	return remote
}
