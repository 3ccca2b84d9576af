package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/mwoodfin/copydesk/internal/autosave"
	"github.com/mwoodfin/copydesk/internal/cli"
	"github.com/mwoodfin/copydesk/internal/config"
	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/repository"
	"github.com/mwoodfin/copydesk/internal/service"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --config is consumed here, before cobra sees the argument list.
	configPath := ""
	flags := pflag.NewFlagSet("copydesk", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.StringVar(&configPath, "config", "", "Path to config file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogPath != "" {
		logFile, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		observer = service.NewLogUseCaseObserver(logFile)
	}

	itemRepo := repository.NewSQLiteWorklistItemRepo(database)
	issueRepo := repository.NewSQLiteIssueRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	engine := workflow.NewEngine(uow)

	app := &cli.App{
		Worklist: service.NewWorklistService(itemRepo, issueRepo, engine, uow, observer),
		Reviews:  service.NewReviewService(uow, engine, observer),
		Stats:    service.NewStatsService(itemRepo),
		Actor:    currentUser(),
		Autosave: autosave.Options{
			Debounce:     cfg.Autosave.Debounce(),
			SavedDisplay: cfg.Autosave.SavedDisplay(),
			MaxRetries:   uint64(cfg.Autosave.MaxRetries),
		},
	}

	root := cli.NewRootCmd(app)
	root.PersistentFlags().String("config", "", "Path to config file")
	return root.Execute()
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "editor"
}
