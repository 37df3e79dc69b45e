package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/projman/internal/cli"
	"github.com/alexanderramin/projman/internal/config"
	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/alexanderramin/projman/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The session store lives for this process only; the workbook is the
	// durable copy.
	database, err := db.OpenDB()
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	subRepo := repository.NewSQLiteSubProcessRepo(database)
	personRepo := repository.NewSQLitePersonRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	historyFile := cfg.HistoryFile
	if historyFile == "" {
		historyFile = cli.DefaultHistoryPath()
	}

	app := &cli.App{
		Workbook:    cfg.Workbook,
		Autosave:    cfg.Autosave,
		Verbose:     cfg.LogUseCases,
		HistoryFile: historyFile,
	}

	// --verbose is parsed after wiring, so the observer checks it per event.
	obs := cli.GatedObserver(func() bool { return app.Verbose }, service.NewLogUseCaseObserver(os.Stderr))

	app.Projects = service.NewProjectService(projectRepo, uow, obs)
	app.Subs = service.NewSubProcessService(subRepo, uow, obs)
	app.People = service.NewPersonnelService(personRepo, uow, obs)
	app.Assignments = service.NewAssignmentService(assignmentRepo, uow, obs)
	app.Exchange = service.NewExchangeService(uow, service.ExchangeOptions{Backup: cfg.Backup}, obs)

	// Detect interactive terminal for the shell and confirmation prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
