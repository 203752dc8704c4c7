/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mikeb26/armelo/elo"
	"github.com/mikeb26/armelo/internal"
	"github.com/mikeb26/armelo/internal/storage"
	"github.com/mikeb26/armelo/ranking"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":       handleHelp,
	"version":    handleVersion,
	"formats":    handleFormats,
	"ranking":    handleRanking,
	"closest":    handleClosest,
	"predict":    handlePredict,
	"supermatch": handleSupermatch,
	"undo":       handleUndo,
	"history":    handleHistory,
	"implied":    handleImplied,
	"calibrate":  handleCalibrate,
	"add":        handleAdd,
	"remove":     handleRemove,
	"export":     handleExport,
	"backup":     handleBackup,
	"restore":    handleRestore,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleVersion(ctx context.Context, args []string) {
	fmt.Printf("%v %v\n", internal.AppName, internal.Version)
}

// app is the state shared by commands that touch the ladder.
type app struct {
	cfg *internal.Config
	log *logrus.Logger
	db  *storage.DB
	svc *ranking.Service
}

func loadConfig(path string) (*internal.Config, *logrus.Logger) {
	if path == "" {
		path = os.Getenv(internal.EnvPrefix + "_CONFIG")
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		logrus.Fatalf("armelo: %v", err)
	}
	return cfg, internal.InitLogger(cfg.Log.Level, cfg.Log.Format)
}

// openApp loads configuration and opens the ladder database. Failures are
// fatal.
func openApp(configPath string) *app {
	cfg, log := loadConfig(configPath)

	engine, err := elo.NewEngine(cfg.EloConfig())
	if err != nil {
		log.Fatalf("armelo: %v", err)
	}
	dbCfg := storage.DefaultConfig(cfg.Storage.Path)
	dbCfg.BusyTimeout = cfg.Storage.BusyTimeout
	db, err := storage.Open(dbCfg)
	if err != nil {
		log.Fatalf("armelo: failed to open %v: %v", cfg.Storage.Path, err)
	}

	return &app{
		cfg: cfg,
		log: log,
		db:  db,
		svc: ranking.NewService(db, engine, log.WithField("db", cfg.Storage.Path)),
	}
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warnf("armelo: %v", err)
	}
}

// fatal closes the database and exits with err.
func (a *app) fatal(format string, args ...any) {
	a.close()
	a.log.Fatalf(format, args...)
}
