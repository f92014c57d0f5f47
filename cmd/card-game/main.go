package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AllyssinXD/card-game-web/internal/api"
	"github.com/AllyssinXD/card-game-web/internal/config"
	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/gui"
	"github.com/AllyssinXD/card-game-web/internal/netclient"
	"github.com/AllyssinXD/card-game-web/internal/state"
	"github.com/AllyssinXD/card-game-web/internal/version"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

var (
	serverURL   = flag.String("server-url", "", "Game server websocket URL (overrides config)")
	username    = flag.String("username", "", "Player display name (overrides config)")
	debugAPI    = flag.Bool("debug-api", false, "Serve the localhost status API (overrides config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("card-game %s\n", version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *username != "" {
		cfg.Player.Username = *username
	}
	if *debugAPI {
		cfg.Debug.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Printf("[Main] card-game %s starting, server %s", version.GetVersion(), cfg.Server.URL)

	dispatcher := events.NewDispatcher()
	store := state.NewStore(dispatcher)
	registry := visual.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The network client comes up once the player picks a name; config
	// reloads only affect the next connection.
	var mu sync.Mutex
	var client *netclient.Client

	app := gui.NewApp(cfg, dispatcher, store, registry, func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if client != nil {
			return
		}
		client = netclient.New(cfg.Server.URL, name, store)
		store.SetSender(client)
		go client.Run(ctx)
	})

	if path, err := config.Path(); err == nil {
		stop, err := config.Watch(path, func(fresh *config.Config) {
			log.Printf("[Main] Config reloaded")
			*cfg = *fresh
		})
		if err != nil {
			log.Printf("[Main] Config watcher unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	if cfg.Debug.Enabled {
		server := api.NewServer(cfg.Debug.Port, store, app.Orchestrator(), registry)
		go func() {
			if err := server.Start(); err != nil {
				log.Printf("[Main] Debug API stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := server.Stop(shutdownCtx); err != nil {
				log.Printf("[Main] Debug API shutdown: %v", err)
			}
		}()
	}

	// Blocks until the window closes.
	app.Run()

	cancel()
	mu.Lock()
	if client != nil {
		client.Close()
	}
	mu.Unlock()

	log.Printf("[Main] Shutdown complete")
}
