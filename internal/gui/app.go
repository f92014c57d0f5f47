package gui

import (
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/AllyssinXD/card-game-web/internal/anim"
	"github.com/AllyssinXD/card-game-web/internal/config"
	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/reconcile"
	"github.com/AllyssinXD/card-game-web/internal/state"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// bannerDuration is how long the end-game banner stays up.
const bannerDuration = 5 * time.Second

// App represents the GUI application: the window, the scene router and the
// fixed-step tick loop that drives animations, deferred rebuilds and resize
// detection. Everything it touches runs on the UI thread via fyne.Do.
type App struct {
	app    fyne.App
	window fyne.Window

	cfg        *config.Config
	dispatcher *events.Dispatcher
	store      *state.Store
	registry   *visual.Registry
	orch       *anim.Orchestrator
	loop       *reconcile.Loop

	menuScene  *MenuScene
	lobbyScene *LobbyScene
	gameScene  *GameScene

	sceneHolder *fyne.Container
	banner      *canvas.Text
	bannerBox   *fyne.Container

	currentScene string
	lastSize     fyne.Size

	// deferred holds continuations scheduled for a later tick. UI thread
	// only.
	deferred []func()

	tickInterval time.Duration
	stop         chan struct{}
}

// NewApp wires the window, scenes, animation orchestrator and
// reconciliation loop together. onJoin fires once the player picks a name.
func NewApp(cfg *config.Config, dispatcher *events.Dispatcher, store *state.Store, registry *visual.Registry, onJoin func(username string)) *App {
	a := &App{
		app:          app.New(),
		cfg:          cfg,
		dispatcher:   dispatcher,
		store:        store,
		registry:     registry,
		currentScene: "Menu",
		stop:         make(chan struct{}),
	}

	a.tickInterval, _ = cfg.GetTickInterval()
	if a.tickInterval <= 0 {
		a.tickInterval = 16 * time.Millisecond
	}

	a.window = a.app.NewWindow("Card Game")
	a.window.Resize(fyne.NewSize(1280, 720))

	a.gameScene = NewGameScene(a.window, store, registry)
	a.lobbyScene = NewLobbyScene(store)
	a.menuScene = NewMenuScene(cfg.Player.Username, func(username string) {
		onJoin(username)
		a.setScene(state.SceneLobby)
	})

	a.orch = anim.NewOrchestrator(registry, dispatcher, a.gameScene, store.LocalID)
	a.loop = reconcile.NewLoop(a.orch, registry, a.gameScene, a.scheduleDeferred, a.gameScene.Remount)

	a.banner = canvas.NewText("", color.NRGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff})
	a.banner.TextSize = 48
	a.banner.TextStyle = fyne.TextStyle{Bold: true}
	a.bannerBox = container.NewCenter(a.banner)
	a.bannerBox.Hide()

	a.sceneHolder = container.NewStack(a.menuScene.Content())
	a.window.SetContent(container.NewStack(a.sceneHolder, a.bannerBox))

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyR && a.currentScene == state.SceneGame {
			a.loop.Rebuild(reconcile.ReasonManualReload)
		}
	})

	a.registerObservers()
	return a
}

// Orchestrator exposes the animation orchestrator for external wiring, such
// as the debug API.
func (a *App) Orchestrator() *anim.Orchestrator {
	return a.orch
}

// Run shows the window and blocks until it closes. The tick loop runs for
// the lifetime of the window.
func (a *App) Run() {
	go a.tickLoop()
	a.window.ShowAndRun()
	close(a.stop)
}

func (a *App) registerObservers() {
	a.dispatcher.Register(&events.ObserverFunc{
		Name:  "gui-scene-router",
		Types: []string{events.TypeSceneSwitch},
		Fn: func(ev events.Event) error {
			scene, ok := ev.Data.(string)
			if !ok {
				return nil
			}
			fyne.Do(func() { a.setScene(scene) })
			return nil
		},
	})

	a.dispatcher.Register(&events.ObserverFunc{
		Name:  "gui-state-sync",
		Types: []string{events.TypeStateUpdated},
		Fn: func(ev events.Event) error {
			st, ok := ev.Data.(game.State)
			if !ok {
				return nil
			}
			fyne.Do(func() { a.syncState(st) })
			return nil
		},
	})

	a.dispatcher.Register(&events.ObserverFunc{
		Name:  "gui-hand-sync",
		Types: []string{events.TypeHandChanged},
		Fn: func(ev events.Event) error {
			fyne.Do(func() {
				if a.currentScene == state.SceneGame {
					a.gameScene.Resync()
				}
			})
			return nil
		},
	})

	a.dispatcher.Register(&events.ObserverFunc{
		Name:  "gui-end-banner",
		Types: []string{events.TypeGameEnded},
		Fn: func(ev events.Event) error {
			winner, _ := ev.Data.(string)
			fyne.Do(func() { a.showBanner(winner) })
			return nil
		},
	})
}

// syncState is the state:updated handler: it feeds the orchestrator the
// derived event, keeps the turn emphasis current and refreshes whichever
// scene is up.
func (a *App) syncState(st game.State) {
	switch a.currentScene {
	case state.SceneLobby:
		a.lobbyScene.Refresh()
	case state.SceneGame:
		a.orch.Observe(a.store.CurrentEvent())
		if a.gameScene.SyncState(st) {
			// The player set itself changed; ordinary per-message
			// drift (hand counts, discard face) settles through
			// Resync instead, so it cannot cancel the task just
			// scheduled above.
			a.loop.Rebuild(reconcile.ReasonStateDrift)
		} else if a.orch.ActiveCount() == 0 && a.orch.DeferredCount() == 0 {
			a.gameScene.Resync()
		}
		a.orch.ApplyTurnHighlight(st)
	}
}

// setScene routes between menu, lobby and game. Leaving the game scene
// tears down animations, bindings and handles; entering it mounts fresh.
func (a *App) setScene(name string) {
	if name == a.currentScene {
		return
	}
	log.Printf("[App] Scene switch: %s -> %s", a.currentScene, name)

	if a.currentScene == state.SceneGame {
		a.orch.CancelAll()
		a.gameScene.Unmount()
	}

	var content fyne.CanvasObject
	switch name {
	case state.SceneLobby:
		a.lobbyScene.Refresh()
		content = a.lobbyScene.Content()
	case state.SceneGame:
		a.gameScene.Mount()
		a.lastSize = a.window.Canvas().Size()
		content = a.gameScene.Content()
	default:
		content = a.menuScene.Content()
	}

	a.currentScene = name
	a.sceneHolder.Objects = []fyne.CanvasObject{content}
	a.sceneHolder.Refresh()
}

func (a *App) showBanner(winner string) {
	if winner == "" {
		winner = "Nobody"
	}
	st := a.store.Snapshot()
	if p := st.PlayerByID(winner); p != nil {
		winner = p.Username
	}
	a.banner.Text = winner + " wins!"
	a.banner.Refresh()
	a.bannerBox.Show()

	time.AfterFunc(bannerDuration, func() {
		fyne.Do(func() { a.bannerBox.Hide() })
	})
}

// scheduleDeferred queues a continuation for the next tick. Used by the
// reconciliation loop so rebuilds never run inside the teardown that
// requested them.
func (a *App) scheduleDeferred(fn func()) {
	a.deferred = append(a.deferred, fn)
}

func (a *App) tickLoop() {
	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			fyne.Do(func() { a.tick(a.tickInterval) })
		}
	}
}

// tick runs once per frame on the UI thread: flush continuations queued on
// earlier ticks, detect viewport resizes, advance animations.
func (a *App) tick(dt time.Duration) {
	if len(a.deferred) > 0 {
		pending := a.deferred
		a.deferred = nil
		for _, fn := range pending {
			fn()
		}
	}

	if a.currentScene == state.SceneGame {
		if size := a.window.Canvas().Size(); size != a.lastSize {
			a.lastSize = size
			a.loop.Rebuild(reconcile.ReasonResize)
		}
		a.orch.Tick(dt)
	}
}
