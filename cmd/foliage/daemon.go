package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/daemon"
	"github.com/foliagewm/foliage/internal/hotkeys"
	"github.com/foliagewm/foliage/internal/ipc"
	"github.com/foliagewm/foliage/internal/platform"
	"github.com/foliagewm/foliage/internal/wm"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the window manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

func runDaemon() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	backend, err := platform.NewLinuxBackend(log)
	if err != nil {
		return fmt.Errorf("connect to display: %w", err)
	}
	defer backend.Disconnect()

	state := wm.New(backend, cfg, log)
	if err := state.Populate(); err != nil {
		return fmt.Errorf("populate initial state: %w", err)
	}
	log.Info("foliage daemon started", "monitors", len(state.Monitors()))

	reloadChan := make(chan *config.Config, 1)

	ipcServer, err := ipc.NewServer(state, log, reloadChan)
	if err != nil {
		return fmt.Errorf("create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	if path, err := config.DefaultConfigPath(); err == nil {
		if watcher, err := config.NewWatcher(path, log); err == nil {
			defer watcher.Close()
			go forwardReloads(watcher.Changes, reloadChan)
		} else {
			log.Warn("config hot-reload disabled", "error", err)
		}
	}

	hotkeyHandler := hotkeys.NewHandler(backend, func(command string) {
		dispatchCommand(state, command)
	})
	if err := hotkeyHandler.RegisterBindingModes(cfg.Bindings, func(mode string) bool {
		return bindingModeActive(state, mode)
	}); err != nil {
		log.Warn("hotkey registration failed", "error", err)
	}

	d := daemon.New(state, log, reloadChan)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				if newCfg, err := config.Load(); err == nil {
					select {
					case reloadChan <- newCfg:
					default:
					}
				} else {
					log.Warn("SIGHUP config reload failed", "error", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				log.Info("shutting down")
				ipcServer.Stop()
				backend.Disconnect()
				os.Exit(0)
			}
		}
	}()

	d.Run()
	return nil
}

func forwardReloads(from <-chan *config.Config, to chan<- *config.Config) {
	for cfg := range from {
		select {
		case to <- cfg:
		default:
			<-to
			to <- cfg
		}
	}
}

// bindingModeActive reports whether mode is among the WM state's currently
// active binding modes; resolved fresh on every keypress since
// modes can be toggled between registration and invocation.
func bindingModeActive(state *wm.State, mode string) bool {
	for _, active := range state.BindingModes {
		if active == mode {
			return true
		}
	}
	return false
}

// dispatchCommand interprets the command strings a hotkey can bind to:
// "toggle-mode <name>" adds or removes an active binding mode, and
// "toggle-tiling-direction" marks the focused container for redraw without
// changing any tiling direction. Every other command string is ignored.
func dispatchCommand(state *wm.State, command string) {
	state.Lock()
	defer state.Unlock()

	switch command {
	case "toggle-tiling-direction":
		if f := state.Focused(); f != nil {
			state.MarkDirty(f)
		}
	default:
		toggleBindingMode(state, command)
	}
}

func toggleBindingMode(state *wm.State, mode string) {
	const prefix = "toggle-mode "
	if len(mode) <= len(prefix) || mode[:len(prefix)] != prefix {
		return
	}
	name := mode[len(prefix):]
	for i, active := range state.BindingModes {
		if active == name {
			state.BindingModes = append(state.BindingModes[:i], state.BindingModes[i+1:]...)
			return
		}
	}
	state.BindingModes = append(state.BindingModes, name)
}
