// Package main provides the entry point for the EZ Label application.
package main

import (
	"log"
	"os"
	"time"

	appstate "ezlabel/internal/app"
	"ezlabel/ui/mainwindow"
	"ezlabel/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appTitle = "EZ Label"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", appTitle)

	fyneApp := fyneapp.NewWithID("io.ezlabel")

	state := appstate.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)

	// An image path on the command line overrides the restored session.
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := state.OpenImage(path); err != nil {
			log.Printf("Failed to open image %s: %v", path, err)
		}
	}

	setupHotReload(win)

	win.SetOnClosed(func() {
		win.SavePreferences()
	})

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	watcher := appstate.WatchBinary(2 * time.Second)
	if watcher == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	watcher.OnRebuilt = func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(yes bool) {
				if yes {
					log.Println("Hot reload: saving preferences before restart...")
					win.SavePreferences()
					log.Println("Hot reload: restarting...")
					if err := watcher.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				watcher.Defer()
				watcher.Start()
			}, win.Window)
	}

	watcher.Start()

	// Flush dirty preferences in the background so a crash loses little.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			win.SavePreferencesIfChanged()
		}
	}()
}
