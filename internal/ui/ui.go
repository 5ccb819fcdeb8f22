package ui

import (
	"os"

	"gioui.org/app"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
)

// Run launches the editor window and blocks until it closes.
func Run(opts Options) error {
	go func() {
		w := new(app.Window)
		ui := New(w, opts)
		if err := ui.Run(); err != nil {
			logging.Error("ui: %v", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
