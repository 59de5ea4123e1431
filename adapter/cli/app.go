package cli

import (
	"fmt"

	"github.com/felixgeelhaar/weekplan/internal/app"
)

var cliApp *app.Container

// SetApp installs the wired container for all commands.
func SetApp(a *app.Container) {
	cliApp = a
}

// GetApp returns the wired container, or nil when the store could not
// be initialized.
func GetApp() *app.Container {
	return cliApp
}

// requireApp prints the standard hint when no container is available.
func requireApp() *app.Container {
	if cliApp == nil {
		fmt.Println("weekplan requires a working data store.")
		fmt.Println("Check DATABASE_URL or WEEKPLAN_SQLITE_PATH and try again.")
	}
	return cliApp
}
