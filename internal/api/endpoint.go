package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint pairs an HTTP route with the CLI command that calls it, so the
// server and the CLI are generated from one list.
type Endpoint interface {
	// Route returns the method, the ServeMux pattern and the handler.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs built services. Until
	// they exist the server answers 503.
	RequiresInit() bool

	// Command builds the client-side command, or nil for routes with no
	// CLI form. getServerURL is resolved when the command runs, after flags
	// are parsed.
	Command(getServerURL func() string) *cobra.Command
}
