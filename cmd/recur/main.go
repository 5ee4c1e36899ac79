// Recur is the Cursor stop-hook CLI. The binary is normally invoked by the
// Cursor agent through .cursor/hooks.json as "recur hook stop"; the remaining
// commands manage that registration and the per-project policy config.
package main

import (
	"os"

	"github.com/schmitthub/recur/internal/recur"
)

func main() {
	os.Exit(recur.Main())
}
