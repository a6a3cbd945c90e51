// Command sirdctl runs SIRD simulations from the terminal and manages the
// simulation history stored by the API server.
package main

import "github.com/phrazzld/sird-api/cmd/sirdctl/commands"

func main() {
	commands.Execute()
}
