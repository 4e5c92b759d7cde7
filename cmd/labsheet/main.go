// Command labsheet builds lab sheet prompts, generates sheets and exports them
// without running the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
