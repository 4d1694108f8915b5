// Command restaurants queries the restaurant directory from the terminal. It
// resolves the collection through the local cache first and falls back to
// the configured endpoint, exactly like the directory page does.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, c := newRootCmd(os.Stdout)
	err := root.Execute()
	c.teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
