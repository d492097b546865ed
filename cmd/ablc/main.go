// Command ablc compiles agent-based-modeling scripts and hands the
// analyzed result off to a named backend.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/ablc/cmd/ablc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
