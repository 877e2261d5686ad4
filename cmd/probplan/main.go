// Grounded on AleutianLocal's cmd/aleutian/main.go:
// a bare main that hands off entirely to cobra's Execute.
package main

import (
	stdlog "log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("probplan: %v", err)
	}
}
