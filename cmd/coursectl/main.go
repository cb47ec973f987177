// Package main is the coursectl operator CLI: seed the index, import a seed
// file into the Postgres catalog, or print the query the API would send.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
