// Package main provides the hypostat CLI for computing test statistics,
// degrees of freedom and critical values of classical hypothesis tests.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
