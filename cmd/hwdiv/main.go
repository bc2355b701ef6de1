// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwdiv runs divisions on the cycle accurate divider model.
//
// Negative operands can be given as is:
//
//	hwdiv divide -w 8 -22 7
//
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra prints the error.
		os.Exit(1)
	}
}
