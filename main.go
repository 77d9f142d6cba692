// Package main is the entry point for the mutest CLI.
package main

import "gooze.dev/pkg/mutest/cmd"

func main() {
	cmd.Execute()
}
