// Package main is the entry point for the luaveil CLI.
package main

import "luaveil.dev/pkg/luaveil/cmd"

func main() {
	cmd.Execute()
}
