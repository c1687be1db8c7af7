// main.go - Application entry point
package main

import "github.com/fieldops/geonav/cmd"

func main() {
	cmd.Execute()
}
