// CLI entry point for reqtrack.
package main

import "github.com/juberis/reqtrack/internal/interfaces/cli"

func main() {
	cli.Execute()
}
