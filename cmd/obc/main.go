// Command obc manages local working copies of build-service projects
// and packages.
package main

import "github.com/buildmesh/obc/internal/cli"

func main() {
	cli.Execute()
}
