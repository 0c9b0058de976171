// Command familytree edits single-root family trees from an interactive shell.
package main

import "github.com/mesh-intelligence/familytree/internal/cli"

func main() {
	cli.Execute()
}
