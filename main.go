// ./main.go
package main

import "github.com/xkilldash9x/synthmouse/cmd"

// main is the entry point for the synthmouse CLI.
func main() {
	cmd.Execute()
}
