package main

import "github.com/ElizaChat/spanner-schema-diff-tool/cmd"

func main() {
	cmd.Execute()
}
