// Command glossa assembles glossary-aware translation prompts and sends them
// to a text-generation backend.
//
// Usage:
//
//	glossa "<text to translate>"
//	glossa prompt "<text>"          # print the assembled prompt only
//	glossa match "<text>"           # show which glossary terms matched
//	glossa batch texts.txt          # translate one text per line
//	glossa worker                   # consume requests from RabbitMQ
//
// Configuration comes from flags, GLOSSA_* environment variables, a .env
// file and an optional .glossa.yaml config file.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds a fresh command tree and executes it with args.
func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(newApp(stdout, stderr))
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}
