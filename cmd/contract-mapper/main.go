// Package main provides the CLI entrypoint for contract-mapper.
//
// contract-mapper reads a mapper file declaring conversion contracts between
// types, resolves each contract into a conversion plan over several rounds,
// and generates Go mapper implementations:
//   - gen: resolve and write generated mappers
//   - plan: resolve and print the plans as YAML or JSON
//   - check: resolve and report diagnostics only
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := New(ctx, os.Args[1:], os.Stdout)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
