package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) ensureIndexes() error {
	names, err := cli.migrate(context.Background())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cli.out, "no indexes to create")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cli.out, name)
	}
	return nil
}
