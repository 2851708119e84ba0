package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/seniko/internal/client/cli"
)

func main() {

	cmd := cli.NewRootCmd(os.Stdin, os.Stdout)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}

}
