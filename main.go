package main

import (
	"context"

	"github.com/bjulian5/bbpr/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
