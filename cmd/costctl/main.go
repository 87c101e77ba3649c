package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	app := NewCLIApp(os.Stdout)
	if err := app.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
