package main

import (
	"flag"
	"fmt"
	"os"
	"trustive/internal/di"
	"trustive/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config/trustive.yml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to stdout as well as to files")
	flag.Parse()

	app, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %s\n", err)
		os.Exit(1)
	}
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run: %s\n", err)
		os.Exit(1)
	}
}
