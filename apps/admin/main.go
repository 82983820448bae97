package main

import (
	"log"
	"os"

	"github.com/skillbridge/portal/core"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		logger.Fatal(err)
	}

	cli := commandLine{conf: conf, out: os.Stdout}
	if err = cli.run(os.Args[1:]); err != nil {
		logger.Printf("error: %s\n", err)
		os.Exit(1)
	}
}
