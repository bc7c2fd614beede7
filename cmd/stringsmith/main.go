package main

import (
	"os"

	"github.com/arthur-debert/stringsmith/pkg/style"
)

func main() {
	if err := Execute(); err != nil {
		style.ErrorPrinter.Println(err)
		os.Exit(1)
	}
}
