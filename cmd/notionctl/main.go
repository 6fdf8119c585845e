package main

import (
	"fmt"
	"os"

	"excelviewer/internal/notioncli"

	"github.com/joho/godotenv"
)

func main() {
	// Pick up NOTION_TOKEN and NOTION_ALLOW_WRITE from .env when present.
	_ = godotenv.Overload()

	if err := notioncli.NewCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
