package main

import (
	"github.com/joho/godotenv"

	"url-triage-poc/cmd"
)

func main() {
	_ = godotenv.Load()

	cmd.Execute()
}
