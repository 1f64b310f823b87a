package main

import (
	"log"
	"os"

	"secondbrain/cli"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
