package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/resume-site/cmd"
)

func main() {
	cmd.Execute()
}
