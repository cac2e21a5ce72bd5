package main

import (
	"github.com/joho/godotenv"
	"github.com/khrees2412/jobmatch/cmd"
)

func main() {
	// .env is optional; JOBMATCH_* variables may also come from the shell
	_ = godotenv.Load()
	cmd.Execute()
}
