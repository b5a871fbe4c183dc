package main

import (
	"os"

	"github.com/GoContent-Admin/GoContent-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
