package main

import (
	"os"

	"github.com/ytget/orbit-player/internal/app"
)

var version = "dev"

func main() {
	os.Exit(app.Execute(version))
}
