package main

import (
	"os"

	"github.com/ytget/orbit-player/internal/app"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	os.Exit(app.Execute(version))
}
