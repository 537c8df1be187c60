package main

import (
	"github.com/kdsah/raytracer/cmd/kdtrace/cmd"
)

func main() {
	cmd.Execute()
}
