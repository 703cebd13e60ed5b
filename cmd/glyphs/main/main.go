package main

import (
	"os"

	"github.com/arthur-debert/glyphs/cmd/glyphs"
)

func main() {
	os.Exit(glyphs.Execute())
}
