package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/glyphs/cmd/glyphs"
	"github.com/arthur-debert/glyphs/internal/version"
)

// writes glyphs.1 to stdout, or one page per command into the directory
// given as the only argument
func main() {
	rootCmd := glyphs.NewRootCmd()
	header := &doc.GenManHeader{
		Title:   "GLYPHS",
		Section: "1",
		Source:  "glyphs " + version.Version,
		Manual:  "glyphs manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
