// glyphs-completions prints a shell completion script for release packaging.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/glyphs/cmd/glyphs"
	"github.com/spf13/cobra"
)

var generators = map[string]func(*cobra.Command, io.Writer) error{
	"bash":       func(c *cobra.Command, w io.Writer) error { return c.GenBashCompletionV2(w, true) },
	"zsh":        func(c *cobra.Command, w io.Writer) error { return c.GenZshCompletion(w) },
	"fish":       func(c *cobra.Command, w io.Writer) error { return c.GenFishCompletion(w, true) },
	"powershell": func(c *cobra.Command, w io.Writer) error { return c.GenPowerShellCompletionWithDesc(w) },
}

func shells() string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <%s>\n", os.Args[0], shells())
		os.Exit(1)
	}

	gen, ok := generators[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown shell %q (%s)\n", os.Args[1], shells())
		os.Exit(1)
	}
	if err := gen(glyphs.NewRootCmd(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "generating %s completion: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}
