// Command escreceipt parses an ESC/POS byte stream (or its thermal text-file
// debug form) and renders it through the reference output adapter,
// producing one PNG per page.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "escreceipt",
		Short: "Parse and render ESC/POS receipt byte streams",
	}
	root.AddCommand(newRenderCmd())
	return root
}
