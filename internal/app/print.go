package app

import (
	"fmt"

	"github.com/vk/slxkit/internal/model"
)

// printSummary writes a human-readable block tree: one line per block,
// indented by nesting depth, with connection and annotation counts per
// system.
func (a *App) printSummary(sys *model.System) {
	fmt.Fprintf(a.outW, "System: %d blocks, %d lines, %d annotations\n",
		len(sys.Blocks), len(sys.Lines), len(sys.Annotations))
	a.printSystem(sys, 1)
}

func (a *App) printSystem(sys *model.System, depth int) {
	for _, blk := range sys.Blocks {
		for i := 0; i < depth; i++ {
			fmt.Fprint(a.outW, "  ")
		}
		fmt.Fprintf(a.outW, "%s %q", blk.EffectiveType(), blk.Name)
		if blk.SID != "" {
			fmt.Fprintf(a.outW, " (SID %s)", blk.SID)
		}
		if blk.LibrarySource != "" {
			fmt.Fprintf(a.outW, " [library %s]", blk.LibrarySource)
		}
		fmt.Fprintln(a.outW)
		if blk.Subsystem != nil {
			a.printSystem(blk.Subsystem, depth+1)
		}
	}
}
