// Package print provides the "print" service: a printer that writes sorted
// key/value maps.
package print

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'print' service declaration.
type Input struct {
	Indent string `cty:"indent"`
}

// Printer writes values to Out, one "key = value" line per entry.
type Printer struct {
	Indent string
	Out    io.Writer
}

// Print writes values in key order. A nil map prints "(null)".
func (p *Printer) Print(ctx context.Context, values map[string]string) error {
	ctxlog.FromContext(ctx).Debug("Printing input", "entries", len(values))

	if values == nil {
		_, err := fmt.Fprintf(p.Out, "%s(null)\n", p.Indent)
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if _, err := fmt.Fprintf(p.Out, "%s%s = %q\n", p.Indent, k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// NewPrinter is the factory for the 'print' kind.
func NewPrinter(_ context.Context, args catalog.Args) (any, error) {
	input := Input{Indent: "      "}
	if err := args.Decode(&input); err != nil {
		return nil, err
	}
	return &Printer{Indent: input.Indent, Out: os.Stdout}, nil
}

// Register registers the factory with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterService("print", NewPrinter)
}
