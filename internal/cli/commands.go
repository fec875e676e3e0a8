package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vk/plugreg/internal/app"
	"github.com/vk/plugreg/internal/declaration"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Run discovery and print every registry entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			s, err := a.Services(cmd.Context())
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}
			view := app.NewRegistryView(s)

			tw := tabwriter.NewWriter(opts.outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE")
			for _, e := range view.Entries {
				fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.Type)
			}
			for _, section := range []struct {
				name    string
				entries map[string]string
			}{
				{"assemblers", view.Assemblers},
				{"weavers", view.Weavers},
				{"runtimes", view.Runtimes},
				{"beliefs", view.Beliefs},
			} {
				fmt.Fprintf(tw, "\n%s (%d)\n", section.name, len(section.entries))
				for _, k := range sortedKeys(section.entries) {
					fmt.Fprintf(tw, "  %s\t%s\n", k, section.entries[k])
				}
			}
			return tw.Flush()
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one registry entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			s, err := a.Services(cmd.Context())
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}
			v, ok := s.Lookup(args[0])
			if !ok {
				return &ExitError{Code: 1, Message: fmt.Sprintf("no registry entry named '%s'", args[0])}
			}
			fmt.Fprintf(opts.outW, "%T\n%+v\n", v, v)
			return nil
		},
	}
}

func newKindsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "Print the provider kinds compiled into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			tw := tabwriter.NewWriter(opts.outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tKIND")
			for _, cat := range declaration.Categories {
				for _, kind := range a.Catalog().Kinds(cat) {
					fmt.Fprintf(tw, "%s\t%s\n", cat, kind)
				}
			}
			return tw.Flush()
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /health, /metrics and /registry over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			return a.Serve(ctx)
		},
	}
	cmd.Flags().String("listen", app.DefaultConfig().ListenAddr, "address the HTTP server listens on")
	_ = opts.v.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
