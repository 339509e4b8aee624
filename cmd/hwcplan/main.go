// Command hwcplan runs the plane planner on frame fixtures and inspects
// recorded planning traces.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/config"
	"github.com/gogpu/hwc/plane"
	"github.com/gogpu/hwc/trace"
)

var (
	logLevel string

	variant      string
	soc          string
	capsPath     string
	settingsPath string
	framePath    string
	display      int
	tracePath    string
	previewPath  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hwcplan",
		Short:         "Plan display plane assignments for frame fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")

	plan := &cobra.Command{
		Use:   "plan",
		Short: "Plan one frame and print the bindings",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	}
	plan.Flags().StringVar(&variant, "variant", "rk356x", "Built-in hardware variant")
	plan.Flags().StringVar(&soc, "soc", "", "Pick the built-in variant by SoC name instead")
	plan.Flags().StringVar(&capsPath, "caps", "", "Capability table YAML, overrides --variant")
	plan.Flags().StringVar(&settingsPath, "settings", "", "Planner settings YAML")
	plan.Flags().StringVarP(&framePath, "frame", "f", "", "Frame fixture YAML (required)")
	plan.Flags().IntVar(&display, "display", 0, "Display index")
	plan.Flags().StringVar(&tracePath, "trace", "", "Append the planning trace as CBOR to this file")
	plan.Flags().StringVar(&previewPath, "preview", "", "Write a PNG preview of the plan")
	if err := plan.MarkFlagRequired("frame"); err != nil {
		panic(err)
	}

	variants := &cobra.Command{
		Use:   "variants",
		Short: "List built-in hardware variants",
		Args:  cobra.NoArgs,
		RunE:  runVariants,
	}

	replay := &cobra.Command{
		Use:   "replay <trace.cbor>",
		Short: "Print the frames of a recorded planning trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}

	root.AddCommand(plan, variants, replay)
	return root
}

func setupLogging(w io.Writer, level string) error {
	if level == "" {
		return nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	hwc.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}

func loadTable() (*plane.Table, error) {
	switch {
	case capsPath != "":
		return config.LoadTable(capsPath)
	case soc != "":
		return config.ForSoC(soc)
	default:
		return config.NewTable(variant)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	f, err := config.LoadFrame(framePath)
	if err != nil {
		return err
	}

	opts := []hwc.Option{hwc.WithDisplay(display)}
	if settingsPath != "" {
		s, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		opts = append(opts, s.Options()...)
	}

	var tw *trace.Writer
	if tracePath != "" {
		out, err := os.OpenFile(tracePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer out.Close()
		tw = trace.NewWriter(out)
		opts = append(opts, hwc.WithTrace(tw))
	}

	p, err := hwc.New(table, opts...)
	if err != nil {
		return err
	}
	plan, err := p.Plan(f)
	if err != nil {
		return err
	}
	if tw != nil {
		if err := tw.Err(); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}

	printPlan(cmd.OutOrStdout(), table, f, plan)
	if previewPath != "" {
		return writePreview(previewPath, f, plan)
	}
	return nil
}

func printPlan(w io.Writer, table *plane.Table, f *hwc.Frame, plan *hwc.Plan) {
	fmt.Fprintf(w, "table %s, display %d: %s after %d attempts\n",
		table.Name, plan.Display, plan.Policy, plan.Attempts)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tGROUP\tCLASS\tPLANE\tLAYER\tFORMAT\tCOMPRESSED")
	for _, b := range plan.Bindings {
		for _, a := range b.Assignments {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
				b.ZPos, b.Group.Name, table.ClassName(b.Group.Class), a.Plane.Name,
				layerName(a.Layer), a.Layer.Format, a.Compressed)
		}
	}
	_ = tw.Flush()

	if t := plan.Target; t != nil {
		fmt.Fprintf(w, "target %s: %dx%d %s (%v) compressed=%t\n",
			t.Span, t.Width, t.Height, t.Format, t.TextureFormat, t.Compressed)
	}
	for _, l := range f.Layers {
		if l.Composition == plane.CompositionClient {
			fmt.Fprintf(w, "client %s\n", layerName(l))
		}
	}
}

func layerName(l *plane.Layer) string {
	switch {
	case l.Target:
		return "target"
	case l.Name != "":
		return fmt.Sprintf("#%d %s", l.ID, l.Name)
	default:
		return fmt.Sprintf("#%d", l.ID)
	}
}

func runVariants(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tSOCS\tGROUPS\tPLANES")
	for _, name := range config.Variants() {
		t, err := config.NewTable(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", name, strings.Join(t.SoCs, ","), len(t.Groups), len(t.Planes()))
	}
	return tw.Flush()
}

func runReplay(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	frames, err := trace.ReadAll(in)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, f := range frames {
		if f.Error != "" {
			fmt.Fprintf(w, "#%d display %d: %d layers, error: %s\n", f.Seq, f.Display, f.Layers, f.Error)
			continue
		}
		fmt.Fprintf(w, "#%d display %d: %d layers, %s after %d attempts\n",
			f.Seq, f.Display, f.Layers, f.Policy, len(f.Attempts))
		for _, a := range f.Attempts {
			fmt.Fprintf(w, "  try %-9s (%d,%d) groups=%d ok=%t\n", a.Policy, a.First, a.Last, a.Groups, a.OK)
		}
		for _, b := range f.Bindings {
			fmt.Fprintf(w, "  z%d %s %s layers %v\n", b.Z, b.Group, strings.Join(b.Planes, "+"), b.Layers)
		}
		if f.TargetFirst >= 0 {
			fmt.Fprintf(w, "  target (%d,%d) compressed=%t\n", f.TargetFirst, f.TargetLast, f.TargetCompressed)
		}
	}
	return nil
}
