// Command varinstance produces a static or partially-instanced font
// from a variable font and a set of axis limits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/grishacl/varinstance/instancer"
	"github.com/grishacl/varinstance/ot"
)

func tracer() tracing.Trace {
	return tracing.Select("varinstance")
}

func initTracing(level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.varinstance": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	switch level {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
}

func main() {
	output := flag.String("o", "", "output font path (default: <input>-instance.<ext> when every axis is pinned, else <input>-partial.<ext>)")
	noOptimize := flag.Bool("no-optimize", false, "keep every point's delta explicit in surviving gvar entries")
	noOverlap := flag.Bool("no-overlap-flag", false, "do not set OVERLAP_SIMPLE/OVERLAP_COMPOUND on instanced glyphs")
	quiet := flag.Bool("q", false, "suppress progress output")
	verbose := flag.Bool("v", false, "verbose (debug) trace output")
	flag.Parse()

	level := "Info"
	if *verbose {
		level = "Debug"
	}
	if *quiet {
		level = "Error"
	}
	initTracing(level)

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: varinstance [flags] <font> [AXIS=value ...]")
		os.Exit(2)
	}
	fontPath := args[0]

	limits, err := parseLimitArgs(args[1:])
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	font, err := ot.ParseFont(data, 0)
	if err != nil {
		pterm.Error.Printfln("parsing %s: %s", fontPath, err)
		os.Exit(2)
	}

	if !font.HasTable(ot.TagFvar) {
		pterm.Error.Println("font has no fvar table; nothing to instance")
		os.Exit(2)
	}
	fvarData, err := font.TableData(ot.TagFvar)
	if err != nil {
		pterm.Error.Printfln("reading fvar: %s", err)
		os.Exit(2)
	}
	fvar, err := ot.ParseFvar(fvarData)
	if err != nil {
		pterm.Error.Printfln("parsing fvar: %s", err)
		os.Exit(2)
	}

	var avar *ot.Avar
	if font.HasTable(ot.TagAvar) {
		if avarData, err := font.TableData(ot.TagAvar); err == nil {
			avar, _ = ot.ParseAvar(avarData)
		}
	}

	opts := &instancer.Options{
		Optimizer:      instancer.NoOptimizer{},
		SetOverlapFlag: !*noOverlap,
		Logger:         instancer.TracingLogger{},
	}
	_ = noOptimize // reserved for a future point-delta-compacting optimizer

	result, err := instancer.Instantiate(context.Background(), font, fvar, avar, limits, opts)
	if err != nil {
		pterm.Error.Printfln("instancing %s: %s", fontPath, err)
		os.Exit(2)
	}

	outPath := *output
	if outPath == "" {
		base := strings.TrimSuffix(fontPath, filepath.Ext(fontPath))
		suffix := "-instance"
		if len(result.Plan.SurvivingAxes) > 0 {
			suffix = "-partial"
		}
		outPath = base + suffix + filepath.Ext(fontPath)
	}

	pterm.DefaultSection.Println("Instancing summary")
	pterm.Info.Printfln("input:  %s", fontPath)
	pterm.Info.Printfln("output: %s", outPath)
	if len(result.Plan.SurvivingAxes) == 0 {
		pterm.Success.Println("every axis pinned: producing a fully static instance")
	} else {
		tags := make([]string, len(result.Plan.SurvivingAxes))
		for i, t := range result.Plan.SurvivingAxes {
			tags[i] = t.String()
		}
		pterm.Info.Printfln("surviving axes: %s", strings.Join(tags, ", "))
	}
	for _, w := range result.Warnings {
		pterm.Warning.Println(w)
	}

	tracer().Infof("instancing complete for %s", fontPath)
}

// parseLimitArgs converts a list of "TAG=spec" strings into a Limits map
// via instancer.ParseLimitString.
func parseLimitArgs(args []string) (instancer.Limits, error) {
	limits := make(instancer.Limits, len(args))
	for _, a := range args {
		tag, lim, err := instancer.ParseLimitString(a)
		if err != nil {
			return nil, fmt.Errorf("invalid axis limit %q: %w", a, err)
		}
		limits[tag] = lim
	}
	return limits, nil
}
