package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/state"
)

// runHeadless requests one chart from the flags and writes the requested
// outputs. Returns the process exit code.
func runHeadless(ctx context.Context, ctrl *state.Controller, cfg *config.Config, stdout, stderr io.Writer) int {
	ctrl.SetInput(birth)
	st, err := ctrl.Submit(ctx)
	if errors.Is(err, state.ErrInvalidInput) {
		errs := ctrl.Snapshot().Errors
		for _, f := range errs.Fields() {
			fmt.Fprintf(stderr, "-%s %s\n", f, form.DefaultMessages.Text(errs[f].Code))
		}
		return 2
	}
	if st.Status != state.StatusSuccess {
		fmt.Fprintf(stderr, "Error: %s\n", st.Message)
		return 1
	}

	p := st.Data
	layout := chart.Build(p)

	if summaryMode {
		fmt.Fprintln(stdout, layout.Summary)
	}

	if tableMode {
		chart.WriteTable(stdout, chart.BuildTable(p))
		if len(p.Aspects) > 0 {
			fmt.Fprintln(stdout)
			chart.WriteAspects(stdout, p)
		}
	}

	if wheelMode {
		w, h := wheelSize()
		fmt.Fprintln(stdout, render.ASCII(layout, w, h, render.ASCIIOptions{}).String())
	}

	if jsonPath != "" {
		export := chart.NewExport(p, ctrl.Snapshot().Request, time.Now())
		if err := writeOutput(jsonPath, stdout, export.WriteJSON); err != nil {
			fmt.Fprintf(stderr, "Error: write JSON: %v\n", err)
			return 1
		}
	}

	if svgPath != "" {
		if err := writeOutput(svgPath, stdout, func(w io.Writer) error { return render.SVG(w, layout) }); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if pngPath != "" {
		opts := render.PNGOptions{Size: cfg.Render.PNGSize, FontPath: cfg.Render.FontPath}
		if err := writeOutput(pngPath, stdout, func(w io.Writer) error { return render.PNG(w, layout, opts) }); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// writeOutput sends fn's output to stdout for "-" or to a new file.
func writeOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// wheelSize fits the text wheel to the terminal, or a fixed size when
// stdout is not one.
func wheelSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && h > 10 {
			h -= 2
			if h > 41 {
				h = 41
			}
			if 2*h+1 < w {
				w = 2*h + 1
			}
			return w, h
		}
	}
	return 73, 37
}

// runHealth prints the service health report.
func runHealth(ctx context.Context, p ephem.Provider, stdout, stderr io.Writer) int {
	status, err := p.Health(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%s: unhealthy: %s\n", p.Name(), state.ErrorMessage(err))
		return 1
	}

	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(stdout, "%s: healthy\n", p.Name())
	for _, k := range keys {
		v, _ := json.Marshal(status[k])
		fmt.Fprintf(stdout, "  %-12s %s\n", k, v)
	}
	return 0
}
