package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/asset"
	"rubik-viewer/internal/config"
	"rubik-viewer/internal/cubie"
)

func listPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range config.Names() {
		p, err := config.Builtin(name)
		if err != nil {
			return err
		}
		marker := ""
		if name == config.DefaultPreset {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s%s\t%d phase(s)\t%s\n", name, marker, len(p.Phases), p.Description)
	}
	return tw.Flush()
}

// inspect loads src headlessly and prints the cubie breakdown, each cubie's placement and
// how many cubies every preset's phases would select with the preset's cube scale applied.
func inspect(ctx context.Context, w io.Writer, src string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := asset.GLTF{}.Load(ctx, src)
	if err != nil {
		return err
	}
	cubies := cubie.Extract(root)
	b := cubie.Count(cubies)
	fmt.Fprintf(w, "Model:   %s\n", src)
	fmt.Fprintf(w, "Cubies:  %d (%s)\n\n", len(cubies), b)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tWORLD Y\tLOCAL Y\tBOUNDS Y")
	for _, c := range cubies {
		p := cubie.Describe(c)
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%.3f\n", p.Name, cubie.Classify(p.Name), p.WorldY, p.LocalY, p.BoundsY)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, name := range config.Names() {
		p, err := config.Builtin(name)
		if err != nil {
			return err
		}
		cfg, err := p.Scramble()
		if err != nil {
			return err
		}
		root.Scale = mgl32.Vec3{p.Cube.Scale, p.Cube.Scale, p.Cube.Scale}
		root.Translation = mgl32.Vec3(p.Cube.Position)
		for i, ph := range cfg.Phases {
			n := 0
			for _, c := range cubies {
				if ph.Select.Match(c) {
					n++
				}
			}
			fmt.Fprintf(w, "%-12s phase %d %-3s about %s: %d cubies\n", name, i, ph.Name, ph.Axis, n)
		}
	}
	return nil
}
