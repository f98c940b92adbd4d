// Command gcp-plot loads a station configuration, resolving ground control
// points from pairwise distances when needed, and renders the real-world
// coordinates as a scatter plot for visual inspection. A flipped axis or a
// mislabeled distance is obvious on the plot long before it corrupts
// velocity measurements.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YetAnotherUser24/awive/internal/config"
	"github.com/YetAnotherUser24/awive/internal/units"
)

var (
	configPath = flag.String("config", "", "Path to the station config file (required)")
	outFile    = flag.String("o", "gcp.png", "Output PNG path")
	speedUnits = flag.String("units", units.MPS, "Units for ground-truth velocities")
)

func main() {
	flag.Parse()
	if *configPath == "" {
		flag.PrintDefaults()
		os.Exit(2)
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q, valid: %s", *speedUnits, units.GetValidUnitsString())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	set := cfg.Dataset.GCP
	fmt.Printf("frame %dx%d, pixel scale %.4f m/px\n",
		cfg.Dataset.GetWidth(), cfg.Dataset.GetHeight(),
		units.MetersPerPixel(cfg.Dataset.GetPPM()))

	meters := set.MeterCoordinates()
	pixels := set.PixelCoordinates()
	fmt.Printf("%-6s %-14s %s\n", "point", "pixel", "meters")
	for i, m := range meters {
		fmt.Printf("%-6d [%d, %d]      [%.4f, %.4f]\n", i, pixels[i][0], pixels[i][1], m[0], m[1])
	}
	for i, gt := range set.GroundTruth {
		v := units.ConvertSpeed(gt.GetVelocity(), *speedUnits)
		fmt.Printf("ground truth %d: position %v velocity %.3f %s\n", i, gt.Position, v, *speedUnits)
	}

	p := plot.New()
	p.Title.Text = "Ground control points (meters)"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(meters))
	for i, m := range meters {
		pts[i] = plotter.XY{X: m[0], Y: m[1]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		log.Fatalf("failed to build scatter: %v", err)
	}
	scatter.Radius = vg.Points(4)
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 6*vg.Inch, *outFile); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	fmt.Printf("wrote %s\n", *outFile)
}
