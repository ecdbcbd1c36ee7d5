// Command qfit-profile renders the elevation profile of a QFIT granule as a
// PNG: ellipsoidal elevation of each laser shot against relative time.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/qfit/internal/qfit"
)

func main() {
	var (
		outPath string
		every   int
		lenient bool
	)

	flag.StringVar(&outPath, "o", "profile.png", "output PNG path")
	flag.IntVar(&every, "every", 1, "plot every n-th record")
	flag.BoolVar(&lenient, "lenient", false, "skip records with out-of-range fields instead of failing")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: qfit-profile [flags] granule.qi")
	}
	if every < 1 {
		log.Fatalf("-every must be at least 1")
	}

	path := flag.Arg(0)
	if err := renderProfile(path, outPath, every, lenient); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	fmt.Printf("wrote %s\n", outPath)
}

func renderProfile(path, outPath string, every int, lenient bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	format, err := qfit.DetectFormat(data)
	if err != nil {
		return err
	}
	header, err := qfit.ReadHeader(data, format)
	if err != nil {
		return err
	}

	mode := qfit.Strict
	if lenient {
		mode = qfit.Lenient
	}
	reader := qfit.NewReader(bytes.NewReader(data), header, mode)

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records to plot")
	}

	pts := make(plotter.XYs, 0, (len(records)+every-1)/every)
	for i := 0; i < len(records); i += every {
		pts = append(pts, plotter.XY{X: records[i].RelTime, Y: records[i].Elevation})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Elevation Profile - %s (%s)", path, header.Format)
	p.X.Label.Text = "Relative Time (s)"
	p.Y.Label.Text = "Elevation (m, WGS84)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to create line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
