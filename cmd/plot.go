/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/notargets/planewaves/sampling"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the sampling density, its CDF and the sampled nodes",
	Long: `
Writes the density and CDF of the evanescent parameter zeta over the support
to one image and the sampled nodes in the (phi, zeta) rectangle to another.
A CSV file with the curves is written next to the density image.

planewaves plot --kappa 1 --modes 6 --strategy sobol -M 200 --out density.png --nodes nodes.png`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			s             *sampling.Sampler
			nodes         []sampling.Node
			out, nodesOut string
			strategy      string
			M, resolution int
		)
		out, _ = cmd.Flags().GetString("out")
		nodesOut, _ = cmd.Flags().GetString("nodes")
		strategy, _ = cmd.Flags().GetString("strategy")
		M, _ = cmd.Flags().GetInt("M")
		resolution, _ = cmd.Flags().GetInt("resolution")
		if resolution < 2 {
			return fmt.Errorf("resolution must be at least 2, have %d", resolution)
		}
		if s, err = samplerFromFlags(cmd); err != nil {
			return
		}
		density, cdf := densityCurves(s, resolution)
		if err = plotDensity(density, cdf, out); err != nil {
			return
		}
		csvFile := strings.TrimSuffix(out, ".png") + ".csv"
		if err = writeCurves(csvFile, density, cdf); err != nil {
			return
		}
		fmt.Printf("Wrote %s and %s\n", out, csvFile)
		if len(nodesOut) == 0 {
			return
		}
		if nodes, _, err = sampleFromFlags(s, strategy, M); err != nil {
			return
		}
		if err = plotNodes(nodes, strategy, nodesOut); err != nil {
			return
		}
		fmt.Printf("Wrote %s\n", nodesOut)
		return
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	addSamplerFlags(PlotCmd)
	PlotCmd.Flags().StringP("out", "o", "density.png", "density and CDF image")
	PlotCmd.Flags().String("nodes", "", "image of the sampled nodes, skipped when empty")
	PlotCmd.Flags().Int("resolution", 400, "points per curve")
}

// densityCurves tabulates the density and CDF on n equispaced points of the support.
func densityCurves(s *sampling.Sampler, n int) (density, cdf plotter.XYs) {
	sup := s.Support()
	density = make(plotter.XYs, n)
	cdf = make(plotter.XYs, n)
	h := (sup.Right - sup.Left) / float64(n-1)
	for i := 0; i < n; i++ {
		z := sup.Left + float64(i)*h
		density[i] = plotter.XY{X: z, Y: s.Density(z)}
		cdf[i] = plotter.XY{X: z, Y: s.CDF(z)}
	}
	return
}

func plotDensity(density, cdf plotter.XYs, file string) (err error) {
	p := plot.New()
	p.Title.Text = "Evanescent Parameter Density and CDF"
	p.X.Label.Text = "zeta"
	p.Y.Label.Text = "rho, F"
	p.Add(plotter.NewGrid())
	if err = plotutil.AddLines(p, "density (x2 pi)", density, "CDF", cdf); err != nil {
		return
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}

func plotNodes(nodes []sampling.Node, strategy, file string) (err error) {
	pts := make(plotter.XYs, len(nodes))
	for i, n := range nodes {
		pts[i] = plotter.XY{X: n.Phi, Y: n.Zeta}
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d Nodes, %s Sampling", len(nodes), strategy)
	p.X.Label.Text = "phi"
	p.Y.Label.Text = "zeta"
	if err = plotutil.AddScatters(p, pts); err != nil {
		return
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, file)
}

func writeCurves(file string, density, cdf plotter.XYs) (err error) {
	var f *os.File
	if f, err = os.Create(file); err != nil {
		return
	}
	defer f.Close()
	return encodeCurves(f, density, cdf)
}

func encodeCurves(w io.Writer, density, cdf plotter.XYs) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write([]string{"zeta", "density", "cdf"}); err != nil {
		return
	}
	for i := range density {
		if err = cw.Write([]string{
			fmt.Sprintf("%.12e", density[i].X),
			fmt.Sprintf("%.12e", density[i].Y),
			fmt.Sprintf("%.12e", cdf[i].Y),
		}); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}
