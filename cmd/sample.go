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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/planewaves/dirichlet"
	"github.com/notargets/planewaves/kernel"
	"github.com/notargets/planewaves/sampling"
	"github.com/notargets/planewaves/wavefunctions"
)

// SampleCmd represents the sample command
var SampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw evanescent wave parameters from the kernel density",
	Long: `
Builds the truncated kernel with Herglotz modes -L..L, samples M nodes with
the chosen strategy and prints each node with its weight.

planewaves sample --kappa 1 --modes 6 --strategy sobol -M 40`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			s        *sampling.Sampler
			nodes    []sampling.Node
			weights  []float64
			strategy string
			M        int
		)
		strategy, _ = cmd.Flags().GetString("strategy")
		M, _ = cmd.Flags().GetInt("M")
		if s, err = samplerFromFlags(cmd); err != nil {
			return
		}
		if nodes, weights, err = sampleFromFlags(s, strategy, M); err != nil {
			return
		}
		sup := s.Support()
		fmt.Printf("[%d]\t\t\t= Kernel Modes\n", s.Kernel().Len())
		fmt.Printf("[%8.5f,%8.5f]\t= Support\n", sup.Left, sup.Right)
		fmt.Printf("%18.15f\t= Mass\n", s.Mass())
		fmt.Printf("%6s %22s %22s %22s\n", "i", "zeta", "phi", "weight")
		for i, n := range nodes {
			fmt.Printf("%6d %22.15e %22.15e %22.15e\n", i, n.Zeta, n.Phi, weights[i])
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SampleCmd)
	addSamplerFlags(SampleCmd)
}

func addSamplerFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("kappa", "k", 1, "wavenumber")
	cmd.Flags().IntP("modes", "L", 6, "Herglotz modes -L..L of the truncated kernel")
	cmd.Flags().StringP("strategy", "s", "uniform", "sampling strategy: uniform, random or sobol")
	cmd.Flags().IntP("M", "M", 40, "number of nodes")
}

func samplerFromFlags(cmd *cobra.Command) (s *sampling.Sampler, err error) {
	var (
		kappa float64
		L     int
		tk    *kernel.TruncatedKernel
		cfg   dirichlet.Config
	)
	kappa, _ = cmd.Flags().GetFloat64("kappa")
	L, _ = cmd.Flags().GetInt("modes")
	if kappa <= 0 || L < 0 {
		return nil, fmt.Errorf("need a positive wavenumber and L >= 0, have %g and %d", kappa, L)
	}
	modes := make([]int, 0, 2*L+1)
	for p := -L; p <= L; p++ {
		modes = append(modes, p)
	}
	if cfg, err = solverConfig(); err != nil {
		return
	}
	if tk, err = kernel.NewTruncatedKernel(modes, wavefunctions.HerglotzWeight{Kappa: kappa}, cfg.Kernel); err != nil {
		return
	}
	return sampling.NewSampler(tk, cfg.Sampler)
}

func sampleFromFlags(s *sampling.Sampler, strategy string, M int) (nodes []sampling.Node, weights []float64, err error) {
	var st sampling.Strategy
	if st, err = sampling.ParseStrategy(strategy, viper.GetUint64("seed")); err != nil {
		return
	}
	return s.Sample(st, M)
}
