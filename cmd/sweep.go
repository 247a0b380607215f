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
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/planewaves/InputParameters"
	"github.com/notargets/planewaves/dirichlet"
)

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Repeat a scenario over sampling strategies and basis sizes",
	Long: `
Runs the scenario for every combination of sampling strategy and basis size
concurrently and prints one line per run.

planewaves sweep -I scenario.yaml --strategies=uniform,random,sobol --sizes=20,40,80`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			sc         *InputParameters.Scenario
			file       string
			strategies []string
			sizes      []int
			reports    []*dirichlet.Report
		)
		file, _ = cmd.Flags().GetString("inputConditionsFile")
		strategies, _ = cmd.Flags().GetStringSlice("strategies")
		sizes, _ = cmd.Flags().GetIntSlice("sizes")
		if sc, err = processInput(file); err != nil {
			return
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		problems := sweepProblems(problemFor(sc), strategies, sizes)
		var cfg dirichlet.Config
		if cfg, err = solverConfig(); err != nil {
			return
		}
		if reports, err = dirichlet.Sweep(ctx, problems, cfg, viper.GetInt("parallel")); err != nil {
			return
		}
		fmt.Printf("%-40s %8s %6s %12s %12s %12s\n", "Title", "M", "Rank", "Condition", "Residual", "Pointwise")
		for _, rp := range reports {
			fmt.Printf("%-40s %8d %6d %12.4e %12.4e %12.4e\n", rp.Title, rp.NumBasis, rp.Rank,
				rp.Condition, rp.Residual, rp.PointwiseError(0.5, math.Pi/4))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML scenario file used as the base of the sweep")
	SweepCmd.Flags().StringSlice("strategies", []string{"uniform", "random", "sobol"}, "sampling strategies of evanescent sets")
	SweepCmd.Flags().IntSlice("sizes", []int{20, 40, 80}, "basis sizes")
}

// sweepProblems expands base over strategies and sizes. Propagative sets
// do not sample, so only the sizes vary for them.
func sweepProblems(base dirichlet.Problem, strategies []string, sizes []int) (problems []dirichlet.Problem) {
	if base.Basis == dirichlet.Propagative || len(strategies) == 0 {
		strategies = []string{base.Strategy}
	}
	for _, st := range strategies {
		for _, M := range sizes {
			p := base
			p.Strategy, p.NumBasis = st, M
			p.Title = fmt.Sprintf("%s/%s/%d", base.Basis, st, M)
			if base.Basis == dirichlet.Propagative {
				p.Title = fmt.Sprintf("%s/%d", base.Basis, M)
			}
			problems = append(problems, p)
		}
	}
	return
}
