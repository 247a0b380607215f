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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/planewaves/InputParameters"
	"github.com/notargets/planewaves/dirichlet"
	"github.com/notargets/planewaves/quadrature"
)

const exampleFile = `
########################################
Title: "Evanescent waves, uniform grid"
Kappa: 1
Target: [0, 0, 0, 0, 1]   # circular wave coefficients, modes -2..2
Basis: evanescent         # or propagative
Strategy: uniform         # uniform, random or sobol
NumBasis: 40
KernelModes: 0            # 0 = NumBasis/6
Oversampling: 2
Regularization: 1.e-8
Seed: 1
########################################
`

// ReconstructCmd represents the reconstruct command
var ReconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Reconstruct a target from boundary samples and report the error",
	Long: `
Reads a scenario file, builds the plane wave approximation set, samples the
target on the boundary and solves the regularized least squares system.

planewaves reconstruct -I scenario.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			sc      *InputParameters.Scenario
			rp      *dirichlet.Report
			file    string
			usePerf bool
			profDir string
			cfg     dirichlet.Config
		)
		file, _ = cmd.Flags().GetString("inputConditionsFile")
		usePerf, _ = cmd.Flags().GetBool("perf")
		profDir, _ = cmd.Flags().GetString("profile")
		if sc, err = processInput(file); err != nil {
			return
		}
		sc.Print()
		if len(profDir) != 0 {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(profDir), profile.Quiet).Stop()
		}
		if cfg, err = solverConfig(); err != nil {
			return
		}
		solve := func() (err error) {
			rp, err = dirichlet.Solve(problemFor(sc), cfg)
			return
		}
		if usePerf {
			err = measure(solve)
		} else {
			err = solve()
		}
		if err != nil {
			return
		}
		fmt.Print(rp)
		return
	},
}

func init() {
	rootCmd.AddCommand(ReconstructCmd)
	ReconstructCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML scenario file, see the example printed without it")
	ReconstructCmd.Flags().Bool("perf", false, "report CPU cycles of the solve (linux only)")
	ReconstructCmd.Flags().String("profile", "", "write a CPU profile into this directory")
}

func processInput(file string) (sc *InputParameters.Scenario, err error) {
	if len(file) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply a scenario file (-I, --inputConditionsFile) in YAML format")
	}
	var data []byte
	if data, err = os.ReadFile(file); err != nil {
		return
	}
	sc = &InputParameters.Scenario{}
	if err = sc.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return
}

// problemFor applies the configured seed to scenarios that leave it unset.
func problemFor(sc *InputParameters.Scenario) (p dirichlet.Problem) {
	p = sc.Problem()
	if p.Seed == 0 {
		p.Seed = viper.GetUint64("seed")
	}
	return
}

// solverConfig carries the root logger and the --rule quadrature into every
// stage of the solve.
func solverConfig() (cfg dirichlet.Config, err error) {
	var rule *quadrature.RuleCache
	if rule, err = quadrature.ParseRule(viper.GetString("rule")); err != nil {
		return
	}
	cfg = dirichlet.DefaultConfig()
	cfg.Kernel.Quadrature.Rule = rule
	cfg.Sampler.Quadrature.Rule = rule
	cfg.Logger = logger
	cfg.Kernel.Logger = logger
	cfg.Sampler.Logger = logger
	return
}
