package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/planewaves/dirichlet"
)

// Parameters obtained from the YAML scenario file
type Scenario struct {
	Title          string    `yaml:"Title"`
	Kappa          float64   `yaml:"Kappa"`
	Target         []float64 `yaml:"Target"`     // Real parts of the circular wave coefficients, modes -L..L
	TargetImag     []float64 `yaml:"TargetImag"` // Optional imaginary parts
	Basis          string    `yaml:"Basis"`
	Strategy       string    `yaml:"Strategy"`
	NumBasis       int       `yaml:"NumBasis"`
	KernelModes    int       `yaml:"KernelModes"` // Zero is NumBasis/6
	Oversampling   float64   `yaml:"Oversampling"`
	Regularization float64   `yaml:"Regularization"`
	Seed           uint64    `yaml:"Seed"`
}

func (sc *Scenario) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, sc); err != nil {
		return
	}
	sc.setDefaults()
	return sc.Validate()
}

func (sc *Scenario) setDefaults() {
	if sc.Basis == "" {
		sc.Basis = string(dirichlet.Evanescent)
	}
	sc.Basis = strings.ToLower(sc.Basis)
	if sc.Strategy == "" {
		sc.Strategy = "uniform"
	}
	if sc.Oversampling == 0 {
		sc.Oversampling = 2
	}
	if sc.Regularization == 0 {
		sc.Regularization = 1e-8
	}
}

func (sc *Scenario) Validate() error {
	switch {
	case sc.Kappa <= 0:
		return fmt.Errorf("scenario %q: Kappa must be positive, have %g", sc.Title, sc.Kappa)
	case len(sc.Target)%2 != 1:
		return fmt.Errorf("scenario %q: Target needs an odd number of coefficients, have %d",
			sc.Title, len(sc.Target))
	case len(sc.TargetImag) != 0 && len(sc.TargetImag) != len(sc.Target):
		return fmt.Errorf("scenario %q: TargetImag has %d entries for %d coefficients",
			sc.Title, len(sc.TargetImag), len(sc.Target))
	case sc.NumBasis <= 0:
		return fmt.Errorf("scenario %q: NumBasis must be positive, have %d", sc.Title, sc.NumBasis)
	case sc.Basis != string(dirichlet.Propagative) && sc.Basis != string(dirichlet.Evanescent):
		return fmt.Errorf("scenario %q: unknown Basis %q", sc.Title, sc.Basis)
	case sc.Oversampling < 1:
		return fmt.Errorf("scenario %q: Oversampling %g leaves the system underdetermined",
			sc.Title, sc.Oversampling)
	case sc.Regularization < 0 || sc.Regularization >= 1:
		return fmt.Errorf("scenario %q: Regularization %g outside [0, 1)", sc.Title, sc.Regularization)
	}
	return nil
}

// Problem converts the scenario into a solvable problem.
func (sc *Scenario) Problem() (p dirichlet.Problem) {
	target := make([]complex128, len(sc.Target))
	for i, re := range sc.Target {
		var im float64
		if len(sc.TargetImag) == len(sc.Target) {
			im = sc.TargetImag[i]
		}
		target[i] = complex(re, im)
	}
	return dirichlet.Problem{
		Title:          sc.Title,
		Kappa:          sc.Kappa,
		Target:         target,
		Basis:          dirichlet.BasisKind(sc.Basis),
		Strategy:       sc.Strategy,
		NumBasis:       sc.NumBasis,
		KernelModes:    sc.KernelModes,
		Oversampling:   sc.Oversampling,
		Regularization: sc.Regularization,
		Seed:           sc.Seed,
	}
}

func (sc *Scenario) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sc.Title)
	fmt.Printf("%8.5f\t\t= Kappa\n", sc.Kappa)
	fmt.Printf("%v\t= Target\n", sc.Target)
	if len(sc.TargetImag) != 0 {
		fmt.Printf("%v\t= TargetImag\n", sc.TargetImag)
	}
	fmt.Printf("[%s]\t\t= Basis\n", sc.Basis)
	if sc.Basis == string(dirichlet.Evanescent) {
		fmt.Printf("[%s]\t\t= Strategy\n", sc.Strategy)
		fmt.Printf("[%d]\t\t\t= Kernel Modes\n", sc.KernelModes)
		fmt.Printf("[%d]\t\t\t= Seed\n", sc.Seed)
	}
	fmt.Printf("[%d]\t\t\t= Basis Size\n", sc.NumBasis)
	fmt.Printf("%8.5f\t\t= Oversampling\n", sc.Oversampling)
	fmt.Printf("%8.2e\t\t= Regularization\n", sc.Regularization)
}
