package data

// LLGParams configures damped spin dynamics on a single image.
type LLGParams struct {
	Damping          float64 `yaml:"damping" mapstructure:"damping"`
	Dt               float64 `yaml:"dt" mapstructure:"dt"`
	ForceConvergence float64 `yaml:"force_convergence" mapstructure:"force_convergence"`
	// MaxIterations of 0 means unbounded.
	MaxIterations int    `yaml:"max_iterations" mapstructure:"max_iterations"`
	Solver        string `yaml:"solver" mapstructure:"solver"`
}

// MMFParams configures minimum mode following on a single image.
type MMFParams struct {
	Dt               float64 `yaml:"dt" mapstructure:"dt"`
	ForceConvergence float64 `yaml:"force_convergence" mapstructure:"force_convergence"`
	MaxIterations    int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Solver           string  `yaml:"solver" mapstructure:"solver"`
	// ModeIterations is the number of eigenmode refinement steps per iteration.
	ModeIterations int `yaml:"mode_iterations" mapstructure:"mode_iterations"`
}

// GNEBParams configures path relaxation of a whole chain.
type GNEBParams struct {
	SpringConstant   float64 `yaml:"spring_constant" mapstructure:"spring_constant"`
	Dt               float64 `yaml:"dt" mapstructure:"dt"`
	ForceConvergence float64 `yaml:"force_convergence" mapstructure:"force_convergence"`
	MaxIterations    int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Solver           string  `yaml:"solver" mapstructure:"solver"`
	// ClimbingImage is the index of the climbing image, -1 for none.
	ClimbingImage int `yaml:"climbing_image" mapstructure:"climbing_image"`
}

// Params holds the per-image method parameters.
type Params struct {
	LLG LLGParams `yaml:"llg" mapstructure:"llg"`
	MMF MMFParams `yaml:"mmf" mapstructure:"mmf"`
}

func DefaultLLGParams() LLGParams {
	return LLGParams{
		Damping:          0.3,
		Dt:               0.05,
		ForceConvergence: 1e-6,
		MaxIterations:    100000,
		Solver:           "heun",
	}
}

func DefaultMMFParams() MMFParams {
	return MMFParams{
		Dt:               0.05,
		ForceConvergence: 1e-6,
		MaxIterations:    100000,
		Solver:           "vp",
		ModeIterations:   10,
	}
}

func DefaultGNEBParams() GNEBParams {
	return GNEBParams{
		SpringConstant:   1.0,
		Dt:               0.05,
		ForceConvergence: 1e-6,
		MaxIterations:    100000,
		Solver:           "vp",
		ClimbingImage:    -1,
	}
}

func DefaultParams() Params {
	return Params{
		LLG: DefaultLLGParams(),
		MMF: DefaultMMFParams(),
	}
}
