package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/san-kum/spinsim/internal/logging"
	"github.com/san-kum/spinsim/internal/solver"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// InitialStates lists the supported initial chain configurations.
func InitialStates() []string {
	return []string{"random", "plus_z", "minus_z", "skyrmion", "transition"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateLattice()...)
	errs = append(errs, c.validateHamiltonian()...)
	errs = append(errs, c.validateChain()...)
	errs = append(errs, c.validateMethods()...)

	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}
	return errs
}

func (c *Config) validateLattice() []ValidationError {
	var errs []ValidationError
	for _, d := range []struct {
		field string
		value int
	}{
		{"lattice.nx", c.Lattice.Nx},
		{"lattice.ny", c.Lattice.Ny},
		{"lattice.nz", c.Lattice.Nz},
	} {
		if d.value < 1 {
			errs = append(errs, ValidationError{Field: d.field, Value: d.value, Message: "must be at least 1"})
		}
	}
	return errs
}

func (c *Config) validateHamiltonian() []ValidationError {
	var errs []ValidationError
	if len(c.Hamiltonian.Field) != 3 {
		errs = append(errs, ValidationError{Field: "hamiltonian.field", Value: c.Hamiltonian.Field, Message: "must have 3 components"})
	}
	if len(c.Hamiltonian.Axis) != 3 {
		errs = append(errs, ValidationError{Field: "hamiltonian.axis", Value: c.Hamiltonian.Axis, Message: "must have 3 components"})
	} else if c.Hamiltonian.Axis[0] == 0 && c.Hamiltonian.Axis[1] == 0 && c.Hamiltonian.Axis[2] == 0 {
		errs = append(errs, ValidationError{Field: "hamiltonian.axis", Value: c.Hamiltonian.Axis, Message: "must not be zero"})
	}
	return errs
}

func (c *Config) validateChain() []ValidationError {
	var errs []ValidationError
	if c.Chain.Images < 1 {
		errs = append(errs, ValidationError{Field: "chain.images", Value: c.Chain.Images, Message: "must be at least 1"})
	}
	if !slices.Contains(InitialStates(), c.Chain.Initial) {
		errs = append(errs, ValidationError{
			Field:   "chain.initial",
			Value:   c.Chain.Initial,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(InitialStates(), ", ")),
		})
	}
	if c.Chain.Initial == "transition" && c.Chain.Images < 2 {
		errs = append(errs, ValidationError{Field: "chain.images", Value: c.Chain.Images, Message: "a transition needs at least 2 images"})
	}
	if c.Chain.Initial == "skyrmion" && c.Chain.Radius <= 0 {
		errs = append(errs, ValidationError{Field: "chain.radius", Value: c.Chain.Radius, Message: "must be positive"})
	}
	return errs
}

func (c *Config) validateMethods() []ValidationError {
	var errs []ValidationError
	for _, m := range []struct {
		prefix  string
		dt      float64
		force   float64
		maxIter int
		solver  string
	}{
		{"llg", c.LLG.Dt, c.LLG.ForceConvergence, c.LLG.MaxIterations, c.LLG.Solver},
		{"mmf", c.MMF.Dt, c.MMF.ForceConvergence, c.MMF.MaxIterations, c.MMF.Solver},
		{"gneb", c.GNEB.Dt, c.GNEB.ForceConvergence, c.GNEB.MaxIterations, c.GNEB.Solver},
	} {
		if m.dt <= 0 {
			errs = append(errs, ValidationError{Field: m.prefix + ".dt", Value: m.dt, Message: "must be positive"})
		}
		if m.force < 0 {
			errs = append(errs, ValidationError{Field: m.prefix + ".force_convergence", Value: m.force, Message: "must not be negative"})
		}
		if m.maxIter < 0 {
			errs = append(errs, ValidationError{Field: m.prefix + ".max_iterations", Value: m.maxIter, Message: "must not be negative (0 means unbounded)"})
		}
		// unknown solvers are reported by the engine as not implemented
		if m.solver == "" {
			errs = append(errs, ValidationError{
				Field:   m.prefix + ".solver",
				Value:   m.solver,
				Message: fmt.Sprintf("must name a solver, available: %s", strings.Join(solver.List(), ", ")),
			})
		}
	}

	if c.LLG.Damping < 0 {
		errs = append(errs, ValidationError{Field: "llg.damping", Value: c.LLG.Damping, Message: "must not be negative"})
	}
	if c.GNEB.SpringConstant < 0 {
		errs = append(errs, ValidationError{Field: "gneb.spring_constant", Value: c.GNEB.SpringConstant, Message: "must not be negative"})
	}
	if c.GNEB.ClimbingImage >= c.Chain.Images {
		errs = append(errs, ValidationError{Field: "gneb.climbing_image", Value: c.GNEB.ClimbingImage, Message: "must be -1 or an image index"})
	}
	return errs
}
