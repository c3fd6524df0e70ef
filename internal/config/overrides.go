package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/hamiltonian"
	"github.com/san-kum/spinsim/internal/spin"
)

// ParseOverrides parses name=value pairs such as "exchange=1.2".
func ParseOverrides(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q: expected name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", p, err)
		}
		out[name] = v
	}
	return out, nil
}

// ApplyOverrides sets the named parameters on every Hamiltonian of chain.
// It must be called before any method runs on the chain. Nothing is changed
// when a name is unknown.
func ApplyOverrides(chain *data.Chain, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	targets, err := tunables(chain)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, t := range targets {
		known := t.GetParams()
		for _, name := range names {
			if _, ok := known[name]; !ok {
				return fmt.Errorf("unknown hamiltonian param: %s", name)
			}
		}
	}
	for _, t := range targets {
		for _, name := range names {
			if err := t.SetParam(name, params[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// HamiltonianParams returns the parameters of the chain's Hamiltonian, or nil
// when it cannot be tuned.
func HamiltonianParams(chain *data.Chain) map[string]float64 {
	targets, err := tunables(chain)
	if err != nil || len(targets) == 0 {
		return nil
	}
	return targets[0].GetParams()
}

// tunables collects the distinct Hamiltonians of chain.
func tunables(chain *data.Chain) ([]hamiltonian.Tunable, error) {
	if chain == nil {
		return nil, data.Errorf("apply overrides", data.ErrNotInitialized, "no chain")
	}

	var out []hamiltonian.Tunable
	seen := make(map[hamiltonian.Tunable]bool)
	for i, im := range chain.Images() {
		var h spin.Hamiltonian
		im.View(func(cfg *spin.Configuration) { h = cfg.Hamiltonian })
		t, ok := h.(hamiltonian.Tunable)
		if !ok {
			return nil, fmt.Errorf("image %d: hamiltonian has no tunable params", i)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}
