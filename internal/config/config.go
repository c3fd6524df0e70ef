package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SPINSIM_LLG_DAMPING for llg.damping.
const EnvPrefix = "SPINSIM"

const (
	DefaultNx           = 8
	DefaultNy           = 8
	DefaultNz           = 1
	DefaultImages       = 1
	DefaultExchange     = 1.0
	DefaultRadius       = 3.0
	DefaultSeed         = 42
	DefaultLogLevel     = "info"
	DefaultInitialState = "random"
)

type Config struct {
	Lattice     LatticeConfig     `yaml:"lattice" mapstructure:"lattice"`
	Hamiltonian HamiltonianConfig `yaml:"hamiltonian" mapstructure:"hamiltonian"`
	Chain       ChainConfig       `yaml:"chain" mapstructure:"chain"`
	LLG         data.LLGParams    `yaml:"llg" mapstructure:"llg"`
	MMF         data.MMFParams    `yaml:"mmf" mapstructure:"mmf"`
	GNEB        data.GNEBParams   `yaml:"gneb" mapstructure:"gneb"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

type LatticeConfig struct {
	Nx int `yaml:"nx" mapstructure:"nx"`
	Ny int `yaml:"ny" mapstructure:"ny"`
	Nz int `yaml:"nz" mapstructure:"nz"`
}

type HamiltonianConfig struct {
	Exchange   float64   `yaml:"exchange" mapstructure:"exchange"`
	Field      []float64 `yaml:"field" mapstructure:"field"`
	Anisotropy float64   `yaml:"anisotropy" mapstructure:"anisotropy"`
	Axis       []float64 `yaml:"axis" mapstructure:"axis"`
}

type ChainConfig struct {
	Images int `yaml:"images" mapstructure:"images"`
	// Initial is one of InitialStates.
	Initial string  `yaml:"initial" mapstructure:"initial"`
	Radius  float64 `yaml:"radius" mapstructure:"radius"`
	Seed    int64   `yaml:"seed" mapstructure:"seed"`
}

type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	Dir   string `yaml:"dir" mapstructure:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Lattice: LatticeConfig{Nx: DefaultNx, Ny: DefaultNy, Nz: DefaultNz},
		Hamiltonian: HamiltonianConfig{
			Exchange: DefaultExchange,
			Field:    []float64{0, 0, 0},
			Axis:     []float64{0, 0, 1},
		},
		Chain: ChainConfig{
			Images:  DefaultImages,
			Initial: DefaultInitialState,
			Radius:  DefaultRadius,
			Seed:    DefaultSeed,
		},
		LLG:     data.DefaultLLGParams(),
		MMF:     data.DefaultMMFParams(),
		GNEB:    data.DefaultGNEBParams(),
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// SetDefaults registers every key of DefaultConfig with v so that environment
// overrides apply even without a config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("lattice.nx", d.Lattice.Nx)
	v.SetDefault("lattice.ny", d.Lattice.Ny)
	v.SetDefault("lattice.nz", d.Lattice.Nz)

	v.SetDefault("hamiltonian.exchange", d.Hamiltonian.Exchange)
	v.SetDefault("hamiltonian.field", d.Hamiltonian.Field)
	v.SetDefault("hamiltonian.anisotropy", d.Hamiltonian.Anisotropy)
	v.SetDefault("hamiltonian.axis", d.Hamiltonian.Axis)

	v.SetDefault("chain.images", d.Chain.Images)
	v.SetDefault("chain.initial", d.Chain.Initial)
	v.SetDefault("chain.radius", d.Chain.Radius)
	v.SetDefault("chain.seed", d.Chain.Seed)

	v.SetDefault("llg.damping", d.LLG.Damping)
	v.SetDefault("llg.dt", d.LLG.Dt)
	v.SetDefault("llg.force_convergence", d.LLG.ForceConvergence)
	v.SetDefault("llg.max_iterations", d.LLG.MaxIterations)
	v.SetDefault("llg.solver", d.LLG.Solver)

	v.SetDefault("mmf.dt", d.MMF.Dt)
	v.SetDefault("mmf.force_convergence", d.MMF.ForceConvergence)
	v.SetDefault("mmf.max_iterations", d.MMF.MaxIterations)
	v.SetDefault("mmf.solver", d.MMF.Solver)
	v.SetDefault("mmf.mode_iterations", d.MMF.ModeIterations)

	v.SetDefault("gneb.spring_constant", d.GNEB.SpringConstant)
	v.SetDefault("gneb.dt", d.GNEB.Dt)
	v.SetDefault("gneb.force_convergence", d.GNEB.ForceConvergence)
	v.SetDefault("gneb.max_iterations", d.GNEB.MaxIterations)
	v.SetDefault("gneb.solver", d.GNEB.Solver)
	v.SetDefault("gneb.climbing_image", d.GNEB.ClimbingImage)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
}

// Load reads the config file at path on top of the defaults and applies
// SPINSIM_ environment overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Hamiltonian.Field = append([]float64(nil), c.Hamiltonian.Field...)
	out.Hamiltonian.Axis = append([]float64(nil), c.Hamiltonian.Axis...)
	return &out
}

// Params returns the per-image method parameters.
func (c *Config) Params() data.Params {
	return data.Params{LLG: c.LLG, MMF: c.MMF}
}
