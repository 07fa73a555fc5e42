package config

import "flag"

// Flags holds the command-line overrides shared by meshtool subcommands.
type Flags struct {
	Config    string
	Debug     bool
	Out       string
	Format    string
	Tolerance float64
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Out, "out", "", "Output file (default stdout)")
	fs.StringVar(&f.Format, "format", "", "Output format: raw, msh or stl")
	fs.Float64Var(&f.Tolerance, "tolerance", 0, "Curve linearization tolerance")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Out != "" {
		cfg.Output.Path = f.Out
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Tolerance > 0 {
		cfg.Generation.Tolerance = float32(f.Tolerance)
	}
}
