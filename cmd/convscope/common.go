package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/convscope/internal/config"
	"github.com/born-ml/convscope/internal/vision"
)

// globalFlags are accepted by every command that reads configuration.
type globalFlags struct {
	configPath string
	logLevel   string
	kernel     string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&g.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&g.kernel, "kernel", "", "preset name or nine numbers, e.g. \"0 -1 0 -1 5 -1 0 -1 0\"")
}

// load reads the configuration, applies flag overrides and builds the
// logger. Logs go to stderr so stdout stays machine-readable.
func (g *globalFlags) load(stderr io.Writer) (config.Config, vision.Kernel, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, vision.Kernel{}, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return config.Config{}, vision.Kernel{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	kernel, err := cfg.KernelValue()
	if err != nil {
		return config.Config{}, vision.Kernel{}, nil, err
	}
	if g.kernel != "" {
		if kernel, err = resolveKernel(g.kernel); err != nil {
			return config.Config{}, vision.Kernel{}, nil, err
		}
	}
	return cfg, kernel, logger, nil
}

// resolveKernel accepts a preset slug or name, or nine literal values.
func resolveKernel(s string) (vision.Kernel, error) {
	if p, err := vision.LookupPreset(s); err == nil {
		return p.Kernel, nil
	}
	k, err := vision.ParseKernel(s)
	if err != nil {
		return vision.Kernel{}, fmt.Errorf("kernel %q is neither a preset nor nine numbers: %w", s, err)
	}
	return k, nil
}

// optionFlags binds the processing options; only flags given on the
// command line override the configuration.
type optionFlags struct {
	grayscale bool
	relu      bool
	normalize bool
}

func (o *optionFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&o.grayscale, "grayscale", false, "collapse output channels to their mean")
	fs.BoolVar(&o.relu, "relu", true, "apply ReLU (false takes the absolute value)")
	fs.BoolVar(&o.normalize, "normalize", false, "stretch output to [0,255] with joint min/max")
}

func (o *optionFlags) apply(fs *flag.FlagSet, opts vision.ProcessingOptions) vision.ProcessingOptions {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "grayscale":
			opts.UseGrayscale = o.grayscale
		case "relu":
			opts.UseReLU = o.relu
		case "normalize":
			opts.Normalize = o.normalize
		}
	})
	return opts
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
