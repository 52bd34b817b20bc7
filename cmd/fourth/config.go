package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// config holds every setting that may come from a config file; flags that
// are explicitly set on the command line take precedence.
type config struct {
	Stack     int    `yaml:"stack"`
	Heap      int    `yaml:"heap"`
	Comments  bool   `yaml:"comments"`
	CallDepth int    `yaml:"call_depth"`
	Trace     bool   `yaml:"trace"`
	NoColor   bool   `yaml:"no_color"`
	Prelude   string `yaml:"prelude"`
}

func defaultConfig() config {
	return config{
		Stack:     1024,
		Heap:      4096,
		Comments:  true,
		CallDepth: 1024,
	}
}

// loadConfig reads YAML settings over the defaults; keys missing from r keep
// their default value.
func loadConfig(r io.Reader) (config, error) {
	cfg := defaultConfig()
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.validate()
}

func (cfg config) validate() error {
	switch {
	case cfg.Stack < 0:
		return fmt.Errorf("invalid stack size %v", cfg.Stack)
	case cfg.Heap < 0:
		return fmt.Errorf("invalid heap size %v", cfg.Heap)
	case cfg.CallDepth < 0:
		return fmt.Errorf("invalid call depth %v", cfg.CallDepth)
	}
	return nil
}

// flagConfig collects command line values, to be applied over a loaded
// config only for those flags actually given.
type flagConfig struct {
	config
	noComments bool
}

func (fc *flagConfig) bind(fs *flag.FlagSet) {
	def := defaultConfig()
	fs.IntVar(&fc.Stack, "stack", def.Stack, "size of the stack region in cells")
	fs.IntVar(&fc.Heap, "heap", def.Heap, "size of the heap in cells")
	fs.IntVar(&fc.CallDepth, "call-depth", def.CallDepth, "limit on nested word calls; 0 for none")
	fs.BoolVar(&fc.Trace, "trace", false, "log every interpreted token")
	fs.BoolVar(&fc.NoColor, "no-color", false, "disable colored log output")
	fs.BoolVar(&fc.noComments, "no-comments", false, "disable ( ... ) and \\ comments")
	fs.StringVar(&fc.Prelude, "prelude", "", "source text to run before anything else")
}

// override copies the value of each flag set in fs into cfg.
func (fc *flagConfig) override(fs *flag.FlagSet, cfg *config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stack":
			cfg.Stack = fc.Stack
		case "heap":
			cfg.Heap = fc.Heap
		case "call-depth":
			cfg.CallDepth = fc.CallDepth
		case "trace":
			cfg.Trace = fc.Trace
		case "no-color":
			cfg.NoColor = fc.NoColor
		case "no-comments":
			cfg.Comments = !fc.noComments
		case "prelude":
			cfg.Prelude = fc.Prelude
		}
	})
}
