package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jcorbin/gofourth"
	"github.com/muesli/termenv"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var (
		configFile string
		dump       bool
		exprs      sourceList
		fc         flagConfig
	)
	fs.StringVar(&configFile, "config", "", "read settings from a YAML file")
	fs.BoolVar(&dump, "dump", false, "dump VM memory and words to stderr when done")
	fs.Var(&exprs, "e", "run the given source text; may be repeated")
	fc.bind(fs)
	fs.Parse(os.Args[1:])

	cfg := defaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = readConfigFile(configFile); err != nil {
			log.Fatal("unable to load config", "file", configFile, "err", err)
		}
	}
	fc.override(fs, &cfg)
	if err := cfg.validate(); err != nil {
		log.Fatal("invalid flags", "err", err)
	}

	logger := newLogger(os.Stderr, cfg)

	srcs := exprs
	for _, name := range fs.Args() {
		src, err := readSource(name, os.Stdin)
		if err != nil {
			logger.Error("unable to read source", "file", name, "err", err)
			os.Exit(1)
		}
		srcs = append(srcs, src)
	}

	vm, err := run(cfg, srcs, os.Stdout, logger)
	if dump {
		vm.Dump(os.Stderr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, cfg config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "fourth",
	})
	if cfg.Trace {
		logger.SetLevel(log.DebugLevel)
	}
	logger.SetColorProfile(termenv.ANSI256)
	if cfg.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

func readConfigFile(name string) (config, error) {
	f, err := os.Open(name)
	if err != nil {
		return config{}, err
	}
	defer f.Close()
	return loadConfig(f)
}

// source is a named program text.
type source struct {
	name string
	text string
}

// readSource reads a whole file, with "-" meaning stdin.
func readSource(name string, stdin io.Reader) (source, error) {
	var b []byte
	var err error
	if name == "-" {
		name = "<stdin>"
		b, err = ioutil.ReadAll(stdin)
	} else {
		b, err = ioutil.ReadFile(name)
	}
	return source{name, string(b)}, err
}

// sourceList collects repeated -e flags.
type sourceList []source

func (sl *sourceList) String() string {
	if sl == nil {
		return ""
	}
	parts := make([]string, len(*sl))
	for i, src := range *sl {
		parts[i] = src.text
	}
	return strings.Join(parts, " ")
}

func (sl *sourceList) Set(text string) error {
	*sl = append(*sl, source{fmt.Sprintf("-e#%v", len(*sl)+1), text})
	return nil
}

// run creates a VM from cfg and runs the prelude followed by each source,
// stopping at the first error.
func run(cfg config, srcs []source, out io.Writer, logger *log.Logger) (*fourth.VM, error) {
	opts := []fourth.VMOption{
		fourth.WithOutput(out),
		fourth.WithComments(cfg.Comments),
		fourth.WithCallDepth(cfg.CallDepth),
	}
	if cfg.Trace {
		opts = append(opts, fourth.WithLogger(logger.WithPrefix("vm")))
	}
	vm := fourth.New(cfg.Stack, cfg.Heap, opts...)

	if cfg.Prelude != "" {
		srcs = append([]source{{"<prelude>", cfg.Prelude}}, srcs...)
	}
	for _, src := range srcs {
		logger.Debug("run", "source", src.name)
		if err := vm.RunSource(src.name, src.text); err != nil {
			var fe *fourth.Error
			if errors.As(err, &fe) {
				logger.Error("abort", "kind", fe.Kind, "err", err)
			} else {
				logger.Error("run failed", "source", src.name, "err", err)
			}
			return vm, err
		}
	}
	return vm, nil
}
