// Program jedit reads, edits, and formats JSON documents by path.
//
// Usage:
//
//	jedit [flags] get PATH
//	jedit [flags] set PATH VALUE
//	jedit [flags] rm PATH
//	jedit [flags] fmt
//	jedit [flags] iter
//	jedit [flags] apply SCRIPT
//
// A PATH has the form /key/[index]/key, or is a JSONPath query beginning
// with "$" that uses only member and index selectors. A VALUE is the text
// of a JSON value; a VALUE that is not valid JSON is treated as a string.
//
// Settings are read from the file named by -config, or else from the first
// .jedit.toml file found in the current directory or its parents. Flags
// override settings from the file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jedit/internal/config"
	"github.com/creachadair/jedit/walk"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	inFile     = flag.String("in", "", "Read input from this file (default stdin)")
	outFile    = flag.String("out", "", "Write output to this file (default stdout)")
	configFile = flag.String("config", "", "Read settings from this TOML file")
	doPretty   = flag.Bool("pretty", false, "Write output in pretty form")
	doJWCC     = flag.Bool("jwcc", false, "Accept comments and trailing commas in input")
	doBounded  = flag.Bool("bounded", false, "Use the fixed-capacity tokenizer")
	verbosity  = flag.Int("v", 0, "Logging verbosity (0, 1, 2)")
)

var log = commonlog.GetLogger("jedit")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: %[1]s [flags] get PATH
       %[1]s [flags] set PATH VALUE
       %[1]s [flags] rm PATH
       %[1]s [flags] fmt
       %[1]s [flags] iter
       %[1]s [flags] apply SCRIPT

Read, edit, and format a JSON document by path.

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jedit: %v\n", err)
		os.Exit(1)
	}
	commonlog.Configure(cfg.Verbosity, nil)
	if cfg.Path != "" {
		log.Infof("loaded settings from %s", cfg.Path)
	}

	if err := run(cfg); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads the settings file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
	} else {
		cfg, err = config.Find(".")
	}
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pretty":
			cfg.Pretty = *doPretty
		case "jwcc":
			cfg.JWCC = *doJWCC
		case "bounded":
			cfg.Bounded = *doBounded
		case "v":
			cfg.Verbosity = *verbosity
		}
	})
	return cfg, nil
}

func run(cfg *config.Config) error {
	in := io.Reader(os.Stdin)
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	var outf *os.File
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			return err
		}
		outf, out = f, f
	}

	e := &env{
		ed:     walk.Editor{Bounded: cfg.Bounded},
		jwcc:   cfg.JWCC,
		in:     in,
		out:    out,
		errOut: os.Stderr,
	}
	if cfg.Pretty {
		e.mode = walk.Pretty
	}
	err := e.runCommand(flag.Args())
	if outf != nil {
		if cerr := outf.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
