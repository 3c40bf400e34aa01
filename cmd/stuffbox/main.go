// stuffbox boxes values with a NaN-boxing strategy and shows the bits.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	"github.com/chazu/stuff/config"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "stuffbox: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		configDir string
		strategy  string
		format    string
	)
	flagSet := pflag.NewFlagSet("stuffbox", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configDir, "config-dir", ".", "directory to search upward from for "+config.FileName)
	flagSet.StringVarP(&strategy, "strategy", "s", "", "boxing strategy: nanbox or immediate (overrides config)")
	flagSet.StringVarP(&format, "format", "f", "", "output format: text or cbor (overrides config)")
	compress := flagSet.BoolP("compress", "z", false, "zstd-compress cbor output")
	decode := flagSet.BoolP("decode", "d", false, "read a cbor dump from stdin and print it as text")
	verbose := flagSet.CountP("verbose", "v", "increase log verbosity")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	cfg, err := config.FindAndLoad(configDir)
	if err != nil {
		return err
	}
	if strategy != "" {
		cfg.Box.Strategy = strategy
	}
	if format != "" {
		cfg.Box.Format = format
	}
	if *compress {
		cfg.Box.Compress = true
	}
	cfg.Log.Verbosity += *verbose
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	log := commonlog.GetLogger("stuffbox")
	if cfg.Path != "" {
		log.Infof("loaded %s", cfg.Path)
	}

	if *decode {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("cannot read dump: %w", err)
		}
		entries, err := readCBOR(data)
		if err != nil {
			return err
		}
		log.Debugf("decoded %d entries", len(entries))
		return writeText(stdout, entries)
	}

	inputs := flagSet.Args()
	if len(inputs) == 0 {
		return errors.New("no values given (see --help)")
	}

	b := newBoxer(cfg.Box.Strategy, log)
	defer b.release()

	entries := make([]entry, 0, len(inputs))
	for _, in := range inputs {
		e, err := b.box(in)
		if err != nil {
			return err
		}
		log.Debugf("%s -> %s %#x", in, e.State, e.Bits)
		entries = append(entries, e)
	}

	if cfg.Box.Format == config.FormatCBOR {
		return writeCBOR(stdout, entries, cfg.Box.Compress)
	}
	return writeText(stdout, entries)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Usage: stuffbox [options] values...

Boxes each value into a 64-bit word and prints its classification and bits.

Values:
  1.5, -2, 1e300     floats (nanbox and immediate)
  42                 SmallInt (immediate only; nanbox boxes it as a float)
  nil, true, false   specials (immediate only)
  #name              interned symbol (immediate only)
  obj:name           pointer to a freshly allocated object

With --decode, no values are given: a cbor dump (optionally zstd-compressed)
is read from stdin and printed as text.

Options:
`)
	flagSet.PrintDefaults()
}
