// Package launch turns farmer's command line into launch options.
//
// Two argument forms select the App ID: the positional id=<n> and the flag
// -id=<n>. -auto selects unattended mode, which never prompts and never shows
// dialogs; it is meant for shortcuts, autostart entries and schedulers.
package launch

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/farmer/internal/appid"
)

// Mode is decided once at startup.
type Mode int

const (
	Interactive Mode = iota
	Unattended
)

func (m Mode) String() string {
	if m == Unattended {
		return "unattended"
	}
	return "interactive"
}

// Options is the parsed command line.
type Options struct {
	Mode Mode
	// AppID is the first valid explicit identifier, 0 when none was given.
	AppID appid.ID
	// Ignored lists identifier arguments that did not parse.
	Ignored []string
	// Unknown lists flags farmer does not define. They are skipped so
	// shortcuts carrying extra arguments still start.
	Unknown []string

	AlwaysPrompt bool
	ConfigPath   string
	PollInterval time.Duration
	LogFile      string
	ShowVersion  bool
}

const idPrefix = "id="

// Parse reads args (without the program name). Flags and positional
// arguments may be interleaved; positional arguments other than id=<n> and
// undefined flags are ignored.
func Parse(args []string, usage io.Writer) (Options, error) {
	var opts Options
	var auto bool
	var flagID string

	fs := flag.NewFlagSet("farmer", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.BoolVar(&auto, "auto", false, "unattended mode: no prompt, silent exit on failure")
	fs.StringVar(&flagID, "id", "", "Steam App ID to idle on")
	fs.BoolVar(&opts.AlwaysPrompt, "prompt", false, "always show the App ID prompt, prefilled with the resolved value")
	fs.StringVar(&opts.ConfigPath, "config", "", "override settings file path (optional)")
	fs.DurationVar(&opts.PollInterval, "poll", 0, "event poll interval (optional, defaults to 5s)")
	fs.StringVar(&opts.LogFile, "log-file", "", "override log file path (optional)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "print version and exit")

	var positional []string
	rest, unknown := splitUnknown(fs, args)
	opts.Unknown = unknown
	for {
		if err := fs.Parse(rest); err != nil {
			return Options{}, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if auto {
		opts.Mode = Unattended
	}
	if opts.PollInterval < 0 {
		return Options{}, fmt.Errorf("poll interval must be positive, got %s", opts.PollInterval)
	}

	candidates := make([]string, 0, 1+len(positional))
	if flagID != "" {
		candidates = append(candidates, flagID)
	}
	for _, arg := range positional {
		if value, ok := strings.CutPrefix(arg, idPrefix); ok {
			candidates = append(candidates, value)
		}
	}
	for _, candidate := range candidates {
		id, err := appid.Parse(candidate)
		if err != nil {
			opts.Ignored = append(opts.Ignored, candidate)
			continue
		}
		if !opts.AppID.Valid() {
			opts.AppID = id
		}
	}

	return opts, nil
}

// splitUnknown removes flags fs does not define from args. The value of a
// defined non-boolean flag given as a separate argument is kept with it.
func splitUnknown(fs *flag.FlagSet, args []string) (known, unknown []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			known = append(known, args[i:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			known = append(known, arg)
			continue
		}
		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)
		if f == nil {
			if name == "h" || name == "help" {
				known = append(known, arg)
			} else {
				unknown = append(unknown, arg)
			}
			continue
		}
		known = append(known, arg)
		if !hasValue && !isBoolFlag(f) && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	return known, unknown
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
