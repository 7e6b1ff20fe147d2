// Package flagx lets several independent flag sets share one os.Args slice:
// each consumer filters the arguments down to the flags it owns before
// parsing them.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belong to the given flags,
// preserving order.
//
// Supported formats:
//
//	-d dsn        value flag, value in the next argument
//	-d=dsn        value flag, inline value
//	-k            bool flag, never consumes the next argument
//	-k=false      bool flag, inline value
//
// A value flag followed by another dash-prefixed token is kept without a
// value so that the flag package can report it.
func FilterArgs(args []string, valueFlags []string, boolFlags []string) []string {
	values := toSet(valueFlags)
	bools := toSet(boolFlags)

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, inline := strings.Cut(arg, "="); inline {
			if _, ok := values[name]; ok {
				filtered = append(filtered, arg)
			} else if _, ok := bools[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bools[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := values[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
// Other arguments are ignored. Returns "" when neither is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}, nil))

	return path
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
