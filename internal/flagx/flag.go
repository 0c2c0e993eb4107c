// Package flagx helps several independent flag sets share one command line.
//
// Each config layer parses only the flags it owns: FilterArgs picks those
// flags (and their values) out of os.Args so that a FlagSet never sees, and
// never rejects, flags that belong to someone else.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName returns the bare name of a flag argument: "-c", "--c" and
// "--c=x" all yield "c". ok is false for positional arguments.
func flagName(arg string) (name string, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name = strings.TrimLeft(arg, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name, name != ""
}

// FilterArgs returns the subset of args that belongs to the allowed flags.
//
// Flags match regardless of the number of leading dashes, so allowing "-c"
// also keeps "--c". Both "-c value" and "-c=value" are recognised; a value
// is only consumed when the next argument does not itself look like a flag.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		if name, ok := flagName(f); ok {
			allowed[name] = struct{}{}
		}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, ok := flagName(arg)
		if !ok {
			continue
		}
		if _, keep := allowed[name]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string
	fs := flag.NewFlagSet("config-path", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))
	return path
}
