// Package flagx helps several independent flag sets share one command line.
// Each consumer filters os.Args down to the flags it owns before parsing, so
// unknown flags belonging to another layer never cause a parse error.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported forms:
//
//	-c conf.json
//	-config=conf.json
//
// A value is consumed only when the next argument does not start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// lookupPath parses a single string option that may be given under a short
// and a long name. The last occurrence wins.
func lookupPath(args []string, short, long, usage string) string {
	var value string

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, "", usage)
	fs.StringVar(&value, short, "", usage+" (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-" + short, "-" + long}))

	return value
}

// ConfigFileFlag extracts the JSON config path given by -c or -config.
// It returns "" when neither is present.
func ConfigFileFlag(args []string) string {
	return lookupPath(args, "c", "config", "path to JSON config file")
}

// EnvFileFlag extracts the dotenv path given by -e or -env-file.
// It returns "" when neither is present.
func EnvFileFlag(args []string) string {
	return lookupPath(args, "e", "env-file", "path to .env file")
}
