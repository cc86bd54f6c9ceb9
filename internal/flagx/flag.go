// Package flagx lets several components parse their own subset of os.Args
// with the standard flag package without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Owned lists the flags a component parses. Value flags consume the next
// argument when it does not start with "-"; Bool flags never do.
type Owned struct {
	Value []string
	Bool  []string
}

func (o Owned) kind(name string) (known, takesValue bool) {
	for _, f := range o.Value {
		if f == name {
			return true, true
		}
	}
	for _, f := range o.Bool {
		if f == name {
			return true, false
		}
	}
	return false, false
}

// FilterArgs keeps only the owned flags (and their values) from args,
// preserving order. Both "-f value" and "-f=value" forms are recognised.
// The result is never nil.
func FilterArgs(args []string, owned Owned) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if known, _ := owned.kind(name); known {
				filtered = append(filtered, arg)
			}
			continue
		}

		known, takesValue := owned.kind(arg)
		if !known {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the JSON config path given via -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	var path string

	args := FilterArgs(os.Args[1:], Owned{Value: []string{"-c", "-config"}})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
