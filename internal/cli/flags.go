package cli

import "github.com/spf13/pflag"

// overrideStr copies a flag value into dst when the flag was set explicitly.
func overrideStr(f *pflag.Flag, dst *string) {
	if f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

func overrideInt(f *pflag.Flag, dst *int, val int) {
	if f != nil && f.Changed {
		*dst = val
	}
}
