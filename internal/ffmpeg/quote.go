package ffmpeg

import "strings"

// QuoteCommand renders binary and args as a POSIX shell command line.
func QuoteCommand(binary string, args []string) string {
	if len(args) == 0 {
		return quoteArg(binary)
	}
	return quoteArg(binary) + " " + QuoteArgs(args)
}

// QuoteArgs renders args as a POSIX shell word list.
func QuoteArgs(args []string) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:+,@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
