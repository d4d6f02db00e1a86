package application

import (
	"strings"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

// Interpret maps free command text to a command and its whitespace-split
// arguments. The trimmed, lower-cased input matches a command when it starts
// with any of the command's phrase variants; table order breaks ties between
// overlapping phrases. Arguments are whatever follows the longest matching
// variant of the chosen command, so "set summary time to 8am" yields ["8am"]
// even though the shorter "set summary time" variant also matches.
func Interpret(input string) (model.Command, []string) {
	text := strings.ToLower(strings.TrimSpace(input))

	for _, entry := range model.CommandTable {
		if !matchesAny(text, entry.Variants) {
			continue
		}

		longest := 0
		for _, v := range entry.Variants {
			if strings.HasPrefix(text, v) && len(v) > longest {
				longest = len(v)
			}
		}

		args := strings.Fields(text[longest:])
		if len(args) == 0 {
			args = nil
		}
		return entry.Cmd, args
	}

	return model.CmdUnknown, nil
}

func matchesAny(text string, variants []string) bool {
	for _, v := range variants {
		if strings.HasPrefix(text, v) {
			return true
		}
	}
	return false
}
