package websh

import "strconv"

// Shared argument scanning helpers. Each verb keeps its own semantics, but
// the token-walking is common: flags are matched as whole tokens ("-rf" is
// a distinct flag, never a combination of "-r" and "-f"), and anything
// unrecognized falls through as an operand.

// indexOf returns the position of tok in args, or -1.
func indexOf(args []string, tok string) int {
	for i, a := range args {
		if a == tok {
			return i
		}
	}
	return -1
}

// scanFlags partitions args into recognized flag tokens and the remaining
// operands. Unrecognized tokens, including dash-prefixed ones, are kept as
// operands.
func scanFlags(args []string, known ...string) (map[string]bool, []string) {
	flags := make(map[string]bool, len(known))
	var operands []string
	for _, a := range args {
		matched := false
		for _, k := range known {
			if a == k {
				flags[k] = true
				matched = true
				break
			}
		}
		if !matched {
			operands = append(operands, a)
		}
	}
	return flags, operands
}

// intOption scans args for "name VALUE" pairs, returning the parsed value
// (or def when absent) and the remaining operands. A name token with no
// following value is treated as an operand. ok is false when the value is
// not a valid integer.
func intOption(args []string, name string, def int) (value int, operands []string, ok bool) {
	value = def
	ok = true
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return 0, nil, false
			}
			value = n
			i++
			continue
		}
		operands = append(operands, args[i])
	}
	return value, operands, true
}
