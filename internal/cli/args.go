// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits the arguments of one command into flags and positionals.
//
// Supported forms:
//
//	--flag value     string flag
//	--flag=value     string flag
//	-f value         short string flag
//	--flag           boolean flag (when the next argument is another flag or missing)
//	--               everything after is positional
//
// Flags named in boolNames never consume the following argument, so
// "history --json 20" keeps 20 as a positional.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw. boolNames lists flags that never take a value.
//
// Example:
//
//	p := NewArgParser([]string{"set", "--limit", "20", "--json"}, "json")
//	p.Subcommand()          // "set"
//	p.Flag("limit")         // "20"
//	p.BoolFlag("json")      // true
func NewArgParser(raw []string, boolNames ...string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       raw,
	}
	isBool := make(map[string]bool, len(boolNames))
	for _, n := range boolNames {
		isBool[n] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value := name[:eq], name[eq+1:]
			if isBool[name] {
				b, err := ParseBoolString(value)
				p.boolFlags[name] = err == nil && b
			} else {
				p.flags[name] = value
			}
			continue
		}

		if !isBool[name] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.boolFlags[name] = true
	}
	return p
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of the first of names that is set.
func (p *ArgParser) Flag(names ...string) string {
	for _, n := range names {
		if v, ok := p.flags[n]; ok {
			return v
		}
	}
	return ""
}

// FlagInt parses a numeric flag. A missing flag returns def.
func (p *ArgParser) FlagInt(def int, names ...string) (int, error) {
	v := p.Flag(names...)
	if v == "" {
		return def, nil
	}
	return ParseIntWithValidation(v, "--"+names[0])
}

// BoolFlag reports whether any of names was given as a boolean flag.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, n := range names {
		if p.boolFlags[n] {
			return true
		}
	}
	return false
}

// HasFlag reports whether name was given in any form.
func (p *ArgParser) HasFlag(name string) bool {
	_, s := p.flags[name]
	_, b := p.boolFlags[name]
	return s || b
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positionals starting at index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index >= len(p.positional) {
		return nil
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the arguments as given.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// =============================================================================
// VALUE PARSING
// =============================================================================

// ParseIntWithValidation parses a non-negative integer for fieldName.
func ParseIntWithValidation(s string, fieldName string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, NewValidationError(fieldName, s, "must be a number")
	}
	if n < 0 {
		return 0, NewValidationError(fieldName, s, "must not be negative")
	}
	return n, nil
}

// ParseBoolString accepts true/false, yes/no, on/off and 1/0.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
