// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdHistory
	CmdDelete
	CmdSession
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:     "tui",
	CmdChat:    "chat",
	CmdAsk:     "ask",
	CmdHistory: "history",
	CmdDelete:  "delete",
	CmdSession: "session",
	CmdConfig:  "config",
	CmdVersion: "version",
	CmdHelp:    "help",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Quiet      bool
	Verbose    bool
	ConfigPath string // --config FILE
	BaseURL    string // --url URL overrides api.base_url
	Ephemeral  bool   // --ephemeral keeps identity in memory

	// Query is the question of "ask"
	Query string

	// Unknown is set when the command word was not recognized.
	Unknown string

	// Raw holds the arguments after the command word, global flags removed.
	Raw []string
}

// Parser returns an ArgParser over the command arguments.
func (a Args) Parser(boolNames ...string) *ArgParser {
	return NewArgParser(a.Raw, boolNames...)
}

const usageText = `suaibot - terminal client for the Suai Rag Bot university assistant

Usage:
  suaibot                        Start the full-screen chat (default)
  suaibot tui                    Same as above
  suaibot chat                   Line-mode chat with history and slash commands
  suaibot ask "question"         Ask one question and print the answer
    --new                        Start a new session first
  suaibot history                Show the current session's history
    --session ID                 Show another session
    --all                        Show all of your history
    --limit N                    Maximum number of messages
  suaibot delete --confirm       Delete the current session's history
    --all                        Delete all of your history
  suaibot session [show]         Show user and session ids
  suaibot session new            Forget the current session
  suaibot session set ID         Switch to session ID
  suaibot session reset-user     Generate a new user id
  suaibot config [show]          Show configuration
  suaibot config get KEY         Show one value
  suaibot config set KEY VALUE   Change one value and save
  suaibot config keys            List configuration keys
  suaibot config path            Print the config file path
  suaibot version                Show version
  suaibot help                   Show this help

Global flags:
  --json                         Machine-readable output
  -q, --quiet                    Less output
  -v, --verbose                  Debug logging of API calls
  --config FILE                  Use another config file
  --url URL                      Use another answer service
  --ephemeral                    Do not persist user or session ids

Chat commands:
  /new /delete /history /stats /theme /quick N /session /help /quit

Configuration is read from ~/.suaibot/config.toml, a .env file in the current
directory and SUAIBOT_* environment variables (for example
SUAIBOT_API_BASE_URL or VITE_API_BASE_URL).

Version: %s
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "suaibot version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s\n", goVersion())
}

// Parse parses the arguments after the program name.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	word := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	switch word {
	case "tui", "ui":
		return CmdTUI, args
	case "chat", "repl":
		return CmdChat, args
	case "ask", "a":
		parseAskArgs(&args)
		return CmdAsk, args
	case "history", "h":
		return CmdHistory, args
	case "delete", "clear":
		return CmdDelete, args
	case "session", "sessions", "s":
		return CmdSession, args
	case "config", "cfg":
		return CmdConfig, args
	case "version", "--version", "-V":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	}

	args.Unknown = remaining[0]
	return CmdHelp, args
}

// parseGlobalFlags pulls the global flags out of argv, wherever they are.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			remaining = append(remaining, argv[i:]...)
			return remaining, args
		case arg == "--json":
			args.JSON = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--ephemeral":
			args.Ephemeral = true
		case arg == "--config" || arg == "--url":
			if i+1 < len(argv) {
				i++
				if arg == "--config" {
					args.ConfigPath = argv[i]
				} else {
					args.BaseURL = argv[i]
				}
			}
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--url="):
			args.BaseURL = strings.TrimPrefix(arg, "--url=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// parseAskArgs joins the positional words of "ask" into the query.
func parseAskArgs(args *Args) {
	p := args.Parser("new")
	args.Query = strings.TrimSpace(strings.Join(p.PositionalFrom(0), " "))
}

func goVersion() string {
	return runtime.Version()
}
