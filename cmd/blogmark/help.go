package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Compile entries to HTML")
	fmt.Fprintln(w, "  lint       Check entries against the style rules")
	fmt.Fprintln(w, "  title      Compile a title string")
	fmt.Fprintln(w, "  ast        Print the syntax tree of an entry")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'blogmark help <command>' for details on a specific command.")
}

func printConfigFlags(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --preset <name>       Preset name (default, relaxed, or custom)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory holding custom presets/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

func printEnvVars(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BLOGMARK_CONFIG, BLOGMARK_PRESET, BLOGMARK_ASSET_PATH,")
	fmt.Fprintln(w, "  BLOGMARK_INPUT_DIR, BLOGMARK_WORKERS (flags take precedence)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark render [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile an entry, or every entry of a directory, to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: stdout, or next to input)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --lint                Print lint diagnostics to stderr")
	fmt.Fprintln(w)
	printConfigFlags(w)
	printEnvVars(w)
}

// printLintUsage prints usage for the lint command.
func printLintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark lint [input...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check entries against the style rules.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files, directories, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lint:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --json                Print diagnostics as JSON")
	fmt.Fprintln(w, "      --strict              Exit with code 4 on any finding")
	fmt.Fprintln(w, "      --rules               List lint rules and exit")
	fmt.Fprintln(w)
	printConfigFlags(w)
	printEnvVars(w)
}

// printASTUsage prints usage for the ast command.
func printASTUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark ast <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the syntax tree of an entry after dialect recognition.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --baseline            Show the tree before dialect recognition")
	fmt.Fprintln(w)
	printConfigFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --presets             List built-in presets and exit")
	fmt.Fprintln(w)
	printConfigFlags(w)
	printEnvVars(w)
}

// printTitleUsage prints usage for the title command.
func printTitleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blogmark title [text...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile a title: escape HTML and mark `code` spans.")
	fmt.Fprintln(w, "Without arguments, every line of stdin is compiled.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "lint":
		printLintUsage(env.Stdout)
	case "title":
		printTitleUsage(env.Stdout)
	case "ast":
		printASTUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: blogmark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: blogmark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
