package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render saved results to HTML, text, or PDF")
	fmt.Fprintln(w, "  search      Query the article search API and render the result")
	fmt.Fprintln(w, "  login       Sign in and store API tokens")
	fmt.Fprintln(w, "  logout      Remove stored API tokens")
	fmt.Fprintln(w, "  serve       Run the search web front-end")
	fmt.Fprintln(w, "  doctor      Check browser, API, and session readiness")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'resultview help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printStyleUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -m, --mode <s>            Result mode: overview, emails")
	fmt.Fprintln(w, "      --engine <s>          Overview converter: subset, goldmark")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --title <s>           Page title")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative result links")
	fmt.Fprintln(w)
}

func printOutputUsage(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Format: html, fragment, text, pdf")
	fmt.Fprintln(w, "  -p, --page-size <s>       PDF page size: letter, a4, legal")
	fmt.Fprintln(w, "      --landscape           PDF landscape orientation")
	fmt.Fprintln(w, "      --margin <f>          PDF margin in inches (0-3)")
	fmt.Fprintln(w)
}

func printAPIUsage(w io.Writer) {
	fmt.Fprintln(w, "API:")
	fmt.Fprintln(w, "      --api-url <url>       Search API base URL")
	fmt.Fprintln(w, "  -t, --timeout <d>         Request timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render saved search results. Text inputs (.md, .markdown, .txt) are")
	fmt.Fprintln(w, "taken as the result body; .json inputs are saved API responses.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or \"-\" for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         PDF generation timeout")
	fmt.Fprintln(w, "      --watch               Re-render when inputs change")
	fmt.Fprintln(w)
	printStyleUsage(w)
	printOutputUsage(w)
	printCommonUsage(w)
}

// printSearchUsage prints usage for the search command.
func printSearchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview search <term...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Query the article search API and render the result. HTML, fragment,")
	fmt.Fprintln(w, "and text go to stdout unless --output is set; PDF is always written")
	fmt.Fprintln(w, "to a file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Search:")
	fmt.Fprintln(w, "  -n, --count <n>           Number of articles (1-100, default 10)")
	fmt.Fprintln(w, "  -s, --sort <s>            Sort: relevance, pub_date, Author, JournalName")
	fmt.Fprintln(w, "  -e, --email <addr>        Contact email sent with the search")
	fmt.Fprintln(w)
	printAPIUsage(w)
	printStyleUsage(w)
	printOutputUsage(w)
	printCommonUsage(w)
}

// printLoginUsage prints usage for the login command.
func printLoginUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview login [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sign in to the search API and store the token pair.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account:")
	fmt.Fprintln(w, "  -u, --username <s>        Account username (prompted if empty)")
	fmt.Fprintln(w, "      --password-stdin      Read the password from stdin")
	fmt.Fprintln(w)
	printAPIUsage(w)
	printCommonUsage(w)
}

// printLogoutUsage prints usage for the logout command.
func printLogoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview logout [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove the stored token pair.")
	fmt.Fprintln(w)
	printAPIUsage(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the search form and rendered results over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default :8080)")
	fmt.Fprintln(w, "  -e, --email <addr>        Default contact email for searches")
	fmt.Fprintln(w, "      --no-metrics          Disable the /metrics endpoint")
	fmt.Fprintln(w, "      --log-json            Write JSON logs")
	fmt.Fprintln(w)
	printAPIUsage(w)
	printStyleUsage(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "search":
		printSearchUsage(env.Stdout)
	case "login":
		printLoginUsage(env.Stdout)
	case "logout":
		printLogoutUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: resultview doctor [--json] [-c config]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, environment, API reachability, and stored session.")
	case "completion":
		fmt.Fprintln(env.Stdout, "Usage: resultview completion <bash|zsh|fish>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print a shell completion script.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: resultview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: resultview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
