package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// apiFlags holds search API connection flags.
type apiFlags struct {
	url     string
	timeout string
}

// styleFlags holds how results are turned into pages.
type styleFlags struct {
	mode      string
	engine    string
	style     string // Name or path for CSS
	assetPath string
	title     string
	date      string
	baseURL   string
}

// outputFlags holds output destination and format flags.
type outputFlags struct {
	output    string
	format    string
	pageSize  string
	landscape bool
	margin    float64
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	style   styleFlags
	out     outputFlags
	timeout string
	workers int
	watch   bool
}

// searchFlags holds all flags for the search command.
type searchFlags struct {
	common commonFlags
	api    apiFlags
	style  styleFlags
	out    outputFlags
	count  int
	sortBy string
	email  string
}

// loginFlags holds flags for the login and logout commands.
type loginFlags struct {
	common        commonFlags
	api           apiFlags
	username      string
	passwordStdin bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	api       apiFlags
	style     styleFlags
	addr      string
	email     string
	noMetrics bool
	logJSON   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addAPIFlags adds search API flags to a FlagSet.
func addAPIFlags(fs *flag.FlagSet, f *apiFlags) {
	fs.StringVar(&f.url, "api-url", "", "search API base URL")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "request and PDF timeout (e.g., 30s, 2m)")
}

// addStyleFlags adds rendering flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.mode, "mode", "m", "", "result mode: overview, emails")
	fs.StringVar(&f.engine, "engine", "", "overview converter: subset, goldmark")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.title, "title", "", "page title")
	fs.StringVar(&f.date, "date", "", "page date: \"auto\", \"auto:FORMAT\", or literal")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative result links against this URL")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, fragment, text, pdf")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "PDF page size: letter, a4, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "PDF landscape orientation")
	fs.Float64Var(&f.margin, "margin", 0, "PDF margin in inches (0-3)")
}

// newRenderFlagSet registers render command flags.
func newRenderFlagSet(f *renderFlags, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVar(&f.timeout, "timeout", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "re-render when inputs change")
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addOutputFlags(fs, &f.out)
	setUsage(fs, usage, stderr)
	return fs
}

// newSearchFlagSet registers search command flags.
func newSearchFlagSet(f *searchFlags, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.IntVarP(&f.count, "count", "n", 0, "number of articles (1-100, default 10)")
	fs.StringVarP(&f.sortBy, "sort", "s", "", "sort: relevance, pub_date, Author, JournalName")
	fs.StringVarP(&f.email, "email", "e", "", "contact email sent with the search")
	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	addStyleFlags(fs, &f.style)
	addOutputFlags(fs, &f.out)
	setUsage(fs, usage, stderr)
	return fs
}

// newLoginFlagSet registers login and logout flags.
func newLoginFlagSet(name string, f *loginFlags, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if name == "login" {
		fs.StringVarP(&f.username, "username", "u", "", "account username")
		fs.BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
	}
	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	setUsage(fs, usage, stderr)
	return fs
}

// newServeFlagSet registers serve command flags.
func newServeFlagSet(f *serveFlags, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.StringVarP(&f.email, "email", "e", "", "default contact email for searches")
	fs.BoolVar(&f.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	fs.BoolVar(&f.logJSON, "log-json", false, "write JSON logs")
	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	addStyleFlags(fs, &f.style)
	setUsage(fs, usage, stderr)
	return fs
}

func setUsage(fs *flag.FlagSet, usage func(io.Writer), w io.Writer) {
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
}
