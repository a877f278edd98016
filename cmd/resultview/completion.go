package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/config"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool
	FilePattern string
}

// completionMeta holds completion hints. Flag names, types, and
// descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"mode":      {Values: modeNames()},
	"engine":    {Values: []string{string(resultview.EngineSubset), string(resultview.EngineGoldmark)}},
	"format":    {Values: config.OutputFormats},
	"page-size": {Values: []string{"letter", "a4", "legal"}},
	"sort":      {Values: resultview.SortOptions},

	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

func modeNames() []string {
	names := make([]string, len(resultview.Modes))
	for i, m := range resultview.Modes {
		names[i] = string(m)
	}
	return names
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	discard := func(io.Writer) {}
	render := newRenderFlagSet(&renderFlags{}, discard, io.Discard)
	search := newSearchFlagSet(&searchFlags{}, discard, io.Discard)
	login := newLoginFlagSet("login", &loginFlags{}, discard, io.Discard)
	logout := newLoginFlagSet("logout", &loginFlags{}, discard, io.Discard)
	serve := newServeFlagSet(&serveFlags{}, discard, io.Discard)

	return []commandDef{
		{
			Name:        "render",
			Desc:        "Render saved results to HTML, text, or PDF",
			Flags:       extractFlagsFromFlagSet(render),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown,*.txt,*.json",
		},
		{Name: "search", Desc: "Query the article search API", Flags: extractFlagsFromFlagSet(search)},
		{Name: "login", Desc: "Sign in and store API tokens", Flags: extractFlagsFromFlagSet(login)},
		{Name: "logout", Desc: "Remove stored API tokens", Flags: extractFlagsFromFlagSet(logout)},
		{Name: "serve", Desc: "Run the search web front-end", Flags: extractFlagsFromFlagSet(serve)},
		{
			Name:  "doctor",
			Desc:  "Check browser, API, and session readiness",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "JSON output"}},
		},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resultview completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells: bash, zsh, fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(resultview completion bash)\"")
	fmt.Fprintln(w, "  Zsh:   eval \"$(resultview completion zsh)\"")
	fmt.Fprintln(w, "  Fish:  resultview completion fish > ~/.config/fish/completions/resultview.fish")
}

// flagWords lists --long and -short spellings of flags.
func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// globExts turns "*.md,*.txt" into "md|txt" style alternatives.
func globExts(pattern, sep string) string {
	parts := strings.Split(pattern, ",")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(strings.TrimSpace(p), "*.")
	}
	return strings.Join(parts, sep)
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for resultview\n")
	b.WriteString("_resultview() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	fmt.Fprintf(&b, "  if [[ $COMP_CWORD -eq 1 ]]; then\n    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n    return\n  fi\n\n", commandNames(cmds))

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		switch {
		case c.Name == "help":
			fmt.Fprintf(&b, "    help)\n      COMPREPLY=($(compgen -W %q -- \"$cur\"))\n      ;;\n", commandNames(cmds))
			continue
		case c.Name == "completion":
			b.WriteString("    completion)\n      COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n      ;;\n")
			continue
		case len(c.Flags) == 0:
			continue
		}

		fmt.Fprintf(&b, "    %s)\n      case \"$prev\" in\n", c.Name)
		for _, f := range c.Flags {
			names := "--" + f.Long
			if f.Short != "" {
				names += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\")); return ;;\n", names, globExts(f.FileGlob, "|"))
			case flagDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
			case flagString, flagInt, flagFloat:
				fmt.Fprintf(&b, "        %s) return ;;\n", names)
			}
		}
		b.WriteString("      esac\n")
		fmt.Fprintf(&b, "      if [[ \"$cur\" == -* ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		if c.TakesFiles {
			fmt.Fprintf(&b, "      else\n        COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", globExts(c.FilePattern, "|"))
		}
		b.WriteString("      fi\n      ;;\n")
	}
	b.WriteString("  esac\n}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -o filenames -o bashdefault -F _resultview resultview\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape quotes text for a zsh _arguments entry.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef resultview\n\n")
	b.WriteString("_resultview() {\n")
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n    _describe 'command' commands\n    return\n  fi\n\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments -s \\\n", c.Name)
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
			case flagFile:
				action = fmt.Sprintf(":file:_files -g '*.(%s)'", globExts(f.FileGlob, "|"))
			case flagDir:
				action = ":directory:_files -/"
			case flagString, flagInt, flagFloat:
				action = ":" + f.Long + ":"
			}
			desc := zshEscape(f.Desc)
			if f.Short != "" {
				fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
			}
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "        '*:input:_files -g \"*.(%s)\"'\n", globExts(c.FilePattern, "|"))
		} else {
			b.WriteString("        '*::'\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("    completion)\n      _values 'shell' bash zsh fish\n      ;;\n")
	b.WriteString("    help)\n      _describe 'command' commands\n      ;;\n")
	b.WriteString("  esac\n}\n\n")
	b.WriteString("compdef _resultview resultview\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for resultview\n")
	b.WriteString("complete -c resultview -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c resultview -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c resultview -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt, flagFloat:
				line += " -x"
			}
			b.WriteString(line + fmt.Sprintf(" -d %q\n", f.Desc))
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c resultview -n '%s' -F\n", cond)
		}
	}
	b.WriteString("complete -c resultview -n '__fish_seen_subcommand_from completion' -x -a 'bash zsh fish'\n")
	fmt.Fprintf(&b, "complete -c resultview -n '__fish_seen_subcommand_from help' -x -a %q\n", commandNames(cmds))

	_, err := io.WriteString(w, b.String())
	return err
}
