// Package topics serves long-form help pages through `dfm help <topic>`.
//
// Topics are markdown or text files in an fs.FS, normally the embedded
// Content. A file named option-<flag>.md documents --<flag> and can be
// looked up by either spelling.
package topics

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Content holds dfm's own help topics.
//
//go:embed content/*.md
var Content embed.FS

// ContentDir is the directory of Content holding the topics.
const ContentDir = "content"

const optionPrefix = "option-"

// listArg is the help argument that prints the topic index.
const listArg = "topics"

// Kind separates flag documentation from general topics.
type Kind int

const (
	KindGeneral Kind = iota
	KindOption
)

// Topic is one help page.
type Topic struct {
	Name     string
	FilePath string
	Content  string
	// Title is the first markdown heading, or "".
	Title string
}

// Kind reports whether t documents a flag.
func (t *Topic) Kind() Kind {
	if strings.HasPrefix(t.Name, optionPrefix) {
		return KindOption
	}
	return KindGeneral
}

// Label is how the topic is shown in the index: the flag spelling for
// option topics, the name otherwise.
func (t *Topic) Label() string {
	if t.Kind() == KindOption {
		return "--" + strings.TrimPrefix(t.Name, optionPrefix)
	}
	return t.Name
}

// Options configures a Library.
type Options struct {
	// Extensions accepted as topics. Defaults to .md and .txt.
	Extensions []string
	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

// Library is a scanned set of topics.
type Library struct {
	topics   map[string]*Topic
	renderer Renderer
}

// Load scans dir in fsys for topic files. A missing dir yields an empty
// library.
func Load(fsys fs.FS, dir string, opts Options) (*Library, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".md", ".txt"}
	}
	lib := &Library{topics: map[string]*Topic{}, renderer: opts.Renderer}
	if lib.renderer == nil {
		lib.renderer = &PlainRenderer{}
	}

	if _, err := fs.Stat(fsys, dir); err != nil {
		return lib, nil
	}

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !hasExt(p, exts) {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		lib.topics[name] = &Topic{
			Name:     name,
			FilePath: p,
			Content:  string(data),
			Title:    firstHeading(string(data)),
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to scan help topics in %s", dir)
	}
	return lib, nil
}

func hasExt(p string, exts []string) bool {
	ext := path.Ext(p)
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

func firstHeading(content string) string {
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

// Lookup finds a topic by name. "--dry-run", "-dry-run", "dry-run" and
// "option-dry-run" all find option-dry-run.
func (l *Library) Lookup(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := l.topics[name]; ok {
		return t, true
	}
	t, ok := l.topics[optionPrefix+name]
	return t, ok
}

// Names returns every topic name in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.topics))
	for name := range l.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render formats t with the library's renderer.
func (l *Library) Render(t *Topic) string {
	return l.renderer.Render(t.Content, path.Ext(t.FilePath))
}

// WriteIndex lists the topics grouped by kind.
func (l *Library) WriteIndex(w io.Writer, appName string) {
	if len(l.topics) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	groups := map[Kind][]*Topic{}
	for _, name := range l.Names() {
		t := l.topics[name]
		groups[t.Kind()] = append(groups[t.Kind()], t)
	}

	fmt.Fprintln(w, "Available help topics:")
	for _, g := range []struct {
		kind    Kind
		heading string
	}{{KindGeneral, "General topics:"}, {KindOption, "Option topics:"}} {
		if len(groups[g.kind]) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", g.heading)
		for _, t := range groups[g.kind] {
			if t.Title == "" {
				fmt.Fprintf(w, "  %s\n", t.Label())
			} else {
				fmt.Fprintf(w, "  %-16s %s\n", t.Label(), t.Title)
			}
		}
	}
	fmt.Fprintf(w, "\nRun '%s help <topic>' to read a topic.\n", appName)
}

// Install loads the topics and makes them reachable through root's help
// command. Command help keeps working for anything that is not a topic.
func Install(root *cobra.Command, fsys fs.FS, dir string, opts Options) (*Library, error) {
	lib, err := Load(fsys, dir, opts)
	if err != nil {
		return nil, err
	}

	commandHelp := root.HelpFunc()
	name := root.Name()

	help := &cobra.Command{
		Use:   "help [command | topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf("Show help for a command or read a help topic.\n\n"+
			"List the topics with:\n  %s help %s", name, listArg),
		DisableFlagParsing: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return lib.completions(root), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			args = positional(cmd.InheritedFlags(), args)
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				commandHelp(root, args)
			case args[0] == listArg:
				lib.WriteIndex(out, name)
			default:
				if t, ok := lib.Lookup(args[0]); ok {
					fmt.Fprint(out, lib.Render(t))
					return
				}
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					target = root
				}
				commandHelp(target, args)
			}
		},
	}

	if existing, _, err := root.Find([]string{"help"}); err == nil && existing != root {
		root.RemoveCommand(existing)
	}
	root.AddCommand(help)
	root.SetHelpCommand(help)
	return lib, nil
}

func (l *Library) completions(root *cobra.Command) []string {
	out := []string{listArg}
	for _, c := range root.Commands() {
		if c.IsAvailableCommand() {
			out = append(out, c.Name())
		}
	}
	return append(out, l.Names()...)
}

// positional removes inherited flags and their values from args. Help runs
// with flag parsing disabled so that unknown flags such as --overwrite reach
// Lookup; those are kept. When only flags were given, the last long one is
// returned so `help --dry-run` still finds its topic.
func positional(flags *pflag.FlagSet, args []string) []string {
	var out []string
	var lastLong string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := strings.TrimLeft(arg, "-")
		if name == arg || name == "" {
			out = append(out, arg)
			continue
		}
		long := strings.HasPrefix(arg, "--")

		if eq := strings.IndexByte(name, '='); eq >= 0 {
			if flags.Lookup(name[:eq]) == nil {
				out = append(out, arg)
			}
			continue
		}

		var f *pflag.Flag
		if long {
			f = flags.Lookup(name)
			lastLong = arg
		} else {
			// -v, -vv, or a shorthand followed by its value
			f = flags.ShorthandLookup(name[:1])
		}
		switch {
		case f == nil:
			out = append(out, arg)
		case f.NoOptDefVal == "" && (long || len(name) == 1):
			i++
		}
	}
	if len(out) == 0 && lastLong != "" {
		return []string{lastLong}
	}
	return out
}
