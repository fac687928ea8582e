package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/vanderheijden86/outliner/pkg/config"
	"github.com/vanderheijden86/outliner/pkg/document"
	"github.com/vanderheijden86/outliner/pkg/model"
	"github.com/vanderheijden86/outliner/pkg/projection"
	"github.com/vanderheijden86/outliner/pkg/version"
	"github.com/vanderheijden86/outliner/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Load a view config (YAML) before applying flags")
	filterText := flag.String("filter", "", "Filter by substring of the name")
	filterPattern := flag.String("pattern", "", "Filter by regular expression (mutually exclusive with --filter)")
	caseSensitive := flag.Bool("case-sensitive", false, "Make --filter case sensitive")
	exact := flag.Bool("exact", false, "Make --filter match the whole value")
	fieldsFlag := flag.String("fields", "", "Comma-separated field indices to filter on (default: all)")
	keepAncestors := flag.Bool("keep-ancestors", false, "Keep rejected ancestors of matches as context rows")
	flat := flag.Bool("flat", false, "Flatten the tree to a sorted list")
	sortField := flag.Int("sort-field", 0, "Field index to sort the flattened list by")
	sortDesc := flag.Bool("sort-desc", false, "Sort the flattened list in descending order")
	jsonOut := flag.Bool("json", false, "Print the projected tree as JSON instead of indented text")
	watch := flag.Bool("watch", false, "Keep running and re-print when the document changes")
	flag.Parse()

	if *help {
		fmt.Println("Usage: ol [options] <document.yaml>")
		fmt.Println("\nProjects a tree document through a filter and prints the result.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("ol %s\n", version.Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ol [options] <document.yaml>")
		os.Exit(2)
	}
	docPath := flag.Arg(0)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFrom(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg, *filterText, *filterPattern, *caseSensitive, *exact,
		*fieldsFlag, *keepAncestors, *flat, *sortField, *sortDesc)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := document.Load(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tree := doc.Tree()

	engine := projection.New[*model.Node](tree)
	if err := config.Apply(cfg, engine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tree.Subscribe(engine)

	printProjection(engine, *jsonOut)

	if !*watch {
		return
	}

	w, err := watcher.New(docPath,
		watcher.WithOnError(func(err error) { log.Printf("warning: watch: %v", err) }))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return
		case <-w.Changed():
			doc, err := document.Load(docPath)
			if err != nil {
				log.Printf("warning: reload: %v", err)
				continue
			}
			doc.ApplyTo(tree)
			printProjection(engine, *jsonOut)
		}
	}
}

// applyFlags overlays explicitly set flags onto the config so that flags
// win over the config file.
func applyFlags(cfg *config.ViewConfig, text, pattern string, caseSensitive, exact bool,
	fields string, keepAncestors, flat bool, sortField int, sortDesc bool) {

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["filter"] && set["pattern"] {
		fmt.Fprintln(os.Stderr, "Error: --filter and --pattern are mutually exclusive")
		os.Exit(1)
	}
	if set["filter"] {
		cfg.Filter.Text = text
		cfg.Filter.Pattern = ""
	}
	if set["pattern"] {
		cfg.Filter.Pattern = pattern
		cfg.Filter.Text = ""
	}
	if set["case-sensitive"] {
		cfg.Filter.CaseSensitive = caseSensitive
	}
	if set["exact"] {
		cfg.Filter.ExactMatch = exact
	}
	if set["fields"] {
		cfg.Filter.Fields = parseFields(fields)
	}
	if set["keep-ancestors"] {
		cfg.Filter.KeepAncestors = keepAncestors
	}
	if set["flat"] {
		if flat {
			cfg.Mode = config.ModeFlat
		} else {
			cfg.Mode = config.ModeTree
		}
	}
	if set["sort-field"] {
		cfg.Sort.Field = sortField
	}
	if set["sort-desc"] {
		cfg.Sort.Descending = sortDesc
	}
}

func parseFields(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid field index %q\n", part)
			os.Exit(1)
		}
		out = append(out, n)
	}
	return out
}

func printProjection(e *projection.Engine[*model.Node], asJSON bool) {
	snap := e.Snapshot()
	if asJSON {
		data, err := snap.MarshalIndent()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	fmt.Print(snap.String())
}
