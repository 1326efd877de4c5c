// Command infopoisk is a thin CLI front-end over the infopoisk package: it
// wires flags to the public Builder/Search API and owns none of the core
// algorithms (tokenizing, stemming, indexing, query parsing all live in the
// root package).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TPShipilova/infopoisk"
)

func main() {
	app := &cli.App{
		Name:  "infopoisk",
		Usage: "boolean full-text search over a static document corpus",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "build", Aliases: []string{"b"}, Usage: "build a new index from --file and write it to --index"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "load --index and accept queries on stdin"},
			&cli.BoolFlag{Name: "stats", Aliases: []string{"s"}, Usage: "load --index and print its statistics"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "corpus manifest (build) or query file (batch mode)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path (not read: results are printed to stdout only)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "max results to print per query"},
			&cli.StringFlag{Name: "index", Value: "index.fash", Usage: "index file path"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	switch {
	case c.Bool("build"):
		return runBuild(c)
	case c.Bool("stats"):
		return runStats(c)
	case c.Bool("interactive"):
		return runInteractive(c)
	case c.NArg() > 0 || c.String("file") != "":
		return runBatch(c)
	default:
		return cli.ShowAppHelp(c)
	}
}

func runBuild(c *cli.Context) error {
	corpusPath := c.String("file")
	if corpusPath == "" {
		return fmt.Errorf("--build requires --file <manifest>")
	}

	loader, err := OpenCorpus(corpusPath)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	fmt.Println("Building index...")
	b := infopoisk.NewBuilder()
	if err := b.Build(loader); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if err := b.Save(c.String("index")); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	printStats(b.Statistics())
	return nil
}

func runStats(c *cli.Context) error {
	fmt.Println("Loading index:", c.String("index"))

	b := infopoisk.NewBuilder()
	if ok, err := b.Load(c.String("index")); !ok {
		return fmt.Errorf("loading index: %w", err)
	}

	printStats(b.Statistics())
	return nil
}

func printStats(s infopoisk.Stats) {
	fmt.Println("\nIndex Statistics:")
	fmt.Printf("  Documents: %d\n", s.TotalDocuments)
	fmt.Printf("  Unique terms: %d\n", s.TotalTerms)
	fmt.Printf("  Total postings: %d\n", s.TotalPostings)
	fmt.Printf("  Avg term length: %.2f chars\n", s.AvgTermLength)
	fmt.Printf("  Avg doc length: %.2f terms\n", s.AvgDocLength)
	fmt.Printf("  Indexing time: %.2f ms\n", s.IndexingMillis)
}

func runInteractive(c *cli.Context) error {
	fmt.Println("Loading index:", c.String("index"))

	b := infopoisk.NewBuilder()
	if ok, err := b.Load(c.String("index")); !ok {
		return fmt.Errorf("loading index: %w", err)
	}
	search := infopoisk.NewSearch(b)

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Println("\n=== Boolean Search Interactive Mode ===")
	fmt.Printf("Index loaded: %d documents\n", b.DocCount())
	fmt.Println("Type 'quit' or 'exit' to quit")
	fmt.Println("Supported operators: AND (&&), OR (||), NOT (!), parentheses")
	fmt.Println("Example: fashion && (design || trend) && !shoes")
	fmt.Println(strings.Repeat("=", 60))

	limit := c.Int("limit")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nQuery: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" {
			break
		}
		if query == "help" {
			printQueryHelp()
			continue
		}

		ids, stats, err := search.Query(query)
		if err != nil {
			fmt.Println(color.RedString("error: %v", err))
			continue
		}

		fmt.Printf("\nFound %d results in %.2f ms\n", stats.ResultCount, stats.ProcessingMillis)

		results := search.FormatResults(ids, 0, limit)
		for i, r := range results {
			fmt.Printf("\n%d. ", i+1)
			bold.Println(r.Title)
			dim.Printf("    URL: %s\n", r.URL)
			fmt.Printf("    Doc ID: %d\n", r.DocID)
		}

		if len(ids) > limit {
			fmt.Printf("\n... and %d more results (use --limit to show more)\n", len(ids)-limit)
		}
	}

	return nil
}

func printQueryHelp() {
	fmt.Println("\nBoolean Search Syntax:")
	fmt.Println("  fashion design          - implicit AND")
	fmt.Println("  fashion && design       - explicit AND")
	fmt.Println("  fashion || design       - OR")
	fmt.Println("  !shoes                  - NOT")
	fmt.Println("  (fashion || style) && design - parentheses")
}

// runBatch treats --file (or the positional argument) as either a query,
// one per line, or a single literal query string, matching the original's
// "try it as a file, fall back to the literal text" heuristic.
func runBatch(c *cli.Context) error {
	fmt.Println("Loading index:", c.String("index"))

	b := infopoisk.NewBuilder()
	if ok, err := b.Load(c.String("index")); !ok {
		return fmt.Errorf("loading index: %w", err)
	}
	search := infopoisk.NewSearch(b)

	source := c.String("file")
	if source == "" {
		source = strings.Join(c.Args().Slice(), " ")
	}

	queries := []string{source}
	if data, err := os.ReadFile(source); err == nil {
		queries = nil
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				queries = append(queries, line)
			}
		}
	}

	fmt.Printf("Processing %d queries...\n", len(queries))

	limit := c.Int("limit")
	for i, q := range queries {
		ids, _, err := search.Query(q)
		if err != nil {
			fmt.Printf("\nQuery %d: %q\n  error: %v\n", i+1, q, err)
			continue
		}

		fmt.Printf("\nQuery %d: %q\n  Results: %d\n", i+1, q, len(ids))

		if len(ids) > 0 && limit > 0 {
			shown := limit
			if shown > 5 {
				shown = 5
			}
			for j, r := range search.FormatResults(ids, 0, shown) {
				fmt.Printf("    %d. %s\n", j+1, r.Title)
			}
		}
	}

	return nil
}
