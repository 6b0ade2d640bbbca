package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RusDevProg/Lema/pkg/tagger"
	"github.com/spf13/cobra"
)

const (
	boxWidth = 62

	// ANSI color codes
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

var (
	iterations int
	warmup     int
	lexFormat  string
	encoding   string
)

var line = strings.Repeat("─", boxWidth)

var rootCmd = &cobra.Command{
	Use:           "benchmark [lexicon]",
	Short:         "Measure tagging throughput",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVarP(&iterations, "iterations", "n", 100000, "timed iterations per case")
	rootCmd.Flags().IntVar(&warmup, "warmup", 1000, "untimed iterations per case")
	rootCmd.Flags().StringVar(&lexFormat, "format", "auto", "lexicon format: auto, block or tab")
	rootCmd.Flags().StringVar(&encoding, "encoding", "utf-8", "lexicon character encoding")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := tagger.DefaultConfig()
	cfg.Lexicon = tagger.LexiconConfig{Path: "dict.opcorpora.txt.bz2", Format: lexFormat, Encoding: encoding}
	if len(args) > 0 {
		cfg.Lexicon.Path = args[0]
	}

	fmt.Printf("Loading lexicon %s... ", cfg.Lexicon.Path)
	start := time.Now()
	tg, err := tagger.Open(cfg)
	if err != nil {
		fmt.Println("failed")
		return err
	}
	defer tg.Close()
	fmt.Printf("done (%d word forms in %v)\n", tg.LexiconWordCount(), time.Since(start).Round(time.Millisecond))
	fmt.Printf("Iterations: %d (warmup: %d)\n", iterations, warmup)
	fmt.Println("Reference: 1 second = 1,000,000,000 ns")
	fmt.Println()

	singleWord := "печь"
	unknownWord := "самолетостроение"
	sentence := "Все Гришины одноклассники уже побывали за границей, он был чуть ли не единственным."

	printHeader("FULL PIPELINE THROUGHPUT")
	bench("Known word", func() { tg.TagSentence(singleWord) })
	bench("Unknown word", func() { tg.TagSentence(unknownWord) })
	bench("Sentence (13 words)", func() { tg.TagSentence(sentence) })
	printFooter()
	fmt.Println()

	printHeader("COMPONENT BREAKDOWN")
	lex := tg.Lexicon()
	bench("Lexicon lookup", func() { lex.Lookup(singleWord) })
	bench("Lexicon miss", func() { lex.Lookup(unknownWord) })
	rules := tg.Rules()
	bench("Rule lookup", func() { rules.Lookup("ли") })
	bench("Suffix guess", func() { tagger.Guess(unknownWord) })
	bench("Tokenize sentence", func() { tagger.SplitWords(sentence) })

	tg.ClearCache()
	tg.Resolve("Печь")
	bench("Resolve (cache hit)", func() { tg.Resolve("Печь") })
	bench("Resolve (cache miss)", func() {
		tg.ClearCache()
		tg.Resolve("Печь")
	})
	printFooter()
	fmt.Println()

	printHeader("NORMALIZER STEPS BREAKDOWN")
	bench("Normalize (full)", func() { tagger.Normalize("ПЕЧЁТ") })
	bench("Lowercase", func() { tagger.Lowercase("ПЕЧЁТ") })
	bench("Strip stress (clean)", func() { tagger.StripStressMarks("молоко") })
	bench("Strip stress (marked)", func() { tagger.StripStressMarks("мо\u0301локо") })
	bench("Fold yo", func() { tagger.FoldYo("печёт") })
	bench("Stem Russian", func() { tagger.StemRussian("одноклассники") })
	printFooter()
	fmt.Println()

	printHeader("PARALLEL LINES (256 per call)")
	lines := make([]string, 256)
	for i := range lines {
		lines[i] = sentence
	}
	ctx := cmd.Context()
	saved := iterations
	iterations = max(1, iterations/256)
	bench("TagLines", func() { tg.TagLines(ctx, lines) })
	iterations = saved
	printFooter()
	return nil
}

func bench(name string, fn func()) {
	for i := 0; i < warmup; i++ {
		fn()
	}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	elapsed := time.Since(start)

	opsPerSec := float64(iterations) / elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(iterations)

	displayName := name
	if len(displayName) > 26 {
		displayName = displayName[:26]
	}

	// pad the plain text, then colorize with the same width
	plain := fmt.Sprintf("  %-26s %10.0f ops/sec %10.0f ns", displayName, opsPerSec, nsPerOp)
	colored := fmt.Sprintf("  %-26s %s%10.0f%s ops/sec %s%10.0f%s ns",
		displayName,
		colorGreen, opsPerSec, colorReset,
		colorYellow, nsPerOp, colorReset)
	if pad := boxWidth - len(plain); pad > 0 {
		colored += strings.Repeat(" ", pad)
	}

	fmt.Println(colorDim + "│" + colorReset + colored + colorDim + "│" + colorReset)
}

func padLine(content string) string {
	n := len([]rune(content))
	if n >= boxWidth {
		return string([]rune(content)[:boxWidth])
	}
	return content + strings.Repeat(" ", boxWidth-n)
}

func printHeader(title string) {
	fmt.Println(colorDim + "┌" + line + "┐" + colorReset)
	fmt.Println(colorDim + "│" + colorReset + colorCyan + padLine("  "+title) + colorReset + colorDim + "│" + colorReset)
	fmt.Println(colorDim + "├" + line + "┤" + colorReset)
}

func printFooter() {
	fmt.Println(colorDim + "└" + line + "┘" + colorReset)
}
