package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/RusDevProg/Lema/pkg/tagger"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// batchSize is the number of input lines handed to TagLines at once.
const batchSize = 1024

var (
	configPath  string
	lexiconPath string
	lexFormat   string
	lexEncoding string
	rulesPath   string
	inputPath   string
	jsonOutput  bool
	stem        bool
	noCache     bool
	workers     int
)

var rootCmd = &cobra.Command{
	Use:   "tag [text...]",
	Short: "Annotate Russian text with lemmas and part-of-speech tags",
	Long: `Annotate Russian text with lemmas and coarse part-of-speech tags.

Every word is printed as word{lemma=TAG}. Words with several readings in the
lexicon get all candidate tags joined with "/", e.g. печь{печь=S/V}.

Text is taken from the arguments, from --input, or line by line from stdin.
With no text and an interactive terminal, tag starts a prompt.

Examples:
  tag --lexicon dict.opcorpora.txt.bz2 "Я люблю русскую печь"
  tag --config lema.yaml --input corpus.txt > tagged.txt
  cat corpus.txt | tag --lexicon mystem.txt --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTag,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVarP(&lexiconPath, "lexicon", "l", "", "lexicon file (.txt, .bz2 or .gz)")
	rootCmd.Flags().StringVar(&lexFormat, "format", "auto", "lexicon format: auto, block or tab")
	rootCmd.Flags().StringVar(&lexEncoding, "encoding", "utf-8", "lexicon character encoding")
	rootCmd.Flags().StringVar(&rulesPath, "rules", "", "YAML file with extra closed-class rules")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "read sentences from file, one per line")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print annotations as JSON, one array per line")
	rootCmd.Flags().BoolVar(&stem, "stem", false, "attach Snowball stems (JSON output only)")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the resolution cache")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers for line input (0 = all CPUs, 1 = stream)")

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	// glog reads its settings from the Go flag set, which cobra parses.
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

// loadConfig reads --config if given and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (tagger.Config, error) {
	cfg := tagger.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = tagger.LoadConfig(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("lexicon") {
		cfg.Lexicon.Path = lexiconPath
	}
	if flags.Changed("format") {
		cfg.Lexicon.Format = lexFormat
	}
	if flags.Changed("encoding") {
		cfg.Lexicon.Encoding = lexEncoding
	}
	if flags.Changed("rules") {
		cfg.Rules = rulesPath
	}
	if flags.Changed("stem") {
		cfg.Stem = stem
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	if cfg.Lexicon.Path == "" {
		return cfg, fmt.Errorf("no lexicon given, use --lexicon or a config file")
	}
	return cfg, cfg.Validate()
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tg, err := tagger.Open(cfg)
	if err != nil {
		return err
	}
	defer tg.Close()

	fmt.Fprintf(os.Stderr, "Lexicon loaded: %d word forms\n", tg.LexiconWordCount())
	glog.V(1).Infof("rules: %d forms, cache: %v, workers: %d", tg.Rules().Len(), tg.CacheEnabled(), cfg.Workers)

	ctx := cmd.Context()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	// Text given as arguments: tag it and exit
	if len(args) > 0 {
		return writeLine(out, tg, strings.Join(args, " "))
	}

	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return tagStream(ctx, tg, cfg, f, out)
	}

	if !isTerminal(os.Stdin) {
		return tagStream(ctx, tg, cfg, os.Stdin, out)
	}

	out.Flush()
	interactive(tg, os.Stdin, os.Stdout, os.Stderr)
	return nil
}

func writeLine(w io.Writer, tg *tagger.Tagger, text string) error {
	if !jsonOutput {
		_, err := fmt.Fprintln(w, tg.TagSentence(text))
		return err
	}

	anns := tg.Analyze(text)
	if anns == nil {
		anns = []tagger.Annotation{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(anns)
}

// tagStream tags line-delimited input. Plain output goes through the worker
// pool in batches; JSON and single-worker runs stream line by line.
func tagStream(ctx context.Context, tg *tagger.Tagger, cfg tagger.Config, r io.Reader, w io.Writer) error {
	if !jsonOutput && cfg.Workers == 1 {
		return tg.TagText(ctx, r, w)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	if jsonOutput {
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeLine(w, tg, sc.Text()); err != nil {
				return err
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		return nil
	}

	batch := make([]string, 0, batchSize)
	flush := func() error {
		tagged, err := tg.TagLines(ctx, batch)
		if err != nil {
			return err
		}
		for _, line := range tagged {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		batch = append(batch, sc.Text())
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return flush()
}

func interactive(tg *tagger.Tagger, in io.Reader, out, errOut io.Writer) {
	// restore the default Ctrl+C behavior for the prompt
	signal.Reset(os.Interrupt)

	fmt.Fprintln(out, "Russian Tagger (interactive mode)")
	fmt.Fprintf(out, "Lexicon loaded: %d word forms, %d rule forms\n", tg.LexiconWordCount(), tg.Rules().Len())
	fmt.Fprintln(out, "Type a sentence, press Enter to tag. Ctrl+C to exit.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fmt.Fprint(out, "  ")
		if err := writeLine(out, tg, text); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		fmt.Fprintln(out)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
