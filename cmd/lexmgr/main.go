package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RusDevProg/Lema/pkg/tagger"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var (
	lexFormat   string
	lexEncoding string
	rulesPath   string
	dumpPrefix  string
	dumpLimit   int
)

var rootCmd = &cobra.Command{
	Use:   "lexmgr",
	Short: "Inspect a morphological lexicon",
	Long: `Inspect a lexicon the way the tagger sees it.

Every command takes the lexicon file as its first argument. Word forms are
normalized before lookup, so "ЁЖ", "Ёж" and "еж" find the same entry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <lexicon> <word> [word...]",
	Short: "Show the raw lexicon analyses of words",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runLookup,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <lexicon> <word> [word...]",
	Short: "Resolve words through rules, lexicon and guesser",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runResolve,
}

var statsCmd = &cobra.Command{
	Use:   "stats <lexicon>",
	Short: "Show lexicon statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var dumpCmd = &cobra.Command{
	Use:   "dump <lexicon>",
	Short: "List word forms in key order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&lexFormat, "format", "auto", "lexicon format: auto, block or tab")
	rootCmd.PersistentFlags().StringVar(&lexEncoding, "encoding", "utf-8", "lexicon character encoding")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	resolveCmd.Flags().StringVar(&rulesPath, "rules", "", "YAML file with extra closed-class rules")
	dumpCmd.Flags().StringVarP(&dumpPrefix, "prefix", "p", "", "only forms starting with this prefix")
	dumpCmd.Flags().IntVarP(&dumpLimit, "limit", "n", 0, "stop after this many forms (0 = all)")

	rootCmd.AddCommand(lookupCmd, resolveCmd, statsCmd, dumpCmd)
}

func main() {
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func openLexicon(path string) (*tagger.Lexicon, error) {
	opts, err := tagger.LexiconConfig{Path: path, Format: lexFormat, Encoding: lexEncoding}.Options()
	if err != nil {
		return nil, err
	}
	return tagger.OpenLexicon(path, opts)
}

func formatAnalyses(analyses []tagger.Analysis) string {
	parts := make([]string, len(analyses))
	for i, a := range analyses {
		parts[i] = a.Lemma + " " + a.Tag.String()
	}
	return strings.Join(parts, ", ")
}

func runLookup(cmd *cobra.Command, args []string) error {
	lex, err := openLexicon(args[0])
	if err != nil {
		return err
	}
	defer lex.Close()

	missing := 0
	for _, word := range args[1:] {
		analyses := lex.Lookup(tagger.Normalize(word))
		if len(analyses) == 0 {
			fmt.Printf("'%s' NOT in lexicon\n", word)
			missing++
			continue
		}
		fmt.Printf("%s: %s\n", word, formatAnalyses(analyses))
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d words not in lexicon", missing, len(args)-1)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	lex, err := openLexicon(args[0])
	if err != nil {
		return err
	}
	defer lex.Close()

	rules := tagger.DefaultRules()
	if rulesPath != "" {
		if rules, err = tagger.LoadRules(rulesPath); err != nil {
			return err
		}
	}

	resolver := tagger.NewResolver(lex, rules)
	for _, word := range args[1:] {
		res := resolver.Resolve(word)
		fmt.Printf("%s{%s=%s}\t%s", word, res.Lemma, res.TagString(), res.Source)
		if res.Source == tagger.SourceRule {
			fmt.Printf(" (%s)", rules.Table(tagger.Normalize(word)))
		}
		fmt.Println()
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	lex, err := openLexicon(args[0])
	if err != nil {
		return err
	}
	defer lex.Close()

	ambiguous := 0
	for form := range lex.Keys("") {
		var tags tagger.TagSet
		for _, a := range lex.Lookup(form) {
			tags = tags.Add(a.Tag)
		}
		if tags.Len() > 1 {
			ambiguous++
		}
	}

	fmt.Printf("Lexicon: %s\n", args[0])
	fmt.Printf("Word forms: %d\n", lex.Len())
	fmt.Printf("Analyses: %d\n", lex.Analyses())
	fmt.Printf("Ambiguous forms: %d\n", ambiguous)
	fmt.Printf("Built-in rule forms: %d\n", tagger.DefaultRules().Len())
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	lex, err := openLexicon(args[0])
	if err != nil {
		return err
	}
	defer lex.Close()

	n := 0
	for form := range lex.Keys(tagger.Normalize(dumpPrefix)) {
		fmt.Printf("%s\t%s\n", form, formatAnalyses(lex.Lookup(form)))
		n++
		if dumpLimit > 0 && n >= dumpLimit {
			break
		}
	}
	glog.V(1).Infof("dumped %d forms", n)
	return nil
}
