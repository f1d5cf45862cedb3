package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kevinmichaelchen/repo-blurbs/internal/artifact"
	"github.com/kevinmichaelchen/repo-blurbs/internal/collector"
	"github.com/kevinmichaelchen/repo-blurbs/internal/config"
	"github.com/kevinmichaelchen/repo-blurbs/internal/llm"
	"github.com/kevinmichaelchen/repo-blurbs/internal/logger"
	"github.com/kevinmichaelchen/repo-blurbs/internal/pipeline"
	"github.com/kevinmichaelchen/repo-blurbs/internal/render"
	"github.com/kevinmichaelchen/repo-blurbs/internal/textutil"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	logLevel   string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:          "repo-blurbs",
		Short:        "GitHub repositories → AI blurbs → Markdown portfolio",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format (console, json)")

	root.AddCommand(
		collectCmd(&g),
		summarizeCmd(&g),
		renderCmd(&g),
		runCmd(&g),
		publishCmd(&g),
		searchCmd(&g),
		statsCmd(&g),
	)
	return root
}

// setup loads configuration and attaches a logger to the command context.
func setup(cmd *cobra.Command, g *globalFlags) (context.Context, *config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return logger.WithContext(cmd.Context(), log), cfg, nil
}

type collectFlags struct {
	user         string
	out          string
	includeForks bool
	concurrency  int
}

func (f *collectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "GitHub account whose repositories are collected")
	cmd.Flags().StringVar(&f.out, "out", artifact.DefaultReposFile, "Where to write the collected repositories")
	cmd.Flags().BoolVar(&f.includeForks, "include-forks", false, "Keep forked repositories")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 1, "Repositories enriched in parallel per page")
	_ = cmd.MarkFlagRequired("user")
}

func (f *collectFlags) options() pipeline.CollectOptions {
	opts := collector.DefaultOptions()
	opts.ExcludeForks = !f.includeForks
	opts.Concurrency = f.concurrency
	return pipeline.CollectOptions{Account: f.user, OutFile: f.out, Collector: opts}
}

type summarizeFlags struct {
	infile       string
	outfile      string
	model        string
	backend      string
	seed         uint64
	temperature  float32
	topP         float32
	maxNewTokens int
}

func (f *summarizeFlags) register(cmd *cobra.Command, withInput bool) {
	d := llm.DefaultSampling()
	if withInput {
		cmd.Flags().StringVar(&f.infile, "infile", artifact.DefaultReposFile, "Collected repositories")
	}
	cmd.Flags().StringVar(&f.outfile, "outfile", artifact.DefaultSummariesFile, "Where to write the blurbs")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (default from LLM_MODEL, else distilgpt2)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "Generation backend: openai, anthropic or gemini")
	cmd.Flags().Uint64Var(&f.seed, "seed", 42, "Random seed for sampling")
	cmd.Flags().Float32Var(&f.temperature, "temperature", d.Temperature, "Sampling temperature")
	cmd.Flags().Float32Var(&f.topP, "top-p", d.TopP, "Nucleus sampling cutoff")
	cmd.Flags().IntVar(&f.maxNewTokens, "max-new-tokens", d.MaxNewTokens, "Maximum generated tokens per blurb")
}

// generator applies flag overrides to cfg and builds the selected backend.
func (f *summarizeFlags) generator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if f.model != "" {
		cfg.LLMModel = f.model
	}
	if f.backend != "" {
		cfg.LLMBackend = strings.ToLower(f.backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewGenerator(ctx, cfg.Generator())
}

func (f *summarizeFlags) options() pipeline.SummarizeOptions {
	return pipeline.SummarizeOptions{
		InFile:  f.infile,
		OutFile: f.outfile,
		Sampling: llm.SamplingConfig{
			Temperature:  f.temperature,
			TopP:         f.topP,
			MaxNewTokens: f.maxNewTokens,
		},
		Rand: textutil.NewRand(f.seed),
	}
}

type renderFlags struct {
	infile  string
	outfile string
	preview bool
}

// register adds the render flags. Within run, --outfile already names the
// blurbs file, so the document path is taken from --portfolio instead.
func (f *renderFlags) register(cmd *cobra.Command, standalone bool) {
	outFlag := "portfolio"
	if standalone {
		cmd.Flags().StringVar(&f.infile, "infile", artifact.DefaultSummariesFile, "Generated blurbs")
		outFlag = "outfile"
	}
	cmd.Flags().StringVar(&f.outfile, outFlag, artifact.DefaultPortfolioFile, "Where to write the Markdown document")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Also print the document rendered for the terminal")
}

func (f *renderFlags) showPreview(doc string) error {
	if !f.preview {
		return nil
	}
	out, err := render.Preview(doc, 100)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func collectCmd(g *globalFlags) *cobra.Command {
	var f collectFlags

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch an account's repositories with topics and README",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}
			_, err = pipeline.Collect(ctx, cfg, f.options())
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func summarizeCmd(g *globalFlags) *cobra.Command {
	var f summarizeFlags

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate a blurb for each collected repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}
			opts := f.options()
			gen, err := f.generator(ctx, cfg)
			if err != nil {
				return err
			}
			_, err = pipeline.Summarize(ctx, gen, opts)
			return err
		},
	}
	f.register(cmd, true)
	return cmd
}

func renderCmd(g *globalFlags) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render blurbs as a Markdown portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := setup(cmd, g); err != nil {
				return err
			}
			doc, err := pipeline.Render(pipeline.RenderOptions{InFile: f.infile, OutFile: f.outfile})
			if err != nil {
				return err
			}
			return f.showPreview(doc)
		},
	}
	f.register(cmd, true)
	return cmd
}

func runCmd(g *globalFlags) *cobra.Command {
	var (
		cf collectFlags
		sf summarizeFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect, summarize and render in one go",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}
			sopts := sf.options()
			gen, err := sf.generator(ctx, cfg)
			if err != nil {
				return err
			}

			copts := cf.options()
			sopts.InFile = copts.OutFile
			ropts := pipeline.RenderOptions{InFile: sopts.OutFile, OutFile: rf.outfile}

			if err := pipeline.Run(ctx, cfg, gen, pipeline.Options{
				Collect:   copts,
				Summarize: sopts,
				Render:    ropts,
			}); err != nil {
				return err
			}

			if !rf.preview {
				return nil
			}
			doc, err := os.ReadFile(rf.outfile)
			if err != nil {
				return err
			}
			return rf.showPreview(string(doc))
		},
	}
	cf.register(cmd)
	sf.register(cmd, false)
	rf.register(cmd, false)
	return cmd
}

func publishCmd(g *globalFlags) *cobra.Command {
	var opts pipeline.PublishOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Archive blurbs in SurrealDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}
			return pipeline.Publish(ctx, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.InFile, "infile", artifact.DefaultSummariesFile, "Generated blurbs")
	cmd.Flags().BoolVar(&opts.Embed, "embed", false, "Store embeddings for semantic search")
	return cmd
}

func searchCmd(g *globalFlags) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Semantic similarity search across archived blurbs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}
			query := args[0]

			results, err := pipeline.Search(ctx, cfg, query, k)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No results found")
				return nil
			}

			fmt.Printf("Top %d results for %q:\n\n", len(results), query)
			for i, r := range results {
				fmt.Printf("%d. %s  (%.3f)  ⭐ %d\n", i+1, r.Name, r.Score, r.Stars)
				fmt.Printf("   %s\n", r.URL)
				fmt.Printf("   %s\n", r.Blurb)
				if len(r.Topics) > 0 {
					fmt.Printf("   Topics: %s\n", strings.Join(r.Topics, ", "))
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 10, "Number of results")
	return cmd
}

func statsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archived blurb counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, g)
			if err != nil {
				return err
			}

			stats, err := pipeline.ArchiveStats(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Blurbs:   %d\n", stats.Total)
			fmt.Printf("Embedded: %d\n", stats.Embedded)
			return nil
		},
	}
}
