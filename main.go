package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"blog_bundle_agent/bundle"
	"blog_bundle_agent/config"
	"blog_bundle_agent/console"
	"blog_bundle_agent/generator"
	"blog_bundle_agent/imagery"
	"blog_bundle_agent/pipeline"
	"blog_bundle_agent/research"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config.yaml")
	topic := flag.String("topic", "", "blog topic; prompted for when empty")
	diagnose := flag.Bool("diagnose", false, "send one probe prompt to the draft model and exit")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	con := console.New(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))

	if *diagnose {
		if !runDiagnostic(ctx, cfg, con) {
			os.Exit(1)
		}
		return
	}

	if *topic == "" {
		*topic = promptTopic()
	}
	if *topic == "" {
		fmt.Fprintln(os.Stderr, "topic is required")
		os.Exit(1)
	}

	p, metrics, err := buildPipeline(cfg, con)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	con.Banner("Blog Page Bundle Agent")
	run, err := p.Run(ctx, *topic)
	if cfg.MetricsFile != "" {
		if werr := metrics.WriteFile(cfg.MetricsFile); werr != nil {
			log.WithError(werr).WithField("path", cfg.MetricsFile).Warn("write metrics file")
		}
	}
	if err != nil {
		if errors.Is(err, bundle.ErrPathTraversal) {
			con.Warn("Security Alert: Path Traversal attempt blocked.")
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	con.Info(fmt.Sprintf("\n:sparkles: Success! Page Bundle generated at: %s", displayPath(run.BundleDir)))
	if run.Thumbnail.Status == bundle.ThumbnailSaved {
		con.Info(fmt.Sprintf("   thumbnail: %s", console.Bytes(run.Thumbnail.Bytes)))
	}
	con.Info(fmt.Sprintf("   finished in %s", console.Elapsed(run.Elapsed())))
}

func promptTopic() string {
	fmt.Print("Enter topic: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// displayPath shows dir relative to the working directory when it is below it.
func displayPath(dir string) string {
	wd, err := os.Getwd()
	if err != nil {
		return dir
	}
	rel, err := filepath.Rel(wd, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	return rel
}

func buildPipeline(cfg config.Config, con *console.Console) (*pipeline.Pipeline, *pipeline.Metrics, error) {
	logger := log.NewEntry(log.StandardLogger())

	models, err := buildModels(cfg)
	if err != nil {
		return nil, nil, err
	}
	agent, err := generator.NewAgent(models, cfg.SiteName, logger)
	if err != nil {
		return nil, nil, err
	}

	search, err := research.NewTavily(cfg.Search.APIKey, cfg.Search.BaseURL, cfg.Search.MaxResults, nil, logger)
	if err != nil {
		return nil, nil, err
	}

	deps := pipeline.Deps{
		Generator: agent,
		Search:    search,
		Writer:    bundle.NewWriter(bundle.NewDownloader(cfg.Images.DownloadTimeout, logger), cfg.Images.MaxWidth, logger),
		Reporter:  con,
		Metrics:   pipeline.NewMetrics(),
	}
	// Without an access key the image step is skipped, not fatal.
	if cfg.Images.AccessKey != "" {
		images, err := imagery.NewUnsplash(cfg.Images.AccessKey, cfg.Images.BaseURL, cfg.Images.FallbackQuery, cfg.Images.SearchTimeout, logger)
		if err != nil {
			return nil, nil, err
		}
		deps.Images = images
	}

	p, err := pipeline.New(deps, pipeline.Options{
		ContentRoot:       cfg.ContentRoot,
		ImagePathPrefix:   cfg.ImagePathPrefix,
		Parallel:          cfg.ParallelResearch,
		PreambleWarnBytes: cfg.PreambleWarnBytes,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, deps.Metrics, nil
}

func buildModels(cfg config.Config) (generator.Models, error) {
	var m generator.Models
	var err error
	if m.Slug, err = buildLLM(cfg, cfg.LLM.SlugModel, ""); err != nil {
		return m, err
	}
	if m.Keyword, err = buildLLM(cfg, cfg.LLM.KeywordModel, ""); err != nil {
		return m, err
	}
	if m.Outline, err = buildLLM(cfg, cfg.LLM.OutlineModel, cfg.LLM.OutlineKeepAlive); err != nil {
		return m, err
	}
	if m.Draft, err = buildLLM(cfg, cfg.LLM.DraftModel, cfg.LLM.DraftKeepAlive); err != nil {
		return m, err
	}
	return m, nil
}

func buildLLM(cfg config.Config, model, keepAlive string) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "ollama", "openai", "deepseek":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider:  cfg.LLM.Provider,
			Model:     model,
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			KeepAlive: keepAlive,
			Timeout:   cfg.LLM.Timeout,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func runDiagnostic(ctx context.Context, cfg config.Config, con *console.Console) bool {
	con.Info("--- :hammer_and_wrench: Starting Model Diagnostic ---")
	con.Info(fmt.Sprintf("1. Connecting to %s at %s...", cfg.LLM.Provider, cfg.LLM.BaseURL))
	llm, err := buildLLM(cfg, cfg.LLM.DraftModel, "")
	if err != nil {
		con.Warn(err.Error())
		return false
	}

	done := con.Step("2. Sending prompt... (the first run may take 10-30 seconds while the model loads)")
	d := generator.Diagnose(ctx, llm)
	if d.Err != nil {
		done("")
		con.Info("   :x: Failed!")
		con.Info("   Error Type: " + d.ErrorType())
		con.Info(fmt.Sprintf("   Details: %v", d.Err))
		if cfg.LLM.Provider == "ollama" {
			con.Info(fmt.Sprintf("\n:bulb: Tip: Check if you pulled the model exactly: 'ollama pull %s'", cfg.LLM.DraftModel))
		}
		return false
	}
	done(fmt.Sprintf("3. Success! (Time taken: %.2fs)", d.Took.Seconds()))
	con.Info("   Response: " + d.Response)
	return true
}
