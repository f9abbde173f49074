package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/internal/config"
	"github.com/goliatone/go-postgen/internal/logger"
	"github.com/goliatone/go-postgen/internal/metrics"
	internalLoader "github.com/goliatone/go-postgen/internal/openapi/loader"
	"github.com/goliatone/go-postgen/internal/server"
	"github.com/goliatone/go-postgen/pkg/client"
	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/controller"
	"github.com/goliatone/go-postgen/pkg/model"
	pkgopenapi "github.com/goliatone/go-postgen/pkg/openapi"
	"github.com/goliatone/go-postgen/pkg/orchestrator"
	"github.com/goliatone/go-postgen/pkg/render"
	"github.com/goliatone/go-postgen/pkg/renderers/tui"
	"github.com/goliatone/go-postgen/pkg/renderers/vanilla"
)

var version = "dev"

const usage = `usage: postgen [serve|tui|render] [flags]

  serve   serve the form over HTTP (default)
  tui     fill the form in the terminal
  render  write the idle page as a standalone HTML file, or with
          -renderer tui prompt for the fields and write the request body
`

type flags struct {
	config   string
	endpoint string
	addr     string
	output   string
	theme    string
	variant  string
	renderer string
	format   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	fset := flag.NewFlagSet("postgen "+command, flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprint(stderr, usage)
		fset.PrintDefaults()
	}
	var f flags
	fset.StringVar(&f.config, "config", "", "config file (default ./postgen.yaml or ./configs/postgen.yaml)")
	fset.StringVar(&f.endpoint, "endpoint", "", "generation API root, overrides api.endpoint")
	fset.StringVar(&f.addr, "addr", "", "listen address for serve, overrides server.address")
	fset.StringVar(&f.output, "output", "", "output file for render (stdout if empty)")
	fset.StringVar(&f.theme, "theme", "", "theme name, overrides ui.theme")
	fset.StringVar(&f.variant, "variant", "", "theme variant, overrides ui.variant")
	fset.StringVar(&f.renderer, "renderer", "", "renderer for render: vanilla (default) or tui")
	fset.StringVar(&f.format, "format", string(tui.OutputFormatJSON), "tui renderer output: json, form or pretty")
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(config.Options{File: f.config})
	if err != nil {
		return err
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Format}
	if command != "serve" {
		// stdout belongs to prompts and rendered output.
		logCfg.OutputPath = "stderr"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Prompts of the tui renderer go to stderr; stdout carries the payload.
	registry, err := newRegistry(stderr, tui.OutputFormat(f.format), nil)
	if err != nil {
		return err
	}
	orch, req, err := buildOrchestrator(cfg, log, registry)
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		return serve(ctx, cfg, orch, req, log)
	case "tui":
		return runTUI(ctx, cfg, orch, req, log, stdout)
	case "render":
		return renderPage(ctx, cfg, orch, req, f, stdout)
	default:
		fset.Usage()
		return fmt.Errorf("postgen: unknown command %q", command)
	}
}

func applyFlags(cfg *config.Config, f flags) {
	if f.endpoint != "" {
		cfg.API.Endpoint = f.endpoint
	}
	if f.addr != "" {
		cfg.Server.Address = f.addr
	}
	if f.theme != "" {
		cfg.UI.Theme = f.theme
	}
	if f.variant != "" {
		cfg.UI.Variant = f.variant
	}
}

// newRegistry holds the HTML page renderer and the terminal renderer, which
// prompts on prompts and renders the collected request in format. A nil
// driver uses survey.
func newRegistry(prompts io.Writer, format tui.OutputFormat, driver tui.PromptDriver) (*render.Registry, error) {
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("postgen: unknown output format %q", format)
	}

	page, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New(
		tui.WithOutput(prompts),
		tui.WithOutputFormat(format),
		tui.WithPromptDriver(driver),
	)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{page, terminal} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildOrchestrator(cfg *config.Config, log *zap.Logger, registry *render.Registry) (*orchestrator.Orchestrator, orchestrator.Request, error) {
	src, err := pkgopenapi.ParseSource(cfg.OpenAPI.Source)
	if err != nil {
		return nil, orchestrator.Request{}, err
	}

	options := []orchestrator.Option{
		orchestrator.WithLogger(log),
		orchestrator.WithRegistry(registry),
		orchestrator.WithThemeDefaults(cfg.UI.Theme, cfg.UI.Variant),
		orchestrator.WithLoader(internalLoader.New(pkgopenapi.NewLoaderOptions(
			pkgopenapi.WithHTTPFallback(30 * time.Second),
		))),
	}
	if cfg.UI.SchemaDir != "" {
		options = append(options, orchestrator.WithUISchemaFS(os.DirFS(cfg.UI.SchemaDir)))
	}

	req := orchestrator.Request{
		Source:       src,
		OperationID:  pkgopenapi.GenerateOperationID,
		ThemeName:    cfg.UI.Theme,
		ThemeVariant: cfg.UI.Variant,
	}
	return orchestrator.New(options...), req, nil
}

// newClient points the client at the path the OpenAPI operation declares.
func newClient(cfg *config.Config, form model.FormModel, log *zap.Logger) (*client.Client, error) {
	return client.New(cfg.API.Endpoint,
		client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		client.WithGeneratePath(form.Endpoint),
		client.WithUserAgent("postgen/"+version),
		client.WithLogger(log.Named("client")),
	)
}

func serve(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, req orchestrator.Request, log *zap.Logger) error {
	form, err := orch.Form(ctx, req)
	if err != nil {
		return err
	}
	api, err := newClient(cfg, form, log)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Address:         cfg.Server.Address,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Mode:            gin.ReleaseMode,
	}, orch, api,
		server.WithLogger(log),
		server.WithMetrics(metrics.New(metrics.DefaultNamespace)),
		server.WithHealthChecker(api),
		server.WithDocument(req.Source, req.OperationID),
		server.WithTheme(cfg.UI.Theme, cfg.UI.Variant),
	)
	if err != nil {
		return err
	}
	log.Info("postgen ready",
		zap.String("version", version),
		zap.String("api_endpoint", api.Endpoint()),
		zap.String("generate_url", api.GenerateURL()),
	)
	return srv.Run(ctx)
}

func runTUI(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, req orchestrator.Request, log *zap.Logger, stdout io.Writer) error {
	form, err := orch.Form(ctx, req)
	if err != nil {
		return err
	}
	api, err := newClient(cfg, form, log)
	if err != nil {
		return err
	}
	ctrl, err := controller.New(api, controller.WithLogger(log.Named("controller")))
	if err != nil {
		return err
	}
	renderer, err := tui.New(tui.WithOutput(stdout))
	if err != nil {
		return err
	}
	session, err := tui.NewSession(renderer, ctrl, form, tui.WithRepeat(true))
	if err != nil {
		return err
	}
	if _, err := session.Run(ctx); err != nil && !errors.Is(err, tui.ErrAborted) {
		return err
	}
	return nil
}

func renderPage(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, req orchestrator.Request, f flags, stdout io.Writer) error {
	themeCfg, err := render.ResolveTheme(render.DefaultThemeSelector(), cfg.UI.Theme, cfg.UI.Variant, nil)
	if err != nil {
		return err
	}
	// A standalone file cannot reach /assets, so the stylesheet is inlined.
	themeCfg.AssetURL = nil

	req.Renderer = f.renderer
	req.RenderOptions = render.RenderOptions{
		Values: content.DefaultFormState(),
		Result: content.Idle(),
		Theme:  themeCfg,
	}
	out, err := orch.Render(ctx, req)
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.WriteFile(f.output, out, 0o644); err != nil {
		return fmt.Errorf("postgen: write output: %w", err)
	}
	fmt.Fprintf(stdout, "Output written to %s\n", f.output)
	return nil
}
