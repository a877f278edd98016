package resultview

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-resultview/internal/assets"
	"github.com/alnah/go-resultview/internal/dateutil"
	"github.com/alnah/go-resultview/internal/pipeline"
)

var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLConverter = pipeline.SubsetConverter{}
	_ pipeline.PageBuilder   = (*pipeline.PageAssembly)(nil)
)

// defaultTimeout bounds PDF page loading when the context has no deadline.
const defaultTimeout = 30 * time.Second

// Option configures a Renderer.
type Option func(*Renderer)

type rendererConfig struct {
	timeout   time.Duration
	style     string
	engine    Engine
	assetPath string
}

// WithTimeout sets the PDF page load timeout.
// Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resultview: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle selects a CSS style by name (see assets.Names).
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithEngine selects the converter for overview results.
func WithEngine(e Engine) Option {
	return func(r *Renderer) {
		r.cfg.engine = e
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithAssetPath adds a directory of styles and templates that take
// precedence over the embedded ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// Renderer turns search results into HTML pages and PDFs.
//
// Everything but PDF export is safe for concurrent use. PDF export drives one
// browser per Renderer; use a RendererPool to export in parallel.
type Renderer struct {
	cfg      rendererConfig
	log      *zap.Logger
	now      func() time.Time
	css      string
	page     pipeline.PageBuilder
	goldmark pipeline.HTMLConverter
	pdf      pdfConverter
}

// NewRenderer creates a Renderer.
// Returns error if the style or page template cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout: defaultTimeout,
			style:   assets.DefaultStyleName,
			engine:  EngineSubset,
		},
		log: zap.NewNop(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	engine, err := ParseEngine(string(r.cfg.engine))
	if err != nil {
		return nil, err
	}
	r.cfg.engine = engine
	if engine == EngineGoldmark {
		r.goldmark = pipeline.NewGoldmarkConverter()
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}

	r.css, err = loader.LoadStyle(r.cfg.style)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrStyleNotFound, r.cfg.style, err)
	}

	if r.page == nil {
		tmpl, err := loader.LoadTemplate(assets.DefaultTemplateName)
		if err != nil {
			return nil, fmt.Errorf("%w: page template: %v", ErrInvalidAssetPath, err)
		}
		r.page, err = pipeline.NewPageAssembly(tmpl)
		if err != nil {
			return nil, err
		}
	}

	if r.pdf == nil {
		r.pdf = newRodConverter(r.cfg.timeout)
	}

	return r, nil
}

// Render dispatches the result by mode and renders it to a fragment and a
// standalone page, plus a PDF when input.PDF is set.
// Recovers from internal panics so one bad result cannot crash a server.
func (r *Renderer) Render(ctx context.Context, input Input) (res *RenderResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRenderInternal, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}

	date, err := dateutil.ResolveDate(input.Date, r.now())
	if err != nil {
		return nil, err
	}

	nodes := Dispatch(input.Result)
	fragment, err := r.fragment(ctx, input.Result, nodes)
	if err != nil {
		return nil, err
	}

	if input.BaseURL != "" {
		fragment, err = pipeline.ResolveRelativeLinks(fragment, input.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resolving result links: %w", err)
		}
	}

	// Style first, user CSS last so it can override
	css := r.css
	if input.CSS != "" {
		css += "\n" + input.CSS
	}

	page, err := r.page.BuildPage(ctx, &pipeline.PageData{
		Title: input.Title,
		Date:  date,
		CSS:   css,
		Body:  fragment,
	})
	if err != nil {
		return nil, err
	}

	res = &RenderResult{Nodes: nodes, Fragment: fragment, HTML: page}

	r.log.Debug("rendered result",
		zap.String("mode", string(input.Result.Mode)),
		zap.String("engine", string(r.cfg.engine)),
		zap.Int("html_bytes", len(page)),
	)

	if !input.PDF {
		return res, nil
	}

	footer := input.Title
	if date != "" {
		if footer != "" {
			footer += " - "
		}
		footer += date
	}

	res.PDF, err = r.pdf.ToPDF(ctx, page, &pdfOptions{Page: input.Page, Footer: footer})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	r.log.Debug("exported PDF", zap.Int("pdf_bytes", len(res.PDF)))

	return res, nil
}

// fragment renders the dispatched nodes. With the goldmark engine, non-empty
// overview text is converted by goldmark instead, under the same wrapper.
func (r *Renderer) fragment(ctx context.Context, result SearchResult, nodes []Node) (string, error) {
	if r.goldmark == nil || result.Mode == ModeEmails || result.IsEmpty() {
		return RenderHTML(nodes)
	}

	body, err := r.goldmark.ToHTML(ctx, result.Result)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}
	return `<div class="` + ClassOverviewResults + `">` + body + `</div>`, nil
}

// Engine returns the configured engine.
func (r *Renderer) Engine() Engine {
	return r.cfg.engine
}

// Close releases resources (headless Chrome browser).
func (r *Renderer) Close() error {
	if r.pdf != nil {
		return r.pdf.Close()
	}
	return nil
}

// normalizeInput canonicalizes the mode and validates page settings.
// An empty mode means overview.
func normalizeInput(input *Input) error {
	mode := ModeOverview
	if input.Result.Mode != "" {
		m, err := ParseMode(string(input.Result.Mode))
		if err != nil {
			return err
		}
		mode = m
	}
	input.Result.Mode = mode
	return input.Page.Validate()
}
