// Package resultview renders article-search results as HTML pages and PDFs.
//
// # Quick Start
//
// Parse and render a markdown-subset result directly:
//
//	nodes := resultview.Parse("## Top\n| Title | Year |\n|---|---|\n| **A** | 2024 |")
//	fragment, err := resultview.RenderHTML(nodes)
//
// Or dispatch a full search result by mode and build a standalone page:
//
//	r, err := resultview.NewRenderer(resultview.WithStyle("compact"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Render(ctx, resultview.Input{
//	    Result: resultview.SearchResult{Mode: resultview.ModeOverview, Result: text},
//	    Title:  "CRISPR",
//	    Date:   "auto",
//	})
//	os.WriteFile("results.html", []byte(res.HTML), 0644)
//
// # Markdown Subset
//
// The converter understands only what the search API produces:
//
//   - "## " and "### " headers at the start of a line
//   - **bold** and [text](url) links, nestable in either order
//   - a line that is exactly "---" as a horizontal rule
//   - pipe tables: lines that start and end with "|", separator rows skipped
//   - every newline outside a table as a line break
//
// Anything else passes through as text. The converter never fails and never
// builds markup from strings: it produces a node tree, and RenderHTML escapes
// every text and attribute while building the HTML. Links whose scheme is not
// http, https or mailto render as their label.
//
// # Modes
//
// Dispatch selects the presentation. Emails results are shown as plain
// preformatted lines with no markdown processing. Overview results go through
// Parse. Empty results render a placeholder message.
//
// # Engines
//
// WithEngine(EngineGoldmark) renders overview results with Goldmark and GFM
// instead. It does not reproduce the subset's rules: tables need a separator
// row and lines group into paragraphs.
//
// # Concurrency
//
// Parse, Dispatch and RenderHTML are safe for concurrent use. Renderer.Render
// is too, except for PDF export, which drives one browser per Renderer. Use
// RendererPool to export in parallel:
//
//	pool := resultview.NewRendererPool(resultview.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//
// # PDF Export
//
// Set Input.PDF to print the page with headless Chrome through go-rod.
// Chromium is downloaded on first use unless ROD_BROWSER_BIN points at a
// browser. Always call Close to release it.
package resultview
