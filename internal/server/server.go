// Package server previews exported class diagrams over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/olehluchkiv/umlbot/internal/diagram"
	"github.com/olehluchkiv/umlbot/internal/export"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>umlbot: {{.Root}}</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      padding: 1rem 2rem;
      background-color: #f8f9fa;
      color: #212529;
    }

    @media (prefers-color-scheme: dark) {
      body {
        background-color: #1a1a2e;
        color: #e0e0e0;
      }
      .class-card { background-color: #23233a; border-color: #444; }
    }

    h1 { margin: 1rem 0; font-size: 1.4rem; font-weight: 600; }
    h2 { font-size: 1.1rem; margin-bottom: 0.5rem; }

    nav { margin-bottom: 1rem; font-size: 0.9rem; }
    nav a { margin-right: 0.8rem; }

    .class-card {
      border: 1px solid #ccc;
      border-radius: 6px;
      background-color: #ffffff;
      padding: 1rem;
      margin-bottom: 1rem;
      display: flex;
      gap: 2rem;
      flex-wrap: wrap;
    }

    .class-card .path { font-size: 0.8rem; opacity: 0.7; margin-bottom: 0.5rem; }
    pre.summary { font-size: 0.9rem; min-width: 18rem; }

    .failures { color: #c0392b; }
    .failures li { margin-left: 1.2rem; font-family: monospace; }

    /* Color coding matches the classDef styles in generated markup */
    .mermaid svg g.node.interfaceStyle .nodeLabel { color: #fff !important; }
    .mermaid svg g.node.implStyle .nodeLabel { color: #fff !important; }
  </style>
</head>
<body>
  <h1>umlbot: {{.Root}}</h1>

  <nav>
    {{range .Classes}}<a href="#{{.Name}}">{{.Name}}</a>{{end}}
    <a href="/api/report">report.json</a>
  </nav>

  {{if .Failures}}
  <section class="failures">
    <h2>{{len .Failures}} failed</h2>
    <ul>
      {{range .Failures}}<li>{{.Error}}</li>
      {{end}}
    </ul>
  </section>
  {{end}}

  {{range .Classes}}
  <section class="class-card" id="{{.Name}}">
    <div>
      <h2>{{.Name}}</h2>
      <div class="path">{{.Path}} · <a href="/markup/{{.Name}}">markup</a></div>
      <pre class="summary">{{.Summary}}</pre>
    </div>
    <pre class="mermaid">{{.Mermaid}}</pre>
  </section>
  {{end}}

  <script src="https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"></script>
  <script>
    mermaid.initialize({ startOnLoad: true, theme: 'base' });
  </script>
</body>
</html>
`

// Snapshot holds the report currently on display. It is safe for concurrent
// use, so a watcher can replace the report while requests are served.
type Snapshot struct {
	mu     sync.RWMutex
	report *export.Report
}

// Set replaces the displayed report.
func (s *Snapshot) Set(r *export.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Report returns the displayed report, never nil.
func (s *Snapshot) Report() *export.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return &export.Report{}
	}
	return s.report
}

type classView struct {
	Name    string
	Path    string
	Summary string
	Mermaid string
}

type pageData struct {
	Root     string
	Classes  []classView
	Failures []export.UnitError
}

type unitJSON struct {
	Path        string `json:"path"`
	Class       string `json:"class"`
	Kind        string `json:"kind"`
	SummaryFile string `json:"summary_file"`
	MarkupFile  string `json:"markup_file"`
	Artifact    string `json:"artifact,omitempty"`
}

type failureJSON struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type reportJSON struct {
	Root     string        `json:"root"`
	Units    []unitJSON    `json:"units"`
	Failures []failureJSON `json:"failures"`
}

// NewHandler builds the preview routes over snap. Diagrams on the page are
// always Mermaid so the browser can draw them; /markup serves the exported
// markup as written.
func NewHandler(snap *Snapshot, opts diagram.Options, logger *slog.Logger) (http.Handler, error) {
	tmpl, err := template.New("preview").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		report := snap.Report()
		data := pageData{Root: report.Root, Failures: report.Failures}
		for _, u := range report.Units {
			data.Classes = append(data.Classes, classView{
				Name:    u.Class.Name(),
				Path:    u.Path,
				Summary: u.Summary,
				Mermaid: diagram.GenerateMermaid(u.Class, opts),
			})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			logger.Error("failed to render template", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("GET /markup/{name}", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		name := r.PathValue("name")
		for _, u := range snap.Report().Units {
			if u.Class.Name() == name {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				_, _ = w.Write([]byte(u.Markup))
				return
			}
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /api/report", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		report := snap.Report()
		out := reportJSON{Root: report.Root, Units: []unitJSON{}, Failures: []failureJSON{}}
		for _, u := range report.Units {
			out.Units = append(out.Units, unitJSON{
				Path:        u.Path,
				Class:       u.Class.Name(),
				Kind:        u.Class.Signature.Kind.String(),
				SummaryFile: u.SummaryFile,
				MarkupFile:  u.MarkupFile,
				Artifact:    u.Artifact,
			})
		}
		for _, f := range report.Failures {
			out.Failures = append(out.Failures, failureJSON{Path: f.Path, Stage: string(f.Stage), Error: f.Err.Error()})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			logger.Error("failed to encode report", "error", err)
		}
	})

	return mux, nil
}

// Serve starts the HTTP server with the given handler.
// It blocks until the context is cancelled.
func Serve(ctx context.Context, handler http.Handler, port int, openBrowser bool, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	logger.Info("starting HTTP server", "addr", url)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	if openBrowser {
		openInBrowser(url, logger)
	}

	// Block until the context is cancelled or the server fails.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	}
}

// openInBrowser opens the given URL in the default system browser.
func openInBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		logger.Warn("unsupported platform for opening browser", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}
