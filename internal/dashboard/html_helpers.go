package dashboard

import (
	"fmt"
	"net/url"
	"strings"
)

// Theme selects the colour scheme of a page. It travels in the "theme"
// query parameter; pages never read it from anywhere else.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a query value to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// PageContext carries what every page needs to render links and chrome.
type PageContext struct {
	ProjectID string
	Theme     Theme
	Path      string
	Query     url.Values
}

// link rebuilds the current URL with some query values replaced.
// An empty value removes the key.
func (p PageContext) link(overrides map[string]string) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = append([]string(nil), v...)
	}
	for k, v := range overrides {
		if v == "" {
			q.Del(k)
			continue
		}
		q.Set(k, v)
	}
	if len(q) == 0 {
		return p.Path
	}
	return p.Path + "?" + q.Encode()
}

// pageLink links to another dashboard page, keeping project and theme.
// extra holds additional key/value pairs.
func (p PageContext) pageLink(path string, extra ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	if p.ProjectID != "" {
		q.Set("project", p.ProjectID)
	}
	if p.Theme == ThemeDark {
		q.Set("theme", string(ThemeDark))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// htmlHead returns the common HTML head section with proper meta tags.
func htmlHead(title string, theme Theme) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en" data-theme="%s">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<meta name="description" content="Issues and commits of a GitLab project">
	<link rel="icon" type="image/svg+xml" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='0.9em' font-size='90'>📊</text></svg>">
	<title>%s - GitLab Insights</title>
	%s
</head>
<body>
	<div class="container">`, escapeHTML(string(theme)), escapeHTML(title), commonCSS())
}

// htmlFooter closes what htmlHead opened.
func htmlFooter() string {
	return `
	</div>
</body>
</html>`
}

// buildNavigation returns the common navigation bar HTML.
func buildNavigation(p PageContext) string {
	themeLabel := "🌙 Dark Mode"
	if p.Theme == ThemeDark {
		themeLabel = "☀️ Light Mode"
	}
	return fmt.Sprintf(`<div class="nav">
			<a href="%s">Overview</a>
			<a href="%s">Issues</a>
			<a href="%s">Commits</a>
			<a href="%s">Commits per weekday</a>
			<a class="theme-toggle" href="%s" aria-label="Toggle theme">%s</a>
		</div>`,
		escapeHTML(p.pageLink("/")),
		escapeHTML(p.pageLink("/issues")),
		escapeHTML(p.pageLink("/commits")),
		escapeHTML(p.pageLink("/commits", "view", "chart")),
		escapeHTML(p.link(map[string]string{"theme": string(p.Theme.Toggle())})),
		themeLabel)
}

// paginationNav renders previous/next links and the "Page X of Y" line.
func paginationNav(p PageContext, page, totalPages int, hasPrev, hasNext bool) string {
	var sb strings.Builder
	sb.WriteString(`<div class="pagination">`)
	if hasPrev {
		fmt.Fprintf(&sb, `<a href="%s">← Previous</a>`, escapeHTML(p.link(map[string]string{"page": fmt.Sprint(page - 1)})))
	}
	fmt.Fprintf(&sb, `<p>Page %d of %d</p>`, page, totalPages)
	if hasNext {
		fmt.Fprintf(&sb, `<a href="%s">Next →</a>`, escapeHTML(p.link(map[string]string{"page": fmt.Sprint(page + 1)})))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// commonCSS returns the shared CSS styles used across all pages.
func commonCSS() string {
	return `<style>
		:root {
			--bg-primary: #f5f5f5;
			--bg-secondary: white;
			--text-primary: #333;
			--text-secondary: #666;
			--link-color: #0066cc;
			--button-bg: #0066cc;
			--border-color: #e0e0e0;
			--shadow: rgba(0,0,0,0.1);
			--open-bg: #d4edda;
			--open-text: #155724;
			--closed-bg: #e2e3e5;
			--closed-text: #383d41;
			--bar-color: #c9a7d0;
			--error-bg: #f8d7da;
			--error-text: #721c24;
		}

		[data-theme="dark"] {
			--bg-primary: #1a1a1a;
			--bg-secondary: #2d2d2d;
			--text-primary: #e0e0e0;
			--text-secondary: #b0b0b0;
			--link-color: #4d9fff;
			--button-bg: #4d9fff;
			--border-color: #404040;
			--shadow: rgba(0,0,0,0.3);
			--open-bg: #1e4620;
			--open-text: #90ee90;
			--closed-bg: #2a2a2a;
			--closed-text: #999;
			--bar-color: #8e6a96;
			--error-bg: #4a1a1a;
			--error-text: #ff6b6b;
		}

		* { box-sizing: border-box; margin: 0; padding: 0; }

		body {
			font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
			padding: 20px;
			background: var(--bg-primary);
			color: var(--text-primary);
			line-height: 1.6;
		}

		.container { max-width: 1200px; margin: 0 auto; }
		h1 { margin-bottom: 10px; font-size: 2rem; font-weight: 600; }
		h2 { font-size: 1.5rem; font-weight: 600; margin-bottom: 10px; }
		a { color: var(--link-color); }

		.nav { margin-bottom: 30px; display: flex; align-items: center; gap: 15px; flex-wrap: wrap; }
		.nav a { text-decoration: none; }
		.nav a:hover { text-decoration: underline; }
		.theme-toggle { padding: 8px 16px; background: var(--button-bg); color: white !important; border-radius: 4px; font-size: 14px; }

		.card {
			background: var(--bg-secondary);
			padding: 16px 20px;
			border-radius: 10px;
			box-shadow: 0 2px 4px var(--shadow);
			margin-bottom: 12px;
			overflow: hidden;
		}

		.filters { display: flex; flex-wrap: wrap; gap: 30px; align-items: flex-start; }
		.filter-group { display: flex; flex-direction: column; gap: 4px; min-width: 200px; }
		.filter-group legend { font-size: 12px; font-weight: 500; color: var(--text-secondary); text-transform: uppercase; }
		.filter-group fieldset { border: none; }
		.filters button { padding: 8px 16px; background: var(--button-bg); color: white; border: none; border-radius: 4px; cursor: pointer; }

		.state-badge { padding: 2px 8px; border-radius: 4px; font-size: 12px; font-weight: 500; text-transform: uppercase; }
		.state-badge.open { background: var(--open-bg); color: var(--open-text); }
		.state-badge.closed { background: var(--closed-bg); color: var(--closed-text); }

		.pagination { display: flex; justify-content: center; align-items: center; gap: 20px; padding: 10px; }
		.meta-text { color: var(--text-secondary); font-size: 14px; }
		.empty { text-align: center; padding: 40px; color: var(--text-secondary); }
		.error { background: var(--error-bg); color: var(--error-text); padding: 20px; border-radius: 8px; }

		.chart { display: flex; align-items: flex-end; gap: 16px; height: 320px; padding: 20px; border-left: 1px solid var(--border-color); border-bottom: 1px solid var(--border-color); }
		.chart .bar-wrap { flex: 1; display: flex; flex-direction: column; justify-content: flex-end; align-items: center; height: 100%; }
		.chart .bar { width: 100%; background: var(--bar-color); border-radius: 4px 4px 0 0; }
		.chart .bar-label { font-size: 13px; margin-top: 6px; color: var(--text-secondary); }
		.chart .bar-count { font-size: 13px; font-weight: 600; }
	</style>`
}
