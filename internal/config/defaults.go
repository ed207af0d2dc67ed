package config

const (
	defaultWorkDir      = "~/.cache/transmute/work"
	defaultStateDir     = "~/.local/share/transmute"
	defaultLogFormat    = "console"
	defaultLogLevel     = "warn"
	defaultHistoryLimit = 50
)

// Default returns a Config populated with repository defaults, including a
// small document and graph toolchain that covers the common conversions out
// of the box.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Limit:   defaultHistoryLimit,
		},
		Formats: []Format{
			{Name: "markdown", Extensions: []string{".md", ".markdown"}},
			{Name: "html", Extensions: []string{".html", ".htm"}},
			{Name: "pdf", Extensions: []string{".pdf"}},
			{Name: "graph", Extensions: []string{".dot", ".gv"}},
			{Name: "svg", Extensions: []string{".svg"}},
			{Name: "png", Extensions: []string{".png"}},
		},
		Stages: []Stage{
			{
				Name:    "md-to-html",
				Source:  "markdown",
				Target:  "html",
				Command: "pandoc",
				Args:    []string{"--standalone", "--from", "markdown", "--to", "html", "--output", "{output}", "{input}"},
			},
			{
				Name:    "html-to-pdf",
				Source:  "html",
				Target:  "pdf",
				Command: "weasyprint",
				Args:    []string{"{input}", "{output}"},
			},
			{
				Name:    "dot-to-svg",
				Source:  "graph",
				Target:  "svg",
				Command: "dot",
				Args:    []string{"-Tsvg", "-o", "{output}", "{input}"},
			},
			{
				Name:    "svg-to-png",
				Source:  "svg",
				Target:  "png",
				Command: "rsvg-convert",
				Args:    []string{"--format", "png", "--output", "{output}", "{input}"},
			},
			{
				Name:    "dot-to-png",
				Source:  "graph",
				Target:  "png",
				Command: "dot",
				Args:    []string{"-Tpng", "-o", "{output}", "{input}"},
			},
		},
	}
}
