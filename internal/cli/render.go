package cli

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wudragonfly/mdview/internal/configloader"
	"github.com/wudragonfly/mdview/internal/logging"
	"github.com/wudragonfly/mdview/pkg/engine"
	"github.com/wudragonfly/mdview/pkg/frontmatter"
	"github.com/wudragonfly/mdview/pkg/fsutil"
)

type renderFlags struct {
	output     string
	standalone bool
	breaks     bool
	linkify    bool
	theme      string
	workspace  string
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a Markdown file to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write HTML to file instead of stdout")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap output in a full HTML page")
	cmd.Flags().BoolVar(&flags.breaks, "breaks", false, "render single newlines as hard breaks")
	cmd.Flags().BoolVar(&flags.linkify, "linkify", true, "turn bare URLs into links")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().StringVar(&flags.workspace, "workspace", "", "root directory for absolute local links")

	return cmd
}

const renderLongDescription = `Render a Markdown file to HTML.

The output carries data-line attributes mapping elements back to source
lines, unique heading anchors, syntax-highlighted code fences, and
workspace-resolved local links. YAML front matter is stripped; its title
field becomes the page title in standalone mode.

Examples:
  mdview render README.md                  # Render to stdout
  mdview render README.md -o readme.html   # Render to a file
  mdview render --standalone guide.md      # Full HTML page
  mdview render --theme dracula guide.md   # Pick a highlight theme`

func runRender(cmd *cobra.Command, file string, flags *renderFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	settings, workDir, err := resolveSettings(ctx, cmd)
	if err != nil {
		return err
	}

	// CLI flags override file and environment configuration.
	if cmd.Flags().Changed("breaks") {
		settings.Breaks = flags.breaks
	}
	if cmd.Flags().Changed("linkify") {
		settings.Linkify = flags.linkify
	}
	if flags.theme != "" {
		settings.Theme = flags.theme
	}

	workspace := flags.workspace
	if workspace == "" {
		workspace = workDir
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", file, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	eng := engine.New(
		engine.WithConfigProvider(engine.StaticConfig{Value: settings}),
		engine.WithWorkspaceRoot(workspace),
		engine.WithLogger(logger),
	)

	doc := engine.TextDocument{DocURI: absPath, DocVersion: 1, Content: string(data)}
	body, err := eng.Render(ctx, doc)
	if err != nil {
		return fmt.Errorf("render %s: %w", file, err)
	}

	out := body
	if flags.standalone {
		out = wrapPage(pageTitle(string(data), absPath), body)
	}

	if flags.output != "" {
		changed, err := fsutil.WriteAtomicIfChanged(ctx, flags.output, []byte(out), 0)
		if err != nil {
			return fmt.Errorf("write %s: %w", flags.output, err)
		}
		logger.Debug("wrote output",
			logging.FieldOutput, flags.output,
			logging.FieldBytesOut, len(out),
			"changed", changed)
		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// resolveSettings loads the configuration hierarchy for the current working
// directory, honoring the root command's --config flag.
func resolveSettings(ctx context.Context, cmd *cobra.Command) (engine.Settings, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return engine.Settings{}, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return engine.Settings{}, "", fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return engine.Settings{}, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if len(result.LoadedFrom) > 0 {
		logging.FromContext(ctx).Debug("loaded configuration from", "files", result.LoadedFrom)
	}
	return result.Settings, workDir, nil
}

// pageTitle picks the standalone page title: the front matter title when
// present, otherwise the file name.
func pageTitle(text, path string) string {
	matter, _, _ := frontmatter.Split(text)
	if matter != "" {
		if meta, err := frontmatter.Decode(matter); err == nil {
			if title, ok := frontmatter.Title(meta); ok {
				return title
			}
		}
	}
	return filepath.Base(path)
}

func wrapPage(title, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + html.EscapeString(title) + `</title>
</head>
<body>
` + body + `</body>
</html>
`
}
