package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudragonfly/mdview/internal/logging"
	"github.com/wudragonfly/mdview/internal/ui/pretty"
	"github.com/wudragonfly/mdview/pkg/engine"
	"github.com/wudragonfly/mdview/pkg/mdtoken"
	"github.com/wudragonfly/mdview/pkg/slug"
)

func newOutlineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "outline <file>",
		Aliases: []string{"parse"},
		Short:   "Print the heading outline of a Markdown file",
		Long: `Print the heading outline of a Markdown file.

Each heading is shown with its generated anchor and source line, indented by
level. Anchors match the ids the render command emits, so they can be used
directly as fragment links.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutline(cmd, args[0])
		},
	}

	return cmd
}

func runOutline(cmd *cobra.Command, file string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", file, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	eng := engine.New(engine.WithLogger(logging.FromContext(ctx)))
	doc := engine.TextDocument{DocURI: absPath, DocVersion: 1, Content: string(data)}

	tokens, lineOffset, err := eng.Parse(ctx, doc)
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	entries := outlineEntries(tokens, lineOffset)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("get color flag: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	_, err = fmt.Fprint(out, styles.FormatOutline(file, entries, pretty.Width(out)))
	return err
}

// outlineEntries flattens the heading tokens into outline rows, allocating
// anchors with the same strategy the renderer uses.
func outlineEntries(tokens []*mdtoken.Token, lineOffset int) []pretty.OutlineEntry {
	opens, inlines := mdtoken.Headings(tokens)
	slugs := slug.NewUniqueSet(nil)

	entries := make([]pretty.OutlineEntry, 0, len(opens))
	for i, open := range opens {
		var text string
		if inlines[i] != nil {
			text = mdtoken.FlattenText(inlines[i].Children)
		}
		line := 0
		if open.Map != nil {
			line = lineOffset + open.Map.Start
		}
		entries = append(entries, pretty.OutlineEntry{
			Level:  headingLevel(open.Tag),
			Text:   text,
			Anchor: slugs.FromHeading(text),
			Line:   line,
		})
	}
	return entries
}

// headingLevel extracts the numeric level from a heading tag like "h2".
func headingLevel(tag string) int {
	digits := strings.TrimPrefix(tag, "h")
	switch digits {
	case "1", "2", "3", "4", "5", "6":
		return int(digits[0] - '0')
	default:
		return 1
	}
}
