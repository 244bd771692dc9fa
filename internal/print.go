package internal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/tuck/meta"
)

const (
	tabWidth = 8
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	labelStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	textStyle    = color.New(color.FgGreen)
	spanStyle    = color.New(color.Faint)
)

// FormatForest renders a forest one node per line, children indented under
// their parent:
//
//	oper,expr [0:5] "1 + 2"
//	  int [0:1] "1"
func FormatForest(forest []*meta.Node) string {
	var builder strings.Builder
	for _, n := range forest {
		formatNode(&builder, n, 0)
	}
	return builder.String()
}

func formatNode(builder *strings.Builder, n *meta.Node, depth int) {
	span := n.Span()
	builder.WriteString(strings.Repeat("  ", depth))
	builder.WriteString(labelStyle.Sprint(n.Labels.String()))
	builder.WriteString(spanStyle.Sprintf(" [%d:%d] ", span.Start, span.End))
	builder.WriteString(textStyle.Sprintf("%q", n.Content()))
	builder.WriteString("\n")
	for _, c := range n.Children() {
		formatNode(builder, c, depth+1)
	}
}

// FormatResult renders the forest of one file under a header naming it.
func FormatResult(res Result) string {
	return lineStyle.Sprint("--> ") + fileStyle.Sprint(res.Filename) + "\n" + FormatForest(res.Forest)
}

// FormatCompileError points at the grammar line a compilation failure was
// reported on.
func FormatCompileError(filename, source string, cerr *meta.CompileError) string {
	var result strings.Builder
	result.WriteString(errorStyle.Sprint("error: ") + cerr.Msg + "\n")
	result.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:%d:%d", filename, cerr.Line, cerr.Col) + "\n")

	lines := strings.Split(source, "\n")
	if cerr.Line < 1 || cerr.Line > len(lines) {
		return result.String()
	}

	lineNumberStr := fmt.Sprintf("%d", cerr.Line)
	padding := strings.Repeat(" ", len(lineNumberStr)-1)
	result.WriteString(lineStyle.Sprintf("  %s|\n", padding))

	line := expandTabs(lines[cerr.Line-1])
	result.WriteString(lineStyle.Sprintf("%d | ", cerr.Line))
	result.WriteString(line + "\n")

	visualColumn := calculateVisualColumn(lines[cerr.Line-1], cerr.Col)
	result.WriteString(lineStyle.Sprintf("  %s| ", padding))
	result.WriteString(strings.Repeat(" ", visualColumn))
	result.WriteString(messageStyle.Sprintf("^ %s\n", cerr.Msg))

	return result.String()
}

func expandTabs(line string) string {
	var expanded strings.Builder
	visual := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (visual % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			visual += spaceCount
		} else {
			expanded.WriteRune(ch)
			visual++
		}
	}
	return expanded.String()
}

// calculateVisualColumn converts a 1-based byte column into the screen
// column of the expanded line.
func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
