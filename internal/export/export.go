// Package export renders generated menus into shareable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatHTML}

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name or a common alias ("yml", "md").
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for f, without the dot.
func Extension(f Format) string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Key is the object key an exported menu is stored under.
func Key(id string, f Format) string {
	return fmt.Sprintf("menus/%s.%s", id, Extension(f))
}

// Render encodes m in format f.
func Render(m domain.GeneratedMenu, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatCSV:
		return renderCSV(m)
	case FormatMarkdown:
		return []byte(Markdown(m)), nil
	case FormatHTML:
		return renderHTML(m)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

var csvHeader = []string{"section", "description", "distance", "sets", "circle", "equipment", "notes", "time"}

func renderCSV(m domain.GeneratedMenu) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, s := range m.Sections {
		for _, it := range s.Items {
			row := []string{
				s.Name, it.Description, it.Distance, strconv.Itoa(it.Sets),
				it.Circle, it.Equipment, it.Notes, strconv.Itoa(it.Time),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown renders m as a heading per section and a table of items.
func Markdown(m domain.GeneratedMenu) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	fmt.Fprintf(&b, "**Total time:** %d min", m.TotalTime)
	if m.Intensity != "" {
		fmt.Fprintf(&b, " · **Intensity:** %s", m.Intensity)
	}
	b.WriteString("\n")
	if len(m.TargetSkills) > 0 {
		fmt.Fprintf(&b, "\n**Skills:** %s\n", strings.Join(m.TargetSkills, ", "))
	}

	for _, s := range m.Sections {
		fmt.Fprintf(&b, "\n## %s (%d min)\n\n", s.Name, s.TotalTime)
		b.WriteString("| Description | Distance | Sets | Circle | Equipment | Notes | Time |\n")
		b.WriteString("|---|---:|---:|---|---|---|---:|\n")
		for _, it := range s.Items {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %d |\n",
				cell(it.Description), cell(it.Distance), it.Sets, cell(it.Circle),
				cell(it.Equipment), cell(it.Notes), it.Time)
		}
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

func renderHTML(m domain.GeneratedMenu) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(m)), &body); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return []byte(fmt.Sprintf(htmlPage, html.EscapeString(m.Title), body.String())), nil
}
