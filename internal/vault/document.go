package vault

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// maxTitleRunes matches the note title limit.
const maxTitleRunes = 255

// Document holds the note fields derived from one markdown file.
type Document struct {
	Title   string
	Content string
	Tags    string
}

// Load reads a scanned file. The title is the first level-1 heading, or the
// file name when there is none. Folder components become comma-separated tags.
func Load(f ScannedFile) (Document, error) {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", f.RelPath, err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%s is not valid UTF-8", f.RelPath)
	}

	title := firstHeading(data)
	if title == "" {
		title = inferTitle(f.RelPath)
	}

	return Document{
		Title:   truncate(title, maxTitleRunes),
		Content: string(data),
		Tags:    folderTags(f.Folder),
	}, nil
}

// firstHeading returns the raw text of the first "# " heading.
func firstHeading(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := heading.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		title = strings.TrimSpace(buf.String())
		return ast.WalkStop, nil
	})
	return title
}

func inferTitle(rel string) string {
	base := filepath.Base(rel)
	if base == "." || base == "" {
		return "Note"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func folderTags(folder string) string {
	if folder == "" {
		return ""
	}
	return strings.Join(strings.Split(folder, "/"), ",")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
