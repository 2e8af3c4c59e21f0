// Package docs embeds the operator documentation shown by the teller
// "topic" subcommand, one markdown file per banking area (accounts,
// savings, investments, loans, bills, fraud).
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.md
var topicsFS embed.FS

// Topic returns the content of one documentation topic. The name "*"
// expands to every listed topic.
func Topic(name string) (string, error) {
	if name == "*" {
		names, err := List()
		if err != nil {
			return "", err
		}
		return Topics(names...)
	}
	content, err := topicsFS.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics concatenates the content of the named topics, expanding "*".
func Topics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// List returns the available topic names in alphabetical order. The readme
// is the landing page shown when no topic is asked for, so it is not listed.
func List() ([]string, error) {
	var names []string
	err := fs.WalkDir(topicsFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if name == "readme" {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
