package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"

	"github.com/TPShipilova/infopoisk"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CORPUS LOADING
// ═══════════════════════════════════════════════════════════════════════════════
// OpenCorpus reads a corpus from disk in one of two shapes:
//
//   - a single JSON file holding an array of corpusDoc records, or
//   - a TOML manifest naming one or more JSON shard files, concatenated in
//     the order listed.
//
// Content fields that look like Markdown are rendered to plain text with
// goldmark before the document reaches the core tokenizer, which only knows
// how to deal with ASCII prose (see tokenizer.go's ASCII word-scanner).
// ═══════════════════════════════════════════════════════════════════════════════

// corpusDoc is the on-disk JSON shape of one document.
type corpusDoc struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Source   string `json:"source"`
	Markdown bool   `json:"markdown"`
}

// corpusManifest is the TOML manifest shape: a list of JSON shard paths,
// resolved relative to the manifest's own directory.
type corpusManifest struct {
	Shards []string `toml:"shards"`
}

// OpenCorpus loads every document named by path and returns a loader ready
// for Builder.Build. path is either a JSON array of documents or a TOML
// manifest pointing at one or more such JSON shards.
func OpenCorpus(path string) (infopoisk.DocumentLoader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var shardPaths []string
	if looksLikeTOMLManifest(path, raw) {
		var manifest corpusManifest
		if err := toml.Unmarshal(raw, &manifest); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
		dir := filepath.Dir(path)
		for _, shard := range manifest.Shards {
			shardPaths = append(shardPaths, filepath.Join(dir, shard))
		}
	} else {
		shardPaths = []string{path}
	}

	var docs []infopoisk.Document
	for _, shardPath := range shardPaths {
		shardDocs, err := loadShard(shardPath)
		if err != nil {
			return nil, fmt.Errorf("loading shard %s: %w", shardPath, err)
		}
		docs = append(docs, shardDocs...)
	}

	return infopoisk.NewSliceLoader(docs), nil
}

// looksLikeTOMLManifest distinguishes a TOML manifest from a JSON shard by
// extension first, falling back to a cheap content sniff (a JSON shard's
// first non-whitespace byte is always '[').
func looksLikeTOMLManifest(path string, raw []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) == 0 || trimmed[0] != '['
}

// loadShard reads one JSON shard (an array of corpusDoc) and converts each
// entry to a core Document, rendering Markdown content to plain text first.
func loadShard(path string) ([]infopoisk.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []corpusDoc
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	docs := make([]infopoisk.Document, 0, len(entries))
	for _, e := range entries {
		content := e.Content
		if e.Markdown || looksLikeMarkdown(content) {
			plain, err := renderMarkdownToText(content)
			if err != nil {
				return nil, fmt.Errorf("rendering markdown for %q: %w", e.ID, err)
			}
			content = plain
		}

		docs = append(docs, infopoisk.Document{
			ID:      e.ID,
			URL:     e.URL,
			Title:   e.Title,
			Content: content,
			Source:  e.Source,
		})
	}

	return docs, nil
}

// looksLikeMarkdown sniffs the first non-blank line of content for the usual
// Markdown openers: a heading, a list bullet, or a fenced code block.
func looksLikeMarkdown(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "*") ||
			strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "```")
	}
	return false
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// renderMarkdownToText converts Markdown source to HTML via goldmark, then
// strips tags down to plain text — the tokenizer only ever sees prose, never
// markup, regardless of how the corpus stored it.
func renderMarkdownToText(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return htmlTagPattern.ReplaceAllString(buf.String(), " "), nil
}
