package docs

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/statement"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	csvCheck      = "csv check"
	jsonpathCheck = "jsonpath check"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Statement formats", "# Tickers", "# Query", "# Ledger"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) does not contain %q", title)
		}
	}
	if strings.Contains(all, "# stmt") {
		t.Error("GetTopics(*) contains the readme")
	}
	if _, err := GetTopics("formats", "nope"); err == nil {
		t.Error("GetTopics() of an unknown topic expected an error")
	}
}

func TestCodeBlocks(t *testing.T) {
	sample, err := statement.ParseCSV("ticker,qty,entry,exit\nAAPL,100,150,155\nMSFT,50,300,\n")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(sample)
	var jobj any
	if err := json.Unmarshal(b, &jobj); err != nil {
		t.Fatal(err)
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		for _, block := range parseMarkdown(t, file) {
			switch block.Type {
			case csvCheck:
				r, err := statement.ParseCSV(block.Content)
				if err != nil {
					t.Errorf("%s:%d: %v", block.File, block.Line, err)
				} else if len(r.Trades) == 0 {
					t.Errorf("%s:%d: example has no trades", block.File, block.Line)
				}
			case jsonpathCheck:
				if _, err := jsonpath.Get(strings.TrimSpace(block.Content), jobj); err != nil {
					t.Errorf("%s:%d: %v", block.File, block.Line, err)
				}
			}
		}
	}
}

func TestLinks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		root := goldmark.DefaultParser().Parse(text.NewReader(content))
		ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if link, ok := n.(*ast.Link); ok && entering {
				topic := strings.TrimSuffix(string(link.Destination), ".md")
				if _, err := GetTopic(topic); err != nil {
					t.Errorf("%s: broken link %q", file, link.Destination)
				}
			}
			return ast.WalkContinue, nil
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// parseMarkdown returns the checked code blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		if lang != csvCheck && lang != jsonpathCheck {
			return ast.WalkContinue, nil
		}
		var blockContent strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			blockContent.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: blockContent.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// lineNumber computes the line number of an AST offset.
// the markdown parser we use does not support that feature.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
