package docs

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/krd"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that every topic listed in readme.md exists, and that every topic
// is listed in readme.md.
func TestTopics(t *testing.T) {
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatalf("failed to read readme: %v", err)
	}

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(strings.NewReader(readme))
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("listed topic %q cannot be loaded: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		found := false
		for _, l := range listed {
			found = found || l == topic
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	everything, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) unexpected error: %v", err)
	}
	if strings.Count(everything, "\n# ") != len(all)-1 {
		t.Errorf("GetTopics(*) does not contain all %d topics", len(all))
	}

	if _, err := GetTopic("nope"); err == nil {
		t.Errorf("GetTopic(nope) expected an error")
	}
}

// TestBondsExamples decodes every "json bonds" code block of the manual.
func TestBondsExamples(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	found := 0
	for _, topic := range topics {
		content, _ := GetTopic(topic)
		source := []byte(content)
		root := goldmark.DefaultParser().Parse(text.NewReader(source))

		ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			fcb, ok := n.(*ast.FencedCodeBlock)
			if !entering || !ok || fcb.Info == nil || string(fcb.Info.Segment.Value(source)) != "json bonds" {
				return ast.WalkContinue, nil
			}
			found++
			var block bytes.Buffer
			for i := 0; i < fcb.Lines().Len(); i++ {
				line := fcb.Lines().At(i)
				block.Write(line.Value(source))
			}
			if _, err := krd.DecodeBook(&block); err != nil {
				t.Errorf("topic %q: invalid bonds example: %v", topic, err)
			}
			return ast.WalkContinue, nil
		})
	}
	if found == 0 {
		t.Errorf("no bonds example found in the manual")
	}
}
