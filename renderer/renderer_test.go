package renderer

import (
	"embed"
	"encoding/json"
	"flag"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/statement"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata/*.json
var testcasesFS embed.FS

//go:embed testdata/*.md
var testcasesGoldenFS embed.FS

var fixGoldens = flag.Bool("fix-goldens", false, "if true, update failing golden .md files with the received output")

func TestFixGoldensIsOff(t *testing.T) {
	if *fixGoldens {
		t.Fatal("-fix-goldens is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

func TestReportRendering(t *testing.T) {
	testCases := []struct {
		name       string
		structFile string
		goldenFile string
		renderFunc func(r *statement.Result) string
	}{
		{"statement", "testdata/statement.json", "testdata/statement.md", ResultMarkdown},
		{"statement_trades", "testdata/statement.json", "testdata/statement_trades.md", TradesMarkdown},
		{"empty", "testdata/empty.json", "testdata/empty.md", ResultMarkdown},
		{"empty_trades", "testdata/empty.json", "testdata/empty_trades.md", TradesMarkdown},
	}

	// --- Orphan Check ---
	used := make(map[string]struct{})
	for _, tc := range testCases {
		used[tc.structFile] = struct{}{}
		used[tc.goldenFile] = struct{}{}
	}
	files, _ := fs.Glob(testcasesFS, "testdata/*.json")
	goldens, _ := fs.Glob(testcasesGoldenFS, "testdata/*.md")
	for _, f := range append(files, goldens...) {
		if _, ok := used[f]; !ok {
			t.Errorf("unused test file found: %s. Please remove it or add a test case.", f)
		}
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jsonData, err := testcasesFS.ReadFile(tc.structFile)
			if err != nil {
				t.Fatalf("failed to read struct file %q: %v", tc.structFile, err)
			}
			var r statement.Result
			if err := json.Unmarshal(jsonData, &r); err != nil {
				t.Fatalf("failed to unmarshal struct data from %q: %v", tc.structFile, err)
			}

			got := tc.renderFunc(&r)

			goldenData, err := fs.ReadFile(testcasesGoldenFS, tc.goldenFile)
			if err != nil {
				if os.IsNotExist(err) && *fixGoldens {
					// Do not use got, otherwise the golden never gets written.
					goldenData = []byte{}
				} else {
					t.Fatalf("failed to read golden file %q: %v", tc.goldenFile, err)
				}
			}
			want := string(goldenData)

			if got != want {
				if *fixGoldens {
					if err := os.MkdirAll(filepath.Dir(tc.goldenFile), 0755); err != nil {
						t.Fatalf("failed to create testdata directory: %v", err)
					}
					if err := os.WriteFile(tc.goldenFile, []byte(got), 0644); err != nil {
						t.Fatalf("failed to write updated golden file %q: %v", tc.goldenFile, err)
					}
					t.Logf("updated golden file %s", tc.goldenFile)
				} else {
					t.Errorf("output mismatch for %s (-want +got):\n%s", tc.name, cmp.Diff(want, got))
				}
			}
		})
	}
}

func TestResultMarkdown_Parsed(t *testing.T) {
	r, err := statement.ParseCSV("ticker,qty,entry,exit\nAAPL,100,150,155\nA|B,1,2,\n")
	if err != nil {
		t.Fatal(err)
	}
	got := ResultMarkdown(r)
	for _, want := range []string{
		"# Statement Report: csv",
		"| AAPL | stock | long | 100 | $150.00 | $155.00 | +$500.00 | +3.33% |",
		// pipes in names do not split the row.
		`| A\|B |`,
		"- A|B: missing exitPrice, openedAt, closedAt",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown does not contain %q:\n%s", want, got)
		}
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML("# Title\n\n| A | B |\n|:---|---:|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<table>", "text-align:right"} {
		if !strings.Contains(got, want) {
			t.Errorf("html does not contain %q:\n%s", want, got)
		}
	}
}

func TestConditionalBlock(t *testing.T) {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		io.WriteString(w, "dropped")
		return false
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		io.WriteString(w, "kept")
		return true
	})
	if got := b.String(); got != "kept" {
		t.Errorf("ConditionalBlock() wrote %q, want %q", got, "kept")
	}
}
