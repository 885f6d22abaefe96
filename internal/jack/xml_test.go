package jack_test

import (
	"strings"
	"testing"

	"n2tc.dev/toolchain/internal/jack"
)

func analyze(t *testing.T, src string) string {
	t.Helper()
	tokens, err := jack.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("unexpected tokenizer error: %s", err)
	}
	analyzer := jack.NewAnalyzer(tokens)
	xml, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("unexpected analyzer error: %s", err)
	}
	return xml
}

func TestAnalyzeMinimalClassProductionTags(t *testing.T) {
	xml := analyze(t, `class Main { }`)

	for _, tag := range []string{"<class>", "</class>", "<keyword> class </keyword>", "<identifier> Main </identifier>"} {
		if !strings.Contains(xml, tag) {
			t.Fatalf("expected xml to contain %q, got:\n%s", tag, xml)
		}
	}
}

func TestAnalyzeEmptyParameterListStillEmitsTag(t *testing.T) {
	xml := analyze(t, `
		class Main {
			function void main() {
				return;
			}
		}
	`)

	if !strings.Contains(xml, "<parameterList>\n") {
		t.Fatalf("expected an empty '<parameterList>' tag, got:\n%s", xml)
	}
}

func TestAnalyzeReturnWithoutExpressionHasNoExpressionChild(t *testing.T) {
	xml := analyze(t, `
		class Main {
			function void main() {
				return;
			}
		}
	`)

	if strings.Contains(xml, "<expression>") {
		t.Fatalf("expected no '<expression>' inside a bare 'return;', got:\n%s", xml)
	}
}

func TestAnalyzeSubroutineCallIsNotWrappedInItsOwnTag(t *testing.T) {
	xml := analyze(t, `
		class Main {
			function void main() {
				do Output.println();
				return;
			}
		}
	`)

	if strings.Contains(xml, "<subroutineCall>") {
		t.Fatalf("a subroutineCall must not be wrapped in its own tag, got:\n%s", xml)
	}
	if !strings.Contains(xml, "<doStatement>") {
		t.Fatalf("expected a '<doStatement>' tag, got:\n%s", xml)
	}
}

func TestAnalyzeEscapesReservedXMLCharacters(t *testing.T) {
	xml := analyze(t, `
		class Main {
			function void main() {
				if (1 < 2) {
					let x = 1 & 2;
				}
				return;
			}
		}
	`)

	for _, want := range []string{"&lt;", "&amp;"} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected xml to contain %q, got:\n%s", want, xml)
		}
	}
	if strings.Contains(xml, "< 2") || strings.Contains(xml, "1 &") {
		t.Fatalf("raw '<' or '&' leaked unescaped into token text, got:\n%s", xml)
	}
}

func TestAnalyzeNestedExpressionTermProductions(t *testing.T) {
	xml := analyze(t, `
		class Main {
			function void main() {
				let x = 1 + 2;
				return;
			}
		}
	`)

	// The flat grammar folds 'term (op term)*' into literal nested tags, not a collapsed tree.
	if strings.Count(xml, "<term>") != 2 {
		t.Fatalf("expected exactly 2 '<term>' productions for '1 + 2', got:\n%s", xml)
	}
	if strings.Count(xml, "<expression>") != 1 {
		t.Fatalf("expected exactly 1 '<expression>' production for a flat binary expression, got:\n%s", xml)
	}
}

func TestAnalyzeUnterminatedClassIsAnError(t *testing.T) {
	tokens, err := jack.Tokenize([]byte(`class Main {`))
	if err != nil {
		t.Fatalf("unexpected tokenizer error: %s", err)
	}
	analyzer := jack.NewAnalyzer(tokens)
	if _, err := analyzer.Analyze(); err == nil {
		t.Fatal("expected an error for an unclosed class body")
	}
}
