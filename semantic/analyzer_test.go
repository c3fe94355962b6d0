package semantic

import (
	"testing"

	"osfl/ast"
	"osfl/lexer"
	"osfl/parser"
)

func parseSource(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	lex := lexer.New(src, lexer.DefaultConfig("test.osfl"))
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, errs := parser.Make(tokens).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return stmts
}

func TestAnalyzeUndefinedName(t *testing.T) {
	stmts := parseSource(t, `
frame Main {
    func run() {
        return missing;
    }
}
`)

	errs := NewAnalyzer().Analyze(stmts)
	if len(errs) == 0 {
		t.Fatalf("expected an undefined-name diagnostic, got none")
	}
}

func TestAnalyzeRedeclaration(t *testing.T) {
	stmts := parseSource(t, `
frame Main {
    var x = 1;
    var x = 2;
}
`)

	errs := NewAnalyzer().Analyze(stmts)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 redeclaration diagnostic, got %d: %v", len(errs), errs)
	}
}

func TestAnalyzeConstAssignment(t *testing.T) {
	stmts := parseSource(t, `
frame Main {
    const x = 1;
    func run() {
        x = 2;
    }
}
`)

	errs := NewAnalyzer().Analyze(stmts)
	found := false
	for _, e := range errs {
		if e.Message == "cannot assign to const 'x'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a const-assignment diagnostic, got: %v", errs)
	}
}

func TestAnalyzeCleanProgramHasNoErrors(t *testing.T) {
	stmts := parseSource(t, `
frame Main {
    func add(a, b) {
        return a + b;
    }
    var result = add(1, 2);
}
`)

	errs := NewAnalyzer().Analyze(stmts)
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", errs)
	}
}

func TestErrorCountNonFatal(t *testing.T) {
	stmts := parseSource(t, `
frame Main {
    var a = undefined_one;
    var b = undefined_two;
}
`)

	analyzer := NewAnalyzer()
	analyzer.Analyze(stmts)
	if analyzer.ErrorCount() != 2 {
		t.Fatalf("expected 2 diagnostics counted, got %d", analyzer.ErrorCount())
	}
}
