package jsengine

import (
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	engine := New()

	tests := []struct {
		name     string
		script   string
		expected interface{}
	}{
		{"simple number", "1 + 2", int64(3)},
		{"string concat", "'hello' + ' ' + 'world'", "hello world"},
		{"boolean", "true && false", false},
		{"null coalescing", "null ?? 'default'", "default"},
		{"object property", "({name: 'test'}).name", "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Eval(tt.script)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %v (%T), got %v (%T)", tt.expected, tt.expected, result, result)
			}
		})
	}
}

func TestEval_SyntaxError(t *testing.T) {
	if _, err := New().Eval("1 +"); err == nil {
		t.Error("expected syntax error")
	}
}

func TestSetVariable(t *testing.T) {
	engine := New()
	engine.SetVariable("count", 42)
	engine.SetVariables(map[string]string{"USER": "alice"})

	got, err := engine.EvalString("USER + ':' + (count + 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "alice:43" {
		t.Errorf("got %q, want alice:43", got)
	}

	v, ok := engine.Variable("USER")
	if !ok || v != "alice" {
		t.Errorf("Variable(USER) = %v, %v", v, ok)
	}
	if _, ok := engine.Variable("missing"); ok {
		t.Error("missing variable reported as set")
	}
}

func TestEvalString_NullIsEmpty(t *testing.T) {
	got, err := New().EvalString("null")
	if err != nil || got != "" {
		t.Errorf("EvalString(null) = %q, %v", got, err)
	}
}

func TestExpandVariables(t *testing.T) {
	engine := New()
	engine.SetVariables(map[string]string{"USER": "alice", "HOST": "example.test"})

	tests := []struct {
		in   string
		want string
	}{
		{"no expressions", "no expressions"},
		{"${USER}", "alice"},
		{"https://${HOST}/u/${USER}", "https://example.test/u/alice"},
		{"${USER.toUpperCase()}!", "ALICE!"},
		{"${ ({a: 'x'}).a }", "x"},
		{"${json({n: 1})}", `{"n":1}`},
		{"open ${USER", "open ${USER"},
		{"$USER stays", "$USER stays"},
	}
	for _, tt := range tests {
		got, err := engine.ExpandVariables(tt.in)
		if err != nil {
			t.Errorf("ExpandVariables(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandVariables(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandVariables_UndefinedIsError(t *testing.T) {
	got, err := New().ExpandVariables("hi ${NOPE}")
	if err == nil {
		t.Fatal("expected error for undefined variable")
	}
	if !strings.Contains(err.Error(), "NOPE") {
		t.Errorf("error should name the expression: %v", err)
	}
	if got != "hi ${NOPE}" {
		t.Errorf("text should be returned unchanged, got %q", got)
	}
}

func TestConsoleLogDoesNotPanic(t *testing.T) {
	if _, err := New().Eval("console.log('a', 1); console.error('b')"); err != nil {
		t.Errorf("console error: %v", err)
	}
}
