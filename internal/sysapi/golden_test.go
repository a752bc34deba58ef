package sysapi

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/scriptlang/internal/eval"
	"github.com/cwbudde/scriptlang/internal/parser"
	"github.com/cwbudde/scriptlang/internal/runtime"
)

// runScriptCapturingOutput parses, binds, and runs source with sys.out
// wired to an in-memory buffer instead of os.Stdout, so a script's printed
// output can be asserted against directly — the same end-to-end path
// cmd/scriptlang drives, minus the process-level stdout.
func runScriptCapturingOutput(t *testing.T, source string) (string, *runtime.ExceptionValue) {
	t.Helper()

	var buf bytes.Buffer
	ns := buildSysNamespace(nil, false)
	ns.Constant("out", newTextOutputValue(&buf))
	globals := map[string]runtime.Value{"sys": ns.Build()}

	prog, perrs := parser.ParseProgram("<golden>", source)
	require.Empty(t, perrs, "unexpected parse errors")

	binder := eval.NewBinder(nil)
	bound, err := binder.BindWithGlobals(prog, globals)
	require.NoError(t, err)

	evaluator := eval.NewEvaluator(bound, 0)
	_, exc, runErr := evaluator.Run(prog)
	require.NoError(t, runErr)
	return buf.String(), exc
}

func TestGoldenClassesAndFields(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		class Point { private var x; private var y;
		  Point(ax, ay) { x=ax; y=ay; }
		  public function sum() { return x + y; } }
		sys.out.println(new Point(3,4).sum());
	`)
	require.Nil(t, exc)
	snaps.MatchSnapshot(t, "classes_and_fields", out)
}

func TestGoldenMutualRecursionAcrossDeclarationOrder(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		function even(n) { if (n==0) return true; return odd(n-1); }
		function odd(n) { if (n==0) return false; return even(n-1); }
		sys.out.println(even(10)); sys.out.println(odd(10));
	`)
	require.Nil(t, exc)
	snaps.MatchSnapshot(t, "mutual_recursion", out)
}

func TestGoldenExceptionPropagationWithFinally(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		try { try { throw "boom"; } finally { sys.out.println("inner"); } }
		catch (e) { sys.out.println(e); }
	`)
	require.Nil(t, exc, "the inner throw is caught by the outer catch, so no exception should escape to the top")
	snaps.MatchSnapshot(t, "exception_propagation_with_finally", out)
}

func TestGoldenForEachOverArrayWithBreak(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		var xs = [1,2,3,4,5]; var s = 0;
		for (v : xs) { if (v==4) break; s = s + v; }
		sys.out.println(s);
	`)
	require.Nil(t, exc)
	snaps.MatchSnapshot(t, "foreach_with_break", out)
}

func TestGoldenStringPromotionInPlus(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		sys.out.println("n=" + 42 + " ok=" + true);
	`)
	require.Nil(t, exc)
	snaps.MatchSnapshot(t, "string_promotion", out)
}

func TestGoldenUndefinedReadThrows(t *testing.T) {
	out, exc := runScriptCapturingOutput(t, `
		var a; sys.out.println(a);
	`)
	require.NotNil(t, exc, "reading an uninitialised variable slot as a value must raise a runtime error")
	require.Empty(t, out, "the println call never completes, so nothing should have been written")
}
