package parser

import "testing"

func mustParse(t *testing.T, src string) {
	t.Helper()
	_, errs := ParseProgram("t.script", src)
	for _, e := range errs {
		t.Errorf("parse error: %v", e)
	}
}

func TestParseVarAndFunction(t *testing.T) {
	mustParse(t, `
		var x = 1;
		const y = 2;
		function add(a, b) { return a + b; }
		var z = add(x, y);
	`)
}

func TestParseClass(t *testing.T) {
	mustParse(t, `
		class Point {
			private var x = 0;
			private var y = 0;
			function(px, py) { this.x = px; this.y = py; }
			function length() { return this.x * this.x + this.y * this.y; }
		}
		var p = new Point(3, 4);
	`)
}

func TestParseControlFlow(t *testing.T) {
	mustParse(t, `
		for (var i = 0; i < 10; i++) {
			if (i % 2 == 0) { continue; } else { break; }
		}
		var arr = [1, 2, 3];
		for (x in arr) { }
	`)
}

func TestParseTryCatchFinally(t *testing.T) {
	mustParse(t, `
		try {
			throw "boom";
		} catch (e) {
			var m = e.message;
		} finally {
			var done = true;
		}
	`)
}

func TestParseTernaryAndLogical(t *testing.T) {
	mustParse(t, `var x = (1 < 2 && 3 > 2) ? "yes" : "no";`)
}

func TestParseFunctionLiteralAndNew(t *testing.T) {
	mustParse(t, `
		var f = function(x) { return x * 2; };
		var arr = new [10];
		var obj = new Sys.StringBuffer();
	`)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, errs := ParseProgram("t.script", `var x = ;`)
	if len(errs) == 0 {
		t.Fatalf("expected a parse error")
	}
}
