package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rono-lang/rono/internal/builtin"
	"github.com/rono-lang/rono/internal/module"
)

// run resolves and executes src as a standalone root module, returning
// whatever con.out wrote to stdout.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rono")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	globals, resolveErr := module.NewLoader(nil).Load(path)
	require.Nil(t, resolveErr, "resolve error: %v", resolveErr)

	var out bytes.Buffer
	registry := builtin.New(&out, strings.NewReader(""), time.Second)
	if runErr := Run(globals, registry, path); runErr != nil {
		return out.String(), runErr
	}
	return out.String(), nil
}

// runWithSibling additionally writes a sibling util.rono file before
// resolving main.rono, for import-alias scenarios.
func runWithSibling(t *testing.T, mainSrc, utilSrc string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.rono"), []byte(utilSrc), 0o644))
	path := filepath.Join(dir, "main.rono")
	require.NoError(t, os.WriteFile(path, []byte(mainSrc), 0o644))

	globals, resolveErr := module.NewLoader(nil).Load(path)
	require.Nil(t, resolveErr, "resolve error: %v", resolveErr)

	var out bytes.Buffer
	registry := builtin.New(&out, strings.NewReader(""), time.Second)
	if runErr := Run(globals, registry, path); runErr != nil {
		return out.String(), runErr
	}
	return out.String(), nil
}

func TestScenarioHelloWorld(t *testing.T) {
	out, err := run(t, `chif main() { con.out("hello, world"); }`)
	require.NoError(t, err)
	assert.Equal(t, "hello, world\n", out)
}

func TestScenarioStructAndMethodMutation(t *testing.T) {
	out, err := run(t, `
		struct Counter { n: int }
		fn_for Counter {
			fn inc(self) { self.n = self.n + 1; }
		}
		chif main() {
			var c: Counter = Counter { n = 0 };
			c.inc();
			c.inc();
			con.out("{c.n}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestScenarioListMutatingMethods(t *testing.T) {
	out, err := run(t, `
		chif main() {
			list xs: int[] = [1, 2, 3];
			xs.add(4);
			xs.del(0);
			con.out("{xs}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "[2, 3, 4]\n", out)
}

func TestScenarioUntypedListIdentity(t *testing.T) {
	out, err := run(t, `
		chif main() {
			list a = [1, 2, 3];
			list b = a;
			b.add(4);
			con.out("{a}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3, 4]\n", out)
}

func TestScenarioStringInterpolation(t *testing.T) {
	out, err := run(t, `
		chif main() {
			var name: str = "world";
			var n: int = 2 + 3;
			con.out("hello, {name}! sum={n}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "hello, world! sum=5\n", out)
}

func TestScenarioPointerSwap(t *testing.T) {
	out, err := run(t, `
		fn swap(a: pointer, b: pointer) {
			var t: int = *a;
			*a = *b;
			*b = t;
		}
		chif main() {
			var x: int = 1;
			var y: int = 2;
			swap(&x, &y);
			con.out("{x},{y}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "2,1\n", out)
}

func TestScenarioImportAliasNamespacedCall(t *testing.T) {
	out, err := runWithSibling(t, `
		import "util" as u;
		chif main() { con.out("{u.add(3,4)}"); }
	`, `fn add(a: int, b: int) int { ret a+b; }`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestForLoopStepSugarAccumulates(t *testing.T) {
	out, err := run(t, `
		chif main() {
			var total: int = 0;
			for (i = 0; i < 4; i + 1) {
				total = total + i;
			}
			con.out("{total}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	out, err := run(t, `
		chif main() {
			var i: int = 0;
			var total: int = 0;
			while (i < 10) {
				i = i + 1;
				if (i == 5) { break; }
				if (i % 2 == 0) { continue; }
				total = total + i;
			}
			con.out("{total}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestSwitchFallsToDefault(t *testing.T) {
	out, err := run(t, `
		chif main() {
			switch (3) {
				case 1 { con.out("one"); }
				case 2 { con.out("two"); }
				default { con.out("other"); }
			}
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "other\n", out)
}

func TestArrayOutOfRangeIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		chif main() {
			array xs: int[2] = [1, 2];
			con.out("{xs[5]}");
		}
	`)
	require.Error(t, err)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		chif main() {
			var x: int = 1 / 0;
			con.out("{x}");
		}
	`)
	require.Error(t, err)
}

func TestMapLiteralAndIndex(t *testing.T) {
	out, err := run(t, `
		chif main() {
			var m: map[str:int] = { "a": 1, "b": 2 };
			con.out("{m["a"] + m["b"]}");
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestFreeFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
		fn square(n: int) int { ret n * n; }
		chif main() { con.out("{square(6)}"); }
	`)
	require.NoError(t, err)
	assert.Equal(t, "36\n", out)
}

func TestImmutableAssignmentIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		chif main() {
			let x: int = 1;
			x = 2;
		}
	`)
	require.Error(t, err)
}
