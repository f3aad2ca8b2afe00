// Package builtin implements Rono's host-provided built-in library
// (spec.md §6 "Built-in library"): console I/O, randomness, and
// blocking HTTP verbs, resolved by the interpreter before it consults
// any user namespace.
package builtin

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rono-lang/rono/internal/object"
)

// Registry holds every built-in callable, keyed by its qualified or
// bare name (`con.out`, `randi`, `http.get`, ...).
type Registry struct {
	entries map[string]*object.BuiltinFn
}

// New builds the standard registry. stdout/stdin back con.out/con.in;
// httpTimeout bounds every http.* call (internal/config's
// httpTimeoutSeconds, defaulting to 30s per spec.md §5).
func New(stdout io.Writer, stdin io.Reader, httpTimeout time.Duration) *Registry {
	r := &Registry{entries: make(map[string]*object.BuiltinFn)}
	reader := bufio.NewReader(stdin)
	client := &http.Client{Timeout: httpTimeout}

	r.register("con.out", 1, conOut(stdout))
	r.register("con.in", 1, conIn(reader))
	r.register("randi", 2, randi)
	r.register("randf", 2, randf)
	r.register("rands", 2, rands)
	r.register("http.get", 1, httpVerb(client, http.MethodGet))
	r.register("http.post", 2, httpVerbWithBody(client, http.MethodPost))
	r.register("http.put", 2, httpVerbWithBody(client, http.MethodPut))
	r.register("http.delete", 1, httpVerb(client, http.MethodDelete))
	return r
}

func (r *Registry) register(name string, arity int, impl func([]object.Value) (object.Value, error)) {
	r.entries[name] = &object.BuiltinFn{Name: name, Arity: arity, Impl: impl}
}

// Lookup resolves a qualified or bare built-in name.
func (r *Registry) Lookup(name string) (*object.BuiltinFn, bool) {
	fn, ok := r.entries[name]
	return fn, ok
}

func conOut(w io.Writer) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		fmt.Fprintln(w, object.DebugString(args[0]))
		return object.Nil{}, nil
	}
}

// conIn reads one line from stdin and parses it per the Kind already
// held by the referenced slot (spec.md §6 "parse according to the
// referenced slot's declared type" — approximated here via the slot's
// current runtime Kind, since a Binding carries no separate static
// type; in practice a slot is declared and initialized with a value of
// its declared type before con.in targets it).
func conIn(r *bufio.Reader) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		ptr, ok := args[0].(*object.Pointer)
		if !ok {
			return nil, fmt.Errorf("con.in expects a pointer argument, got %s", args[0].Kind())
		}
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("con.in: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		current, loadErr := ptr.Loc.Load()
		if loadErr != nil {
			return nil, loadErr
		}

		var parsed object.Value
		switch current.(type) {
		case object.Int:
			v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("con.in: %q is not a valid int", line)
			}
			parsed = object.Int{V: v}
		case object.Float:
			v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if err != nil {
				return nil, fmt.Errorf("con.in: %q is not a valid float", line)
			}
			parsed = object.Float{V: v}
		case object.Bool:
			v, err := strconv.ParseBool(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf("con.in: %q is not a valid bool", line)
			}
			parsed = object.Bool{V: v}
		default:
			parsed = object.Str{V: line}
		}

		if err := ptr.Loc.Store(parsed); err != nil {
			return nil, err
		}
		return object.Nil{}, nil
	}
}

func asInt(v object.Value) (int64, error) {
	n, ok := v.(object.Int)
	if !ok {
		return 0, fmt.Errorf("expected int, got %s", v.Kind())
	}
	return n.V, nil
}

func asFloat(v object.Value) (float64, error) {
	n, ok := v.(object.Float)
	if !ok {
		return 0, fmt.Errorf("expected float, got %s", v.Kind())
	}
	return n.V, nil
}

func asStr(v object.Value) (string, error) {
	s, ok := v.(object.Str)
	if !ok {
		return "", fmt.Errorf("expected str, got %s", v.Kind())
	}
	return s.V, nil
}

// randi returns a uniform integer in [min, max], swapping arguments if
// given in reverse order (spec.md §6).
func randi(args []object.Value) (object.Value, error) {
	lo, err := asInt(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := asInt(args[1])
	if err != nil {
		return nil, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	span := hi - lo + 1
	return object.Int{V: lo + rand.Int64N(span)}, nil
}

// randf returns a uniform float in [min, max).
func randf(args []object.Value) (object.Value, error) {
	lo, err := asFloat(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := asFloat(args[1])
	if err != nil {
		return nil, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return object.Float{V: lo + rand.Float64()*(hi-lo)}, nil
}

// rands returns a single-character string uniformly drawn from the
// inclusive ASCII range of lo's and hi's first characters.
func rands(args []object.Value) (object.Value, error) {
	lo, err := asStr(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := asStr(args[1])
	if err != nil {
		return nil, err
	}
	if len(lo) == 0 || len(hi) == 0 {
		return nil, fmt.Errorf("rands expects non-empty strings")
	}
	a, b := lo[0], hi[0]
	if a > b {
		a, b = b, a
	}
	c := a + byte(rand.IntN(int(b-a)+1))
	return object.Str{V: string(c)}, nil
}

func httpVerb(client *http.Client, method string) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		url, err := asStr(args[0])
		if err != nil {
			return nil, err
		}
		return doRequest(client, method, url, nil)
	}
}

func httpVerbWithBody(client *http.Client, method string) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		url, err := asStr(args[0])
		if err != nil {
			return nil, err
		}
		body, err := asStr(args[1])
		if err != nil {
			return nil, err
		}
		return doRequest(client, method, url, strings.NewReader(body))
	}
}

// doRequest returns the response body on HTTP success, or Nil on any
// transport failure — spec.md §6 deliberately does not surface
// transport errors as runtime diagnostics, to keep network flakiness
// from being indistinguishable from a language-level bug.
func doRequest(client *http.Client, method, url string, body io.Reader) (object.Value, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return object.Nil{}, nil
	}
	resp, err := client.Do(req)
	if err != nil {
		return object.Nil{}, nil
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return object.Nil{}, nil
	}
	if resp.StatusCode >= 400 {
		return object.Nil{}, nil
	}
	return object.Str{V: string(data)}, nil
}
