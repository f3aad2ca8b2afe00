package builtin

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rono-lang/rono/internal/environment"
	"github.com/rono-lang/rono/internal/object"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, ok := r.Lookup("con.out")
	require.True(t, ok)
	assert.Equal(t, 1, fn.Arity)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestConOutWritesDebugStringAndNewline(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("con.out")
	_, err := fn.Impl([]object.Value{object.Str{V: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", buf.String())
}

func ptrTo(env *environment.Environment, name string) *object.Pointer {
	return &object.Pointer{Loc: &environment.SlotBinding{Env: env, Name: name}}
}

func TestConInParsesAccordingToCurrentSlotKind(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader("42\n"), time.Second)
	env := environment.New(nil)
	env.Define("x", true, nil, object.Int{V: 0})

	fn, _ := r.Lookup("con.in")
	_, err := fn.Impl([]object.Value{ptrTo(env, "x")})
	require.NoError(t, err)
	v, _ := env.Get("x")
	assert.Equal(t, object.Int{V: 42}, v)
}

func TestConInRejectsNonPointerArgument(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader("42\n"), time.Second)
	fn, _ := r.Lookup("con.in")
	_, err := fn.Impl([]object.Value{object.Int{V: 1}})
	assert.Error(t, err)
}

func TestConInRejectsMismatchedInput(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader("not-a-number\n"), time.Second)
	env := environment.New(nil)
	env.Define("x", true, nil, object.Int{V: 0})
	fn, _ := r.Lookup("con.in")
	_, err := fn.Impl([]object.Value{ptrTo(env, "x")})
	assert.Error(t, err)
}

func TestRandiIsInRangeAndToleratesReversedArgs(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("randi")
	for i := 0; i < 50; i++ {
		v, err := fn.Impl([]object.Value{object.Int{V: 10}, object.Int{V: 1}})
		require.NoError(t, err)
		n := v.(object.Int).V
		assert.GreaterOrEqual(t, n, int64(1))
		assert.LessOrEqual(t, n, int64(10))
	}
}

func TestRandfIsInRange(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("randf")
	v, err := fn.Impl([]object.Value{object.Float{V: 0}, object.Float{V: 1}})
	require.NoError(t, err)
	f := v.(object.Float).V
	assert.GreaterOrEqual(t, f, 0.0)
	assert.Less(t, f, 1.0)
}

func TestRandsPicksWithinAsciiRange(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("rands")
	v, err := fn.Impl([]object.Value{object.Str{V: "a"}, object.Str{V: "a"}})
	require.NoError(t, err)
	assert.Equal(t, object.Str{V: "a"}, v)
}

func TestRandsRejectsEmptyString(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("rands")
	_, err := fn.Impl([]object.Value{object.Str{V: ""}, object.Str{V: "z"}})
	assert.Error(t, err)
}

func TestHttpGetReturnsBodyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("http.get")
	v, err := fn.Impl([]object.Value{object.Str{V: srv.URL}})
	require.NoError(t, err)
	assert.Equal(t, object.Str{V: "ok"}, v)
}

func TestHttpGetFoldsStatusErrorToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("http.get")
	v, err := fn.Impl([]object.Value{object.Str{V: srv.URL}})
	require.NoError(t, err)
	assert.Equal(t, object.Nil{}, v)
}

func TestHttpGetFoldsTransportFailureToNil(t *testing.T) {
	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("http.get")
	v, err := fn.Impl([]object.Value{object.Str{V: "http://127.0.0.1:0"}})
	require.NoError(t, err)
	assert.Equal(t, object.Nil{}, v)
}

func TestHttpPostSendsBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		buf := make([]byte, 1024)
		n, _ := req.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte("created"))
	}))
	defer srv.Close()

	r := New(&bytes.Buffer{}, strings.NewReader(""), time.Second)
	fn, _ := r.Lookup("http.post")
	v, err := fn.Impl([]object.Value{object.Str{V: srv.URL}, object.Str{V: "payload"}})
	require.NoError(t, err)
	assert.Equal(t, object.Str{V: "created"}, v)
	assert.Equal(t, "payload", gotBody)
}
