package script

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/galley/internal/logging"
)

// mockHost records notices and serves a fixed dish.
type mockHost struct {
	text    string
	kind    string
	notices []string
}

func (m *mockHost) DishText() string  { return m.text }
func (m *mockHost) DishKind() string  { return m.kind }
func (m *mockHost) Notify(msg string) { m.notices = append(m.notices, msg) }

func setupEngine(t *testing.T, opts Options) (*Engine, *mockHost) {
	t.Helper()
	host := &mockHost{text: "hello", kind: "markup"}
	opts.Logger = logging.Discard()
	e := NewEngine(host, opts)
	require.NoError(t, e.Init())
	t.Cleanup(e.Close)
	return e, host
}

func TestExecuteRunsInOrder(t *testing.T) {
	e, host := setupEngine(t, Options{})

	errs := e.Execute(context.Background(), []string{
		`galley.notify("one")`,
		`galley.notify("two " .. galley.text())`,
		`galley.notify(galley.kind())`,
	})

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"one", "two hello", "markup"}, host.notices)
}

func TestExecuteIsolatesFailures(t *testing.T) {
	e, host := setupEngine(t, Options{})

	errs := e.Execute(context.Background(), []string{
		`galley.notify("before")`,
		`error("boom")`,
		`this is not lua`,
		`galley.notify("after")`,
	})

	require.Len(t, errs, 4)
	assert.NoError(t, errs[0])
	assert.ErrorContains(t, errs[1], "boom")
	assert.Error(t, errs[2])
	assert.NoError(t, errs[3])
	assert.Equal(t, []string{"before", "after"}, host.notices)
}

func TestFailedFragmentLeavesWarningsToCaller(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&mockHost{}, Options{Logger: log.New(&out)})
	require.NoError(t, e.Init())
	t.Cleanup(e.Close)

	errs := e.Execute(context.Background(), []string{`error("boom")`})

	require.Error(t, errs[0])
	assert.Empty(t, out.String(), "engine logs failures below Info")
}

func TestFragmentsShareGlobals(t *testing.T) {
	e, host := setupEngine(t, Options{})

	errs := e.Execute(context.Background(), []string{
		`counter = 41`,
		`galley.notify(tostring(counter + 1))`,
	})
	assert.NoError(t, errs[1])
	assert.Equal(t, []string{"42"}, host.notices)
}

func TestRunawayFragmentIsInterrupted(t *testing.T) {
	e, host := setupEngine(t, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	errs := e.Execute(context.Background(), []string{
		`while true do end`,
		`galley.notify("still alive")`,
	})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
	assert.NoError(t, errs[1])
	assert.Equal(t, []string{"still alive"}, host.notices)
}

func TestCompiledFragmentsAreCached(t *testing.T) {
	e, _ := setupEngine(t, Options{CacheSize: 2})

	src := `local x = 1`
	e.Execute(context.Background(), []string{src, src, src})
	assert.Equal(t, 1, e.CachedFragments())

	e.Execute(context.Background(), []string{`local y = 2`, `local z = 3`})
	assert.Equal(t, 2, e.CachedFragments())
}

func TestUnsafeLibsAreNotOpened(t *testing.T) {
	e, _ := setupEngine(t, Options{})

	assert.Error(t, e.DoString("io", `io.write("x")`))
	assert.Error(t, e.DoString("os", `os.exit(1)`))
}

func TestDoStringInitsLazily(t *testing.T) {
	host := &mockHost{}
	e := NewEngine(host, Options{Logger: logging.Discard()})
	defer e.Close()

	require.NoError(t, e.DoString("lazy", `galley.notify("ok")`))
	assert.Equal(t, []string{"ok"}, host.notices)
}

func TestRegexAPI(t *testing.T) {
	e, host := setupEngine(t, Options{})
	host.text = "id=42 id=7"

	errs := e.Execute(context.Background(), []string{`
		local re = galley.regex("id=(\\d+)")
		local m = re.match(galley.text())
		galley.notify(m[1] .. "," .. m[2])
		local all = re.find_all(galley.text())
		galley.notify(#all .. " " .. re.pattern)
		galley.notify(re.replace(galley.text(), "n=$1"))
	`})
	require.NoError(t, errs[0])
	assert.Equal(t, []string{"id=42,42", `2 id=(\d+)`, "n=42 n=7"}, host.notices)
}

func TestRegexCompileError(t *testing.T) {
	e, host := setupEngine(t, Options{})

	errs := e.Execute(context.Background(), []string{`
		local re, err = galley.regex("(")
		galley.notify(tostring(re == nil) .. " " .. tostring(err ~= nil))
	`})
	require.NoError(t, errs[0])
	assert.Equal(t, []string{"true true"}, host.notices)
}
