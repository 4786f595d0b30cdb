package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testHome   = "/Users/tester"
	testDevice = "5C3E2B1A-8F4D-4E6A-9B7C-0D1E2F3A4B5C"
)

type logEntry struct {
	level string
	event string
	msg   string
	args  []any
}

// recordingLogger keeps every log call for later assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Debug(event, msg string, args ...any) {
	l.add("debug", event, msg, args)
}

func (l *recordingLogger) Error(event, msg string, args ...any) {
	l.add("error", event, msg, args)
}

func (l *recordingLogger) add(level, event, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, event: event, msg: msg, args: args})
}

func (l *recordingLogger) byLevel(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// countingFs counts every filesystem operation that reaches the wrapped Fs.
type countingFs struct {
	afero.Fs
	mu  sync.Mutex
	ops []string
}

func (c *countingFs) record(op, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op+" "+name)
}

func (c *countingFs) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

func (c *countingFs) Create(name string) (afero.File, error) {
	c.record("create", name)
	return c.Fs.Create(name)
}

func (c *countingFs) Mkdir(name string, perm os.FileMode) error {
	c.record("mkdir", name)
	return c.Fs.Mkdir(name, perm)
}

func (c *countingFs) MkdirAll(path string, perm os.FileMode) error {
	c.record("mkdirall", path)
	return c.Fs.MkdirAll(path, perm)
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.record("open", name)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.record("openfile", name)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *countingFs) Remove(name string) error {
	c.record("remove", name)
	return c.Fs.Remove(name)
}

func (c *countingFs) RemoveAll(path string) error {
	c.record("removeall", path)
	return c.Fs.RemoveAll(path)
}

func (c *countingFs) Rename(oldname, newname string) error {
	c.record("rename", oldname)
	return c.Fs.Rename(oldname, newname)
}

func (c *countingFs) Stat(name string) (os.FileInfo, error) {
	c.record("stat", name)
	return c.Fs.Stat(name)
}

func (c *countingFs) Chmod(name string, mode os.FileMode) error {
	c.record("chmod", name)
	return c.Fs.Chmod(name, mode)
}

func (c *countingFs) Chown(name string, uid, gid int) error {
	c.record("chown", name)
	return c.Fs.Chown(name, uid, gid)
}

func (c *countingFs) Chtimes(name string, atime, mtime time.Time) error {
	c.record("chtimes", name)
	return c.Fs.Chtimes(name, atime, mtime)
}

// makeContainers creates one app container per name under the test device,
// with the given unix modification times.
func makeContainers(t *testing.T, fsys afero.Fs, names []string, mtimes []int64) string {
	t.Helper()
	require.Len(t, mtimes, len(names))

	root := ApplicationsRoot(testHome, testDevice)
	for i, name := range names {
		dir := filepath.Join(root, name)
		require.NoError(t, fsys.MkdirAll(filepath.Join(dir, "Library"), 0o755))
		ts := time.Unix(mtimes[i], 0)
		require.NoError(t, fsys.Chtimes(dir, ts, ts))
	}
	return root
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, fmt.Sprintf("reading %s", path))
	return string(data)
}
