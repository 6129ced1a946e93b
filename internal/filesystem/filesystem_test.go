package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/appfinder/internal/pathfilter"
	"github.com/taigrr/appfinder/internal/types"
)

// makeTree creates files under root. Entries ending in "/" are directories.
func makeTree(t *testing.T, root string, entries ...string) {
	t.Helper()
	for _, entry := range entries {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(entry, "/")))
		if strings.HasSuffix(entry, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}
}

type countingReader struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingReader) ReadDir(name string) ([]fs.DirEntry, error) {
	c.mu.Lock()
	c.calls = append(c.calls, name)
	c.mu.Unlock()
	return os.ReadDir(name)
}

func (c *countingReader) visited() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

func byName(matches []types.SearchResult) map[string]types.SearchResult {
	out := make(map[string]types.SearchResult, len(matches))
	for _, m := range matches {
		out[m.Name] = m
	}
	return out
}

func TestService_Scan(t *testing.T) {
	t.Run("matches files and recurses into subdirectories", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "Programs")
		makeTree(t, root,
			"chrome.exe",
			"chrome_helper.lnk",
			"notes.txt",
			"Old/chrome_old.exe",
		)

		report, err := New(Options{}).Scan(context.Background(), root, "chrome", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Matches, 3)

		got := byName(report.Matches)
		assert.Equal(t, types.SearchResult{Name: "chrome", Path: filepath.Join(root, "chrome.exe"), Kind: types.KindApplication}, got["chrome"])
		assert.Equal(t, types.KindShortcut, got["chrome_helper"].Kind)
		assert.Equal(t, filepath.Join(root, "Old", "chrome_old.exe"), got["chrome_old"].Path)
		assert.Equal(t, types.KindApplication, got["chrome_old"].Kind)
		assert.NotContains(t, got, "notes")
	})

	t.Run("unrecognized files take the default kind", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "Chrome.url", "chrome.bat")

		report, err := New(Options{}).Scan(context.Background(), root, "chrome", types.KindShortcut)
		require.NoError(t, err)
		require.Len(t, report.Matches, 2)
		for _, m := range report.Matches {
			assert.Equal(t, types.KindShortcut, m.Kind, m.Path)
		}
	})

	t.Run("extension recognition ignores case", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "Chrome.EXE", "Chrome Beta.LNK")

		report, err := New(Options{}).Scan(context.Background(), root, "chrome", types.KindFolder)
		require.NoError(t, err)
		got := byName(report.Matches)
		assert.Equal(t, types.KindApplication, got["Chrome"].Kind)
		assert.Equal(t, types.KindShortcut, got["Chrome Beta"].Kind)
	})

	t.Run("directories match on full name as folders", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "Google Chrome/", "tools.chrome/")

		report, err := New(Options{}).Scan(context.Background(), root, "CHROME", types.KindApplication)
		require.NoError(t, err)
		got := byName(report.Matches)
		require.Len(t, got, 2)
		assert.Equal(t, types.KindFolder, got["Google Chrome"].Kind)
		assert.Equal(t, types.KindFolder, got["tools.chrome"].Kind)
	})

	t.Run("extension is not part of the file match", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "setup.exe")

		report, err := New(Options{}).Scan(context.Background(), root, "exe", types.KindApplication)
		require.NoError(t, err)
		assert.Empty(t, report.Matches)
	})

	t.Run("blank term yields nothing", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "chrome.exe")
		reader := &countingReader{}

		report, err := New(Options{Reader: reader}).Scan(context.Background(), root, "   ", types.KindApplication)
		require.NoError(t, err)
		assert.Empty(t, report.Matches)
		assert.Empty(t, reader.visited())
	})
}

func TestService_ScanSkips(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "does-not-exist")

		report, err := New(Options{}).Scan(context.Background(), root, "chrome", types.KindApplication)
		require.NoError(t, err)
		assert.Empty(t, report.Matches)
		require.Len(t, report.Skips, 1)
		assert.Equal(t, types.SkipNotExist, report.Skips[0].Reason)
		assert.Equal(t, root, report.Skips[0].Path)
		assert.ErrorIs(t, report.Skips[0].Err, fs.ErrNotExist)
	})

	t.Run("file passed as directory", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("error mapping differs on windows")
		}
		root := t.TempDir()
		makeTree(t, root, "chrome.exe")

		report, err := New(Options{}).Scan(context.Background(), filepath.Join(root, "chrome.exe"), "chrome", types.KindApplication)
		require.NoError(t, err)
		assert.Empty(t, report.Matches)
		require.Len(t, report.Skips, 1)
		assert.Equal(t, types.SkipNotDirectory, report.Skips[0].Reason)
	})

	t.Run("access denied in a subtree does not stop siblings", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "Locked/chrome.exe", "Open/chrome.exe")
		locked := filepath.Join(root, "Locked")

		reader := DirReaderFunc(func(name string) ([]fs.DirEntry, error) {
			if name == locked {
				return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
			}
			return os.ReadDir(name)
		})

		report, err := New(Options{Reader: reader}).Scan(context.Background(), root, "chrome", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Matches, 1)
		assert.Equal(t, filepath.Join(root, "Open", "chrome.exe"), report.Matches[0].Path)
		require.Len(t, report.Skips, 1)
		assert.Equal(t, types.SkipPermission, report.Skips[0].Reason)
		assert.Equal(t, locked, report.Skips[0].Path)
	})

	t.Run("other read errors are io skips", func(t *testing.T) {
		reader := DirReaderFunc(func(name string) ([]fs.DirEntry, error) {
			return nil, errors.New("device not ready")
		})

		report, err := New(Options{Reader: reader}).Scan(context.Background(), "X:/", "chrome", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Skips, 1)
		assert.Equal(t, types.SkipIO, report.Skips[0].Reason)
	})

	t.Run("filtered directories are neither matched nor walked", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "node_modules/chrome-launcher/chrome.exe", "app/chrome.exe")
		reader := &countingReader{}

		report, err := New(Options{Reader: reader, PathFilter: pathfilter.New(nil)}).
			Scan(context.Background(), root, "chrome", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Matches, 1)
		assert.Equal(t, filepath.Join(root, "app", "chrome.exe"), report.Matches[0].Path)
		assert.NotContains(t, reader.visited(), filepath.Join(root, "node_modules"))

		var filtered []string
		for _, skip := range report.Skips {
			if skip.Reason == types.SkipFiltered {
				filtered = append(filtered, skip.Path)
			}
		}
		assert.Equal(t, []string{filepath.Join(root, "node_modules")}, filtered)
	})

	t.Run("filtered directory names never match", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "node_modules/", ".git/", "WindowsApps/", "Tools/")

		report, err := New(Options{PathFilter: pathfilter.New(nil)}).
			Scan(context.Background(), root, "o", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Matches, 1)
		assert.Equal(t, filepath.Join(root, "Tools"), report.Matches[0].Path)
	})

	t.Run("filtered directories do not use recursion slots", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root,
			".git/",
			"a/",
			"b/",
			"c/",
			"d/",
			"e/chrome.exe",
			"node_modules/",
		)
		reader := &countingReader{}

		report, err := New(Options{Reader: reader, PathFilter: pathfilter.New(nil)}).
			Scan(context.Background(), root, "chrome", types.KindApplication)
		require.NoError(t, err)
		require.Len(t, report.Matches, 1)
		assert.Equal(t, filepath.Join(root, "e", "chrome.exe"), report.Matches[0].Path)
		assert.NotContains(t, reader.visited(), filepath.Join(root, ".git"))
	})
}

func TestService_ScanPanics(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "chrome.exe", "sub/chrome_beta.exe")
	sub := filepath.Join(root, "sub")

	reader := DirReaderFunc(func(name string) ([]fs.DirEntry, error) {
		if name == sub {
			panic("boom")
		}
		return os.ReadDir(name)
	})

	_, err := New(Options{Reader: reader}).Scan(context.Background(), root, "chrome", types.KindApplication)
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, sub, panicErr.Dir)
	assert.Equal(t, "boom", panicErr.Value)
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestService_ScanRecursionPolicy(t *testing.T) {
	t.Run("no recursion once the threshold is met", func(t *testing.T) {
		root := t.TempDir()
		var entries []string
		for i := range DefaultRecursionThreshold {
			entries = append(entries, fmt.Sprintf("tool%02d.exe", i))
		}
		entries = append(entries, "sub/tool-deep.exe")
		makeTree(t, root, entries...)
		reader := &countingReader{}

		report, err := New(Options{Reader: reader}).Scan(context.Background(), root, "tool", types.KindApplication)
		require.NoError(t, err)
		assert.Len(t, report.Matches, DefaultRecursionThreshold)
		assert.Equal(t, []string{root}, reader.visited())
	})

	t.Run("only the first subdirectories are visited", func(t *testing.T) {
		root := t.TempDir()
		for _, d := range []string{"a", "b", "c", "d", "e", "f", "g"} {
			makeTree(t, root, d+"/app.exe")
		}
		reader := &countingReader{}

		report, err := New(Options{Reader: reader}).Scan(context.Background(), root, "app", types.KindApplication)
		require.NoError(t, err)
		assert.Len(t, report.Matches, DefaultMaxSubdirs)

		visited := reader.visited()
		assert.Len(t, visited, 1+DefaultMaxSubdirs)
		assert.NotContains(t, visited, filepath.Join(root, "f"))
		assert.NotContains(t, visited, filepath.Join(root, "g"))
	})

	t.Run("threshold applies per subdirectory", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root,
			"one/two/three/app.exe",
			"one/app-shallow.exe",
		)

		report, err := New(Options{RecursionThreshold: 1}).Scan(context.Background(), root, "app", types.KindApplication)
		require.NoError(t, err)
		got := byName(report.Matches)
		assert.Contains(t, got, "app-shallow")
		assert.NotContains(t, got, "app", "one/ already met the threshold")
	})

	t.Run("results are ordered level first then by subdirectory", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "b/app2.exe", "a/app1.exe", "app0.exe")

		report, err := New(Options{}).Scan(context.Background(), root, "app", types.KindApplication)
		require.NoError(t, err)
		var names []string
		for _, m := range report.Matches {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"app0", "app1", "app2"}, names)
	})
}

func TestService_ScanCancellation(t *testing.T) {
	t.Run("already cancelled context", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "chrome.exe")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(Options{}).Scan(ctx, root, "chrome", types.KindApplication)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancellation mid-walk unwinds promptly", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "a/b/c/d/e/leaf.txt", "x/y/z/leaf.txt")

		var calls atomic.Int32
		reader := DirReaderFunc(func(name string) ([]fs.DirEntry, error) {
			calls.Add(1)
			time.Sleep(50 * time.Millisecond)
			return os.ReadDir(name)
		})

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(75*time.Millisecond, cancel)

		start := time.Now()
		report, err := New(Options{Reader: reader}).Scan(ctx, root, "chrome", types.KindApplication)
		elapsed := time.Since(start)

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, report.Matches)
		assert.Less(t, elapsed, time.Second)
		assert.Less(t, int(calls.Load()), 8)
	})

	t.Run("deadline surfaces as deadline exceeded", func(t *testing.T) {
		root := t.TempDir()
		makeTree(t, root, "a/leaf.txt")
		reader := DirReaderFunc(func(name string) ([]fs.DirEntry, error) {
			time.Sleep(30 * time.Millisecond)
			return os.ReadDir(name)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := New(Options{Reader: reader}).Scan(ctx, root, "chrome", types.KindApplication)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "file.txt")

	assert.True(t, Exists(root))
	assert.False(t, Exists(filepath.Join(root, "file.txt")))
	assert.False(t, Exists(filepath.Join(root, "missing")))
}
