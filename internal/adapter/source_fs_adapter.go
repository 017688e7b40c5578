// Package adapter contains the infrastructure behind the domain layer: the
// filesystem, the embedded Lua VM and session persistence.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

// SourceFSAdapter abstracts filesystem access so the workflow can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// Get expands path patterns into Lua scripts. "dir/..." is scanned
	// recursively, a plain directory only at its top level and a file is
	// taken as is. Paths matching any exclude regex are dropped.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error)

	// Walk traverses root, descending into subdirectories when recursive.
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content, creating parent directories as needed.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter implements SourceFSAdapter on the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get resolves paths into a sorted, de-duplicated list of Lua scripts.
// Outputs of earlier runs (*.obf.lua) are never picked up.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	seen := make(map[m.Path]struct{})

	var scripts []m.Path

	collect := func(path string) {
		p := m.Path(filepath.Clean(path))
		if _, ok := seen[p]; ok || !isScript(path) || isExcluded(path, excludes) {
			return
		}

		seen[p] = struct{}{}
		scripts = append(scripts, p)
	}

	for _, pattern := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, recursive := splitPattern(string(pattern))

		info, err := a.FileInfo(m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			if !isScript(root) {
				return nil, fmt.Errorf("%s is not a %s file", root, m.LuaExt)
			}

			collect(root)

			continue
		}

		err = a.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() {
				collect(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i] < scripts[j] })

	return scripts, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr && (!recursive || isHidden(info.Name())) {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - reading user-selected scripts is the purpose of the tool
	return os.ReadFile(string(path))
}

// WriteFile writes content to path, creating its directory first.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}

	if root, ok := strings.CutSuffix(pattern, "/..."); ok {
		if root == "" {
			root = "/"
		}

		return root, true
	}

	return pattern, false
}

func isScript(path string) bool {
	return filepath.Ext(path) == m.LuaExt && !strings.HasSuffix(path, m.ObfuscatedExt)
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
