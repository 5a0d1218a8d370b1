package visx

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExcludePatterns is the built-in exclusion set: version control,
// caches, compiled bytecode, OS metadata, and previously built archives (so a
// re-run never swallows its own output). Patterns beginning with "*" match as
// suffixes; everything else matches as a substring of the relative path.
var DefaultExcludePatterns = []string{
	".git",
	".gitignore",
	"node_modules/.cache",
	"__pycache__",
	"*.pyc",
	".DS_Store",
	"*" + ArchiveExtension,
}

// ExcludeRules decides which relative paths stay out of the archive. A path
// is excluded when any of its segments starts with a dot, when a configured
// pattern matches, or when a user glob matches. Immutable after construction.
type ExcludeRules struct {
	substrings []string
	suffixes   []string
	globs      []glob.Glob
}

// NewExcludeRules compiles the built-in patterns plus any user-supplied glob
// patterns (gobwas/glob syntax, matched against the slash-separated relative
// path). Returns an error only for an unparseable user glob.
func NewExcludeRules(patterns, userGlobs []string) (*ExcludeRules, error) {
	r := &ExcludeRules{}
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "*"); ok {
			r.suffixes = append(r.suffixes, rest)
		} else {
			r.substrings = append(r.substrings, p)
		}
	}
	for _, p := range userGlobs {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		r.globs = append(r.globs, g)
	}
	return r, nil
}

// Match reports whether the slash-separated relative path is excluded.
func (r *ExcludeRules) Match(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	for _, s := range r.substrings {
		if strings.Contains(rel, s) {
			return true
		}
	}
	for _, s := range r.suffixes {
		if strings.HasSuffix(rel, s) {
			return true
		}
	}
	for _, g := range r.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// prunable reports whether a whole directory subtree can be skipped: every
// descendant of a dot-segment or substring-matched directory is excluded too.
// Suffix and glob rules can match individual descendants only, so they never
// prune.
func (r *ExcludeRules) prunable(rel string) bool {
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return true
	}
	for _, s := range r.substrings {
		if strings.Contains(rel, s) {
			return true
		}
	}
	return false
}

// Enumerator walks a source tree and produces the ordered list of files to
// bundle.
type Enumerator struct {
	rules *ExcludeRules
}

// NewEnumerator returns an enumerator applying the given rules.
func NewEnumerator(rules *ExcludeRules) *Enumerator {
	return &Enumerator{rules: rules}
}

// Enumerate returns every regular file under root that survives the
// exclusion rules, as slash-separated root-relative paths. fs.WalkDir visits
// entries in lexical order per directory, so the result is stable across
// runs on an unmodified tree; callers must not re-sort it, since the archive
// layout depends on this exact order.
func (e *Enumerator) Enumerate(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ReadError{Path: path, Err: err}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root {
			return nil
		}
		relOS, err := filepath.Rel(root, path)
		if err != nil {
			return &ReadError{Path: path, Err: err}
		}
		rel := filepath.ToSlash(relOS)
		if d.IsDir() {
			if e.rules.prunable(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !e.rules.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
