package gitctx

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveScopes converts scope arguments into repo-relative slash paths.
// Relative arguments are interpreted against dir. A nil result means the
// whole repository is in scope.
func (r *Repo) ResolveScopes(dir string, args []string) ([]string, error) {
	root := resolvePath(r.root)
	var scopes []string
	for _, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		p = resolvePath(filepath.Clean(p))

		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", ErrScopeOutsideRepo, arg)
		}
		if rel == "." {
			return nil, nil
		}
		scopes = append(scopes, filepath.ToSlash(rel))
	}
	return scopes, nil
}

// InScope reports whether p equals one of scopes or lies beneath it. An
// empty scope or "." matches everything.
func InScope(p string, scopes []string) bool {
	for _, s := range scopes {
		if s == "" || s == "." {
			return true
		}
		if p == s || strings.HasPrefix(p, s+"/") {
			return true
		}
	}
	return false
}

// resolvePath evaluates symlinks on the longest existing prefix of p so that
// paths to deleted files still compare against the real working root.
func resolvePath(p string) string {
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real
	}
	parent := filepath.Dir(p)
	if parent == p {
		return p
	}
	return filepath.Join(resolvePath(parent), filepath.Base(p))
}
