package mdext

import (
	"fmt"
	"os"

	"github.com/alnah/go-mdext/internal/fileutil"
)

// DirSnippetResolver resolves snippet names against files under a base
// directory. It lives outside the pipeline core: the core only sees
// the SnippetResolver interface and treats resolution as an opaque
// synchronous text source.
type DirSnippetResolver struct {
	base string
}

// NewDirSnippetResolver returns a resolver rooted at dir.
func NewDirSnippetResolver(dir string) *DirSnippetResolver {
	return &DirSnippetResolver{base: dir}
}

// ResolveSnippet implements SnippetResolver. Names are joined under
// the base directory; traversal outside it is rejected.
func (r *DirSnippetResolver) ResolveSnippet(name string) (string, error) {
	path, err := fileutil.SafeJoin(r.base, name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrSnippetNotFound, name, err)
	}
	if !fileutil.FileExists(path) {
		return "", fmt.Errorf("%w: %q", ErrSnippetNotFound, name)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is validated against the base directory
	if err != nil {
		return "", fmt.Errorf("reading snippet %q: %w", name, err)
	}
	return string(data), nil
}

// SnippetMap resolves snippets from an in-memory map, useful for tests
// and for hosts that assemble content without a filesystem.
type SnippetMap map[string]string

// ResolveSnippet implements SnippetResolver.
func (m SnippetMap) ResolveSnippet(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrSnippetNotFound, name)
	}
	return text, nil
}
