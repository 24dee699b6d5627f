package extractors

import (
	"sort"
	"strings"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/extractors/docx"
	"github.com/saori-labs/saori-kb/internal/extractors/pdf"
	"github.com/saori-labs/saori-kb/internal/extractors/text"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to their extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry from the given extractors.
// Later extractors win on extension conflicts.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// Defaults returns a registry with all built-in extractors registered.
func Defaults() *Registry {
	return NewRegistry(text.New(), docx.New(), pdf.New())
}

// ForExtension returns the extractor registered for ext. The extension
// may carry a leading dot and any casing.
func (r *Registry) ForExtension(ext string) (driven.Extractor, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	e, ok := r.byExt[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	if !e.Available() {
		return nil, domain.ErrMissingDependency
	}
	return e, nil
}

// SupportedExtensions lists every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
