package extractor

import (
	"errors"
	"strings"

	"github.com/nao1215/seocrawl/internal/model"
)

// ErrUnsupportedContentType is returned by Registry.For when no extractor
// handles the given MIME type. The scheduler records such pages as skipped.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Extractor turns one fetch result into a structured page record.
//
// Implementations must degrade rather than abort: a page missing a title,
// a heading, or a meta description still yields a record with those fields
// empty. Extraction only fails when the body cannot be parsed at all.
type Extractor interface {
	// Extract parses the fetched body and returns the structured record.
	Extract(result *model.FetchResult, depth int, parent string) (*model.PageRecord, error)

	// ContentTypes lists the MIME types this extractor handles.
	ContentTypes() []string
}

// Registry maps MIME types to extractors.
type Registry struct {
	byType map[string]Extractor
}

// NewRegistry creates a registry with the given extractors registered.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byType: make(map[string]Extractor)}
	for _, e := range extractors {
		for _, ct := range e.ContentTypes() {
			r.byType[strings.ToLower(ct)] = e
		}
	}
	return r
}

// For returns the extractor registered for the MIME type, or
// ErrUnsupportedContentType when none is.
func (r *Registry) For(contentType string) (Extractor, error) {
	e, ok := r.byType[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedContentType
	}
	return e, nil
}
