package annotations

import (
	"slices"

	"github.com/toyz/docanno/internal/utils"
)

type propertyKey struct {
	typeName string
	property string
}

// CachedReader memoizes class and property annotations per type. Parsing
// every lookup is wasteful in long-running processes; results are immutable
// so they can be shared between callers.
type CachedReader struct {
	parser     *Parser
	source     Source
	classes    *utils.Cache[string, *Annotations]
	properties *utils.Cache[propertyKey, PropertySet]
}

// NewCachedReader creates a reader over src. A nil parser means the legacy
// options.
func NewCachedReader(parser *Parser, src Source) *CachedReader {
	if parser == nil {
		parser = defaultParser
	}
	return &CachedReader{
		parser:     parser,
		source:     src,
		classes:    utils.NewCache[string, *Annotations](),
		properties: utils.NewCache[propertyKey, PropertySet](),
	}
}

// Parser returns the parser used on cache misses
func (r *CachedReader) Parser() *Parser {
	return r.parser
}

// Source returns the underlying source
func (r *CachedReader) Source() Source {
	return r.source
}

// ClassAnnotations returns the cached class annotations of typeName
func (r *CachedReader) ClassAnnotations(typeName string) (*Annotations, error) {
	return r.classes.GetOrCompute(typeName, func() (*Annotations, error) {
		return r.parser.ClassAnnotations(r.source, typeName)
	})
}

// PropertyAnnotations returns the cached property annotations of typeName.
// The returned set is a copy and may be modified by the caller. A result
// with syntax errors is returned with its partial set and is not cached.
func (r *CachedReader) PropertyAnnotations(typeName, propertyName string) (PropertySet, error) {
	key := propertyKey{typeName: typeName, property: propertyName}
	if set, exists := r.properties.Get(key); exists {
		return slices.Clone(set), nil
	}

	set, err := r.parser.PropertyAnnotations(r.source, typeName, propertyName)
	if err != nil {
		return set, err
	}
	r.properties.Set(key, set)
	return slices.Clone(set), nil
}

// Invalidate drops every cached result for typeName
func (r *CachedReader) Invalidate(typeName string) {
	r.classes.Delete(typeName)
	r.properties.DeleteFunc(func(key propertyKey) bool {
		return key.typeName == typeName
	})
}

// Clear drops all cached results
func (r *CachedReader) Clear() {
	r.classes.Clear()
	r.properties.Clear()
}

// Stats returns the combined cache statistics
func (r *CachedReader) Stats() utils.CacheStats {
	classes := r.classes.GetStats()
	properties := r.properties.GetStats()
	return utils.CacheStats{
		Size:   classes.Size + properties.Size,
		Hits:   classes.Hits + properties.Hits,
		Misses: classes.Misses + properties.Misses,
	}
}
