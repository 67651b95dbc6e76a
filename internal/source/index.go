// Package source supplies raw doc comments of Go types and struct fields
// read from source files.
package source

import (
	stderrors "errors"
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"github.com/toyz/docanno/internal/errors"
	"github.com/toyz/docanno/pkg/annotations"
)

// ErrTypeNotFound is wrapped by lookups of types the index does not contain
var ErrTypeNotFound = stderrors.New("type not found")

// TypeInfo describes a named type declaration
type TypeInfo struct {
	Name       string
	Package    string // package name from the package clause
	ImportPath string // set when the loader knows it
	Doc        annotations.Doc
	Fields     []annotations.Property
}

// Key returns the qualified name the index stores the type under
func (t *TypeInfo) Key() string {
	if t.ImportPath != "" {
		return t.ImportPath + "." + t.Name
	}
	return t.Package + "." + t.Name
}

// Index maps type names to their doc comments. It implements
// annotations.Source and must not be modified while it is being read.
type Index struct {
	types []*TypeInfo
	byKey map[string]int
}

// NewIndex builds an index from parsed files. fset resolves positions.
func NewIndex(fset *token.FileSet, files ...*ast.File) *Index {
	idx := &Index{byKey: make(map[string]int)}
	for _, file := range files {
		idx.addFile(fset, file)
	}
	return idx
}

func (idx *Index) addFile(fset *token.FileSet, file *ast.File) {
	pkg := file.Name.Name
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			// An ungrouped "type X struct" keeps its comment on the GenDecl
			doc := typeSpec.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			info := &TypeInfo{
				Name:    typeSpec.Name.Name,
				Package: pkg,
				Doc:     makeDoc(fset, doc),
			}
			if structType, ok := typeSpec.Type.(*ast.StructType); ok {
				info.Fields = structFields(fset, structType)
			}
			idx.add(info)
		}
	}
}

func (idx *Index) add(info *TypeInfo) {
	key := info.Key()
	if i, exists := idx.byKey[key]; exists {
		idx.types[i] = info
		return
	}
	idx.byKey[key] = len(idx.types)
	idx.types = append(idx.types, info)
}

// SetImportPath records the import path of every indexed type
func (idx *Index) SetImportPath(importPath string) {
	idx.byKey = make(map[string]int, len(idx.types))
	for i, info := range idx.types {
		info.ImportPath = importPath
		idx.byKey[info.Key()] = i
	}
}

// structFields lists the fields of a struct in declaration order. A field
// declared as "A, B int" yields one property per name sharing one doc, and
// an embedded field is named after its type. A trailing line comment is
// used when the field has no doc comment above it.
func structFields(fset *token.FileSet, structType *ast.StructType) []annotations.Property {
	var props []annotations.Property
	if structType.Fields == nil {
		return props
	}

	for _, field := range structType.Fields.List {
		group := field.Doc
		if group == nil {
			group = field.Comment
		}
		doc := makeDoc(fset, group)
		if len(field.Names) == 0 {
			props = append(props, annotations.Property{Name: embeddedName(field.Type), Doc: doc})
			continue
		}
		for _, name := range field.Names {
			props = append(props, annotations.Property{Name: name.Name, Doc: doc})
		}
	}
	return props
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}

// makeDoc renders a comment group as a raw doc comment. A lone /* */ block
// is kept verbatim; // lines are rendered as a docblock so that the
// delimiter strip sees the shape it expects.
func makeDoc(fset *token.FileSet, group *ast.CommentGroup) annotations.Doc {
	if group == nil || len(group.List) == 0 {
		return annotations.Doc{}
	}

	doc := annotations.Doc{Loc: location(fset, group.Pos())}
	if len(group.List) == 1 && strings.HasPrefix(group.List[0].Text, "/*") {
		doc.Text = group.List[0].Text
		return doc
	}

	var b strings.Builder
	b.WriteString("/**\n")
	for _, comment := range group.List {
		text := comment.Text
		if strings.HasPrefix(text, "//") {
			text = strings.TrimPrefix(text, "//")
			b.WriteString(" *")
			if text != "" && !strings.HasPrefix(text, " ") {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			b.WriteByte('\n')
			continue
		}
		// block comments inside a line group are inlined without delimiters
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(" * ")
			b.WriteString(strings.TrimSpace(line))
			b.WriteByte('\n')
		}
	}
	b.WriteString(" */")
	doc.Text = b.String()

	// the rendered docblock gains an opening line
	if doc.Loc.Line > 0 {
		doc.Loc.Line--
	}
	return doc
}

func location(fset *token.FileSet, pos token.Pos) errors.SourceLocation {
	if fset == nil || !pos.IsValid() {
		return errors.SourceLocation{}
	}
	position := fset.Position(pos)
	return errors.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
}

// Lookup finds a type by its qualified key, by "pkg.Name" or by its bare
// name. Ambiguous names resolve to the first type indexed.
func (idx *Index) Lookup(typeName string) (*TypeInfo, error) {
	if i, exists := idx.byKey[typeName]; exists {
		return idx.types[i], nil
	}
	for _, info := range idx.types {
		if info.Name == typeName || info.Package+"."+info.Name == typeName {
			return info, nil
		}
	}
	return nil, errors.NewLookupError(typeName, ErrTypeNotFound)
}

// RouteName returns the shortest name Lookup resolves to info alone: the
// bare name, then "pkg.Name". It is empty when both are shared with another
// type, in which case only the qualified key identifies info.
func (idx *Index) RouteName(info *TypeInfo) string {
	short := info.Package + "." + info.Name
	bare, qualified := 0, 0
	for _, other := range idx.types {
		if other.Name != info.Name {
			continue
		}
		bare++
		if other.Package == info.Package {
			qualified++
		}
	}
	switch {
	case bare == 1:
		return info.Name
	case qualified == 1:
		return short
	}
	return ""
}

// TypeDoc returns the raw doc comment of a type
func (idx *Index) TypeDoc(typeName string) (annotations.Doc, error) {
	info, err := idx.Lookup(typeName)
	if err != nil {
		return annotations.Doc{}, err
	}
	return info.Doc, nil
}

// Properties returns the fields of a struct type with their doc comments.
// Non-struct types have none.
func (idx *Index) Properties(typeName string) ([]annotations.Property, error) {
	info, err := idx.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	props := make([]annotations.Property, len(info.Fields))
	copy(props, info.Fields)
	return props, nil
}

// Types returns the indexed types in discovery order
func (idx *Index) Types() []*TypeInfo {
	types := make([]*TypeInfo, len(idx.types))
	copy(types, idx.types)
	return types
}

// Keys returns the qualified keys of all indexed types sorted alphabetically
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.byKey))
	for key := range idx.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of indexed types
func (idx *Index) Len() int {
	return len(idx.types)
}

// Merge adds the types of other to idx. Later entries win on conflicts.
func (idx *Index) Merge(other *Index) {
	for _, info := range other.types {
		idx.add(info)
	}
}
