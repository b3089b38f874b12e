package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

// segment ranks, higher is more specific
const (
	rankParam = iota
	rankPartial
	rankLiteral
)

// segment is one /-separated part of a path template. A placeholder may
// carry a literal prefix and suffix, e.g. "{name}.json".
type segment struct {
	literal string
	param   string
	prefix  string
	suffix  string
}

func (s segment) rank() int {
	switch {
	case s.param == "":
		return rankLiteral
	case s.prefix != "" || s.suffix != "":
		return rankPartial
	default:
		return rankParam
	}
}

func (s segment) match(part string) bool {
	if s.param == "" {
		return s.literal == part
	}
	if len(part) <= len(s.prefix)+len(s.suffix) {
		return false
	}
	return strings.HasPrefix(part, s.prefix) && strings.HasSuffix(part, s.suffix)
}

// route is a compiled path template and its operations by method.
type route struct {
	template   string
	segments   []segment
	operations map[string]*Operation
}

func (r *route) match(parts []string) bool {
	if len(parts) != len(r.segments) {
		return false
	}
	for i, s := range r.segments {
		if !s.match(parts[i]) {
			return false
		}
	}
	return true
}

// compare returns a negative number when r is preferred over other, a
// positive one when other is preferred and zero when neither is. The first
// segment where the ranks differ decides.
func (r *route) compare(other *route) int {
	for i := range r.segments {
		if d := other.segments[i].rank() - r.segments[i].rank(); d != 0 {
			return d
		}
	}
	return 0
}

// parseTemplate splits a path template into segments.
func parseTemplate(template string) ([]segment, error) {
	if template == "" || template[0] != '/' {
		return nil, fmt.Errorf("path template %q must start with /", template)
	}

	seen := make(map[string]bool)
	parts := strings.Split(template, "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		open := strings.IndexByte(part, '{')
		closing := strings.IndexByte(part, '}')
		if open == -1 && closing == -1 {
			segments = append(segments, segment{literal: part})
			continue
		}
		if open == -1 || closing < open {
			return nil, fmt.Errorf("unbalanced braces in path template %q", template)
		}
		name := part[open+1 : closing]
		if name == "" {
			return nil, fmt.Errorf("empty path parameter in template %q", template)
		}
		suffix := part[closing+1:]
		if strings.ContainsAny(suffix, "{}") {
			return nil, fmt.Errorf("more than one path parameter in a segment of template %q", template)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate path parameter %q in template %q", name, template)
		}
		seen[name] = true
		segments = append(segments, segment{param: name, prefix: part[:open], suffix: suffix})
	}
	return segments, nil
}

// Index resolves concrete paths and operationIds to compiled operations.
type Index struct {
	routes        []*route
	byOperationID map[string]*Operation
}

// NewIndex compiles every operation of the document.
func NewIndex(doc *domain.Document, cfg Config) (*Index, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}

	idx := &Index{byOperationID: make(map[string]*Operation)}
	for _, p := range doc.Paths {
		segments, err := parseTemplate(p.Template)
		if err != nil {
			return nil, err
		}
		r := &route{
			template:   p.Template,
			segments:   segments,
			operations: make(map[string]*Operation, len(p.Operations)),
		}
		for _, op := range p.Operations {
			compiled, err := CompileOperation(p.Template, op, cfg)
			if err != nil {
				return nil, err
			}
			if _, exists := r.operations[compiled.method]; exists {
				return nil, fmt.Errorf("duplicate method %s for path %s", strings.ToUpper(compiled.method), p.Template)
			}
			r.operations[compiled.method] = compiled

			if id := compiled.operationID; id != "" {
				if existing, ok := idx.byOperationID[id]; ok {
					return nil, fmt.Errorf("duplicate operationId %q on %s %s and %s %s", id,
						strings.ToUpper(existing.method), existing.template, strings.ToUpper(compiled.method), p.Template)
				}
				idx.byOperationID[id] = compiled
			}
		}
		idx.routes = append(idx.routes, r)
	}
	return idx, nil
}

// Lookup resolves a concrete path and method.
func (idx *Index) Lookup(path, method string) (*Operation, error) {
	r, err := idx.match(path)
	if err != nil {
		return nil, err
	}
	op := r.operations[strings.ToLower(method)]
	if op == nil {
		return nil, &oaerr.LookupError{Reason: oaerr.ErrMethodNotFound, Path: path, Method: method}
	}
	return op, nil
}

// LookupByOperationID resolves an operationId.
func (idx *Index) LookupByOperationID(id string) (*Operation, error) {
	op := idx.byOperationID[id]
	if op == nil {
		return nil, &oaerr.LookupError{Reason: oaerr.ErrUnknownOperationID, OperationID: id}
	}
	return op, nil
}

// Operations returns every compiled operation sorted by template then method.
func (idx *Index) Operations() []*Operation {
	var ops []*Operation
	for _, r := range idx.routes {
		for _, op := range r.operations {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].template != ops[j].template {
			return ops[i].template < ops[j].template
		}
		return ops[i].method < ops[j].method
	})
	return ops
}

// match finds the most specific template matching path.
func (idx *Index) match(path string) (*route, error) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")

	var best *route
	var tied []string
	for _, r := range idx.routes {
		if !r.match(parts) {
			continue
		}
		switch {
		case best == nil:
			best = r
		case r.compare(best) < 0:
			best, tied = r, nil
		case r.compare(best) == 0:
			tied = append(tied, r.template)
		}
	}

	if best == nil {
		return nil, &oaerr.LookupError{Reason: oaerr.ErrPathNotFound, Path: path}
	}
	if len(tied) > 0 {
		templates := append([]string{best.template}, tied...)
		sort.Strings(templates)
		return nil, &oaerr.LookupError{Reason: oaerr.ErrAmbiguousPath, Path: path, Templates: templates}
	}
	return best, nil
}
