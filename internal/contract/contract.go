// Package contract checks the gateway's route table against the OpenAPI
// document of the backend API.
package contract

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/portal/internal/gateway"
)

//go:embed openapi.yaml
var embedded []byte

// Finding codes
const (
	CodeMissingPath   = "MISSING_PATH"
	CodeMissingMethod = "MISSING_METHOD"
	CodeUnused        = "UNUSED_OPERATION"
)

// Finding is one disagreement between the route table and the document.
type Finding struct {
	Code    string
	Route   gateway.Route
	Message string
}

// Report is the result of a check. Missing findings are drift; unused
// operations are informational.
type Report struct {
	Checked int
	Missing []Finding
	Unused  []Finding
}

// Drifted reports whether any gateway route is undocumented.
func (r Report) Drifted() bool {
	return len(r.Missing) > 0
}

// Err returns a drift error, or nil.
func (r Report) Err() error {
	if !r.Drifted() {
		return nil
	}
	return fmt.Errorf("contract drift: %d gateway route(s) missing from the API document", len(r.Missing))
}

// Document is a loaded and validated OpenAPI document.
type Document struct {
	doc    *openapi3.T
	source string
}

// Load returns the embedded API document.
func Load(ctx context.Context) (*Document, error) {
	return load(ctx, func(l *openapi3.Loader) (*openapi3.T, error) {
		return l.LoadFromData(embedded)
	}, "embedded")
}

// LoadFile reads an API document from disk, for checking against a
// document published by the backend.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	return load(ctx, func(l *openapi3.Loader) (*openapi3.T, error) {
		return l.LoadFromFile(path)
	}, path)
}

func load(ctx context.Context, read func(*openapi3.Loader) (*openapi3.T, error), source string) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := read(loader)
	if err != nil {
		return nil, fmt.Errorf("failed to load API document %s: %w", source, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid API document %s: %w", source, err)
	}
	return &Document{doc: doc, source: source}, nil
}

// Source names where the document was loaded from.
func (d *Document) Source() string {
	return d.source
}

// Title is the document title.
func (d *Document) Title() string {
	if d.doc.Info == nil {
		return ""
	}
	return d.doc.Info.Title
}

// Operations lists every documented operation, sorted by path then method.
func (d *Document) Operations() []gateway.Route {
	var ops []gateway.Route
	for path, item := range d.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, gateway.Route{Method: strings.ToUpper(method), Path: path})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

// Check reports routes the document lacks and documented operations no
// route uses.
func (d *Document) Check(routes []gateway.Route) Report {
	report := Report{Checked: len(routes)}
	used := make(map[string]bool, len(routes))

	for _, route := range routes {
		item := d.doc.Paths.Find(route.Path)
		if item == nil {
			report.Missing = append(report.Missing, Finding{
				Code:    CodeMissingPath,
				Route:   route,
				Message: fmt.Sprintf("path not documented: %s", route.Path),
			})
			continue
		}
		if item.GetOperation(route.Method) == nil {
			report.Missing = append(report.Missing, Finding{
				Code:    CodeMissingMethod,
				Route:   route,
				Message: fmt.Sprintf("method not documented: %s", route),
			})
			continue
		}
		used[route.String()] = true
	}

	for _, op := range d.Operations() {
		if !used[op.String()] {
			report.Unused = append(report.Unused, Finding{
				Code:    CodeUnused,
				Route:   op,
				Message: fmt.Sprintf("operation not called by the gateway: %s", op),
			})
		}
	}
	return report
}
