// Package goquery implements HTML parsing of the Blender Python API
// reference using the goquery library.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bpydocs"
)

var _ bpydocs.Parser = (*Parser)(nil)

// Parser extracts documentation entries from Sphinx-generated reference
// pages. Validated against the Blender 4.x reference, which uses Sphinx
// v7 markup: dt.sig.sig-object.py for signatures, dl.py.class for
// classes and dl.field-list for parameter tables.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	titleModuleRe = regexp.MustCompile(`(bpy\.[.\w]+)`)

	// Sphinx renders parameter items as "name (type, optional) – Description"
	// with an en-dash separator.
	paramTypedRe = regexp.MustCompile(`^(\w+)\s*\(([^)]+)\)\s*–\s*(.+)$`)
	paramPlainRe = regexp.MustCompile(`^(\w+)\s*–\s*(.+)$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Parse processes a reference page and returns the entries it documents.
// Entries are deduplicated by function path, keeping the first occurrence.
func (p *Parser) Parse(html string) ([]*bpydocs.DocEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "failed to parse HTML: %v", err)
	}

	moduleName := extractModuleName(doc)

	// Classes go first: class and property dts also match the function
	// signature selector, and the class pass carries the richer doc type.
	var entries []*bpydocs.DocEntry
	entries = append(entries, parseClasses(doc, moduleName)...)
	entries = append(entries, parseFunctions(doc, moduleName)...)

	seen := make(map[string]bool, len(entries))
	deduped := entries[:0]
	for _, e := range entries {
		if seen[e.FunctionPath] {
			continue
		}
		seen[e.FunctionPath] = true
		deduped = append(deduped, e)
	}

	return deduped, nil
}

// extractModuleName finds the module documented on the page, first from the
// module section id and falling back to the page title.
func extractModuleName(doc *goquery.Document) string {
	if id, ok := doc.Find("section[id^='module-']").First().Attr("id"); ok {
		return strings.TrimPrefix(id, "module-")
	}

	title := doc.Find("title").First().Text()
	if m := titleModuleRe.FindString(title); m != "" {
		return m
	}

	return ""
}

// parseFunctions extracts every signature definition on the page.
func parseFunctions(doc *goquery.Document, moduleName string) []*bpydocs.DocEntry {
	var entries []*bpydocs.DocEntry

	doc.Find("dt.sig.sig-object.py").Each(func(_ int, dt *goquery.Selection) {
		id, ok := dt.Attr("id")
		if !ok || id == "" {
			return
		}

		var sig strings.Builder
		dt.Find("span.sig-prename, span.sig-name, span.sig-paren").Each(func(_ int, s *goquery.Selection) {
			sig.WriteString(strings.TrimSpace(s.Text()))
		})

		var params []string
		dt.Find("em.sig-param").Each(func(_ int, s *goquery.Selection) {
			params = append(params, normalizeSpace(s.Text()))
		})
		signature := sig.String()
		if len(params) > 0 {
			signature = strings.Replace(signature, "()", "("+strings.Join(params, ", ")+")", 1)
		}

		var description string
		var parameters []bpydocs.Parameter
		if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
			description = normalizeSpace(dd.Find("p").First().Text())
			parameters = extractParameters(dd.Find("dl.field-list").First())
		}

		// bpy.types pages document classes through the same signature
		// markup as functions.
		docType := bpydocs.DocTypeFunction
		if strings.HasPrefix(id, "bpy.types.") && strings.Count(id, ".") == 2 {
			docType = bpydocs.DocTypeClass
		}

		module := moduleName
		if module == "" {
			if i := strings.LastIndex(id, "."); i > 0 {
				module = id[:i]
			}
		}

		entries = append(entries, &bpydocs.DocEntry{
			FunctionPath: id,
			Title:        lastSegment(id),
			Description:  description,
			Signature:    signature,
			Parameters:   parameters,
			Module:       module,
			DocType:      docType,
		})
	})

	return entries
}

// parseClasses extracts class definitions and their nested properties.
func parseClasses(doc *goquery.Document, moduleName string) []*bpydocs.DocEntry {
	var entries []*bpydocs.DocEntry

	doc.Find("dl.py.class").Each(func(_ int, dl *goquery.Selection) {
		dt := dl.Find("dt").First()
		id, ok := dt.Attr("id")
		if !ok || id == "" {
			return
		}

		module := moduleName
		if module == "" {
			if i := strings.LastIndex(id, "."); i > 0 {
				module = id[:i]
			}
		}

		dd := dt.NextFiltered("dd")
		var description string
		if dd.Length() > 0 {
			description = normalizeSpace(dd.Find("p").First().Text())
		}

		entries = append(entries, &bpydocs.DocEntry{
			FunctionPath: id,
			Title:        lastSegment(id),
			Description:  description,
			Module:       module,
			DocType:      bpydocs.DocTypeClass,
		})

		if dd.Length() > 0 {
			dd.Find("dl.py.data").Each(func(_ int, propDL *goquery.Selection) {
				if prop := extractProperty(propDL, id); prop != nil {
					entries = append(entries, prop)
				}
			})
		}
	})

	return entries
}

// extractProperty extracts a property definition nested inside a class body.
// Properties use the owning class as their module.
func extractProperty(propDL *goquery.Selection, parentClass string) *bpydocs.DocEntry {
	dt := propDL.Find("dt").First()
	id, ok := dt.Attr("id")
	if !ok || id == "" {
		return nil
	}

	var description, propType string
	if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
		description = normalizeSpace(dd.Find("p").First().Text())

		dd.Find("dl.field-list dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) != "Type" {
				return true
			}
			if typeDD := s.NextFiltered("dd"); typeDD.Length() > 0 {
				propType = normalizeSpace(typeDD.Text())
			}
			return false
		})
	}

	if propType != "" {
		description += " (Type: " + propType + ")"
		description = strings.TrimSpace(description)
	}

	return &bpydocs.DocEntry{
		FunctionPath: id,
		Title:        lastSegment(id),
		Description:  description,
		Module:       parentClass,
		DocType:      bpydocs.DocTypeProperty,
	}
}

var parametersLabelRe = regexp.MustCompile(`^Parameters?`)

// extractParameters walks a Sphinx field list and returns the documented
// parameters. The list nests as dt("Parameters") > dd > ul > li per
// parameter.
func extractParameters(fieldList *goquery.Selection) []bpydocs.Parameter {
	if fieldList.Length() == 0 {
		return nil
	}

	var parameters []bpydocs.Parameter

	fieldList.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !parametersLabelRe.MatchString(strings.TrimSpace(dt.Text())) {
			return true
		}

		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return false
		}

		dd.Find("ul").First().ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			if p, ok := parseParameterItem(li.Text()); ok {
				parameters = append(parameters, p)
			}
		})
		return false
	})

	return parameters
}

// parseParameterItem parses a single "name (type) – Description" item.
// Items without the en-dash separator are skipped.
func parseParameterItem(text string) (bpydocs.Parameter, bool) {
	text = normalizeSpace(text)

	if m := paramTypedRe.FindStringSubmatch(text); m != nil {
		return bpydocs.Parameter{Name: m[1], Type: m[2], Description: m[3]}, true
	}
	if m := paramPlainRe.FindStringSubmatch(text); m != nil {
		return bpydocs.Parameter{Name: m[1], Type: "unknown", Description: m[2]}, true
	}
	return bpydocs.Parameter{}, false
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
