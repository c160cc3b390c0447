package xliff

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/record"
)

const (
	Version   = "1.2"
	Namespace = "urn:oasis:names:tc:xliff:document:1.2"
	ToolID    = "loctool"
)

type xliffDocument struct {
	XMLName xml.Name    `xml:"xliff"`
	Version string      `xml:"version,attr"`
	Xmlns   string      `xml:"xmlns,attr,omitempty"`
	Files   []xliffFile `xml:"file"`
}

type xliffFile struct {
	Original    string       `xml:"original,attr"`
	SourceLang  string       `xml:"source-language,attr"`
	TargetLang  string       `xml:"target-language,attr,omitempty"`
	ProductName string       `xml:"product-name,attr,omitempty"`
	Datatype    string       `xml:"datatype,attr,omitempty"`
	EscapedAttr string       `xml:"x-escaped-attrs,attr,omitempty"`
	Header      *xliffHeader `xml:"header"`
	Units       []xliffUnit  `xml:"body>trans-unit"`
}

type xliffHeader struct {
	Tool xliffTool `xml:"tool"`
}

type xliffTool struct {
	ID   string `xml:"tool-id,attr"`
	Name string `xml:"tool-name,attr"`
}

type xliffUnit struct {
	ID       string       `xml:"id,attr"`
	Resname  string       `xml:"resname,attr,omitempty"`
	Restype  string       `xml:"restype,attr,omitempty"`
	Datatype *string      `xml:"datatype,attr,omitempty"`
	Project  *string      `xml:"x-project,attr,omitempty"`
	Context  string       `xml:"x-context,attr,omitempty"`
	Ordinal  string       `xml:"x-ordinal,attr,omitempty"`
	Quantity string       `xml:"x-quantity,attr,omitempty"`
	Escaped  string       `xml:"x-escaped-attrs,attr,omitempty"`
	Extra    []xml.Attr   `xml:",any,attr"`
	Source   xliffText    `xml:"source"`
	Target   *xliffTarget `xml:"target"`
	Note     *xliffText   `xml:"note"`
	Unknown  []RawElement `xml:",any"`
}

type xliffText struct {
	Escaped string `xml:"x-escaped,attr,omitempty"`
	Text    string `xml:",chardata"`
}

type xliffTarget struct {
	State   string `xml:"state,attr,omitempty"`
	Escaped string `xml:"x-escaped,attr,omitempty"`
	Text    string `xml:",chardata"`
}

type groupKey struct {
	file   string
	source string
	target string
}

// Serialize writes units as an XLIFF 1.2 document. Units are grouped into one <file> per
// (file, source locale, target locale) in first-seen order and keep their order inside
// each group. The trans-unit ids carry the position in units. Attribute values holding
// characters XML cannot carry are escaped like text and listed in x-escaped-attrs.
func Serialize(units []TranslationUnit) ([]byte, error) {
	doc := xliffDocument{Version: Version, Xmlns: Namespace}
	index := map[groupKey]int{}
	var heads []TranslationUnit
	for i, unit := range units {
		key := groupKey{file: unit.File, source: unit.SourceLocale, target: unit.TargetLocale}
		pos, ok := index[key]
		if !ok {
			pos = len(doc.Files)
			index[key] = pos
			heads = append(heads, unit)
			doc.Files = append(doc.Files, encodeFile(unit))
		}
		file := &doc.Files[pos]
		file.Units = append(file.Units, encodeUnit(i+1, unit, heads[pos]))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// attrEscaper escapes attribute values and remembers which attributes it had to escape.
type attrEscaper struct {
	names []string
}

func (e *attrEscaper) escape(name string, value string) string {
	text, marker := escape(value)
	if marker != "" {
		e.names = append(e.names, name)
	}
	return text
}

func (e *attrEscaper) marker() string {
	return strings.Join(e.names, " ")
}

func unescapeAttr(escaped []string, name string, value string) string {
	if !h.ContainsString(escaped, name) {
		return value
	}
	return unescape(value, escapedBackslash)
}

func encodeFile(head TranslationUnit) xliffFile {
	e := &attrEscaper{}
	file := xliffFile{
		Original:    e.escape("original", head.File),
		SourceLang:  e.escape("source-language", head.SourceLocale),
		TargetLang:  e.escape("target-language", head.TargetLocale),
		ProductName: e.escape("product-name", head.Project),
		Datatype:    e.escape("datatype", head.Datatype),
		Header:      &xliffHeader{Tool: xliffTool{ID: ToolID, Name: ToolID}},
	}
	file.EscapedAttr = e.marker()
	return file
}

func decodeFile(file xliffFile) xliffFile {
	escaped := strings.Fields(file.EscapedAttr)
	if len(escaped) == 0 {
		return file
	}
	file.Original = unescapeAttr(escaped, "original", file.Original)
	file.SourceLang = unescapeAttr(escaped, "source-language", file.SourceLang)
	file.TargetLang = unescapeAttr(escaped, "target-language", file.TargetLang)
	file.ProductName = unescapeAttr(escaped, "product-name", file.ProductName)
	file.Datatype = unescapeAttr(escaped, "datatype", file.Datatype)
	return file
}

func encodeUnit(id int, unit TranslationUnit, head TranslationUnit) xliffUnit {
	e := &attrEscaper{}
	out := xliffUnit{
		ID:       strconv.Itoa(id),
		Resname:  e.escape("resname", unit.Key),
		Restype:  e.escape("restype", unit.ResType),
		Context:  e.escape("x-context", unit.Context),
		Quantity: e.escape("x-quantity", unit.Quantity),
		Extra:    unit.Extra,
		Unknown:  unit.Unknown,
	}
	if unit.Datatype != head.Datatype {
		out.Datatype = h.StrPtr(e.escape("datatype", unit.Datatype))
	}
	if unit.Project != head.Project {
		out.Project = h.StrPtr(e.escape("x-project", unit.Project))
	}
	out.Escaped = e.marker()
	if unit.ResType == string(record.TypeArray) || unit.Ordinal != 0 {
		out.Ordinal = strconv.Itoa(unit.Ordinal)
	}
	out.Source.Text, out.Source.Escaped = escape(unit.Source)
	if unit.Target != "" || unit.State != "" {
		target := &xliffTarget{State: unit.State}
		target.Text, target.Escaped = escape(unit.Target)
		out.Target = target
	}
	if unit.Comment != "" {
		note := &xliffText{}
		note.Text, note.Escaped = escape(unit.Comment)
		out.Note = note
	}
	return out
}

// Deserialize parses an XLIFF 1.2 document into units in document order. Documents
// written by Serialize come back in the order they were serialized. A unit with neither
// a key nor source text is a Malformed error; a unit with only source text gets the
// auto-generated key.
func Deserialize(data []byte) ([]TranslationUnit, error) {
	var doc xliffDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var units []TranslationUnit
	var positions []int
	ordered := true
	seen := map[int]bool{}
	for _, file := range doc.Files {
		file = decodeFile(file)
		own := file.Header != nil && file.Header.Tool.ID == ToolID
		for _, raw := range file.Units {
			unit, err := decodeUnit(raw, file)
			if err != nil {
				return nil, err
			}
			units = append(units, unit)
			pos, err := strconv.Atoi(raw.ID)
			if !own || err != nil || pos <= 0 || seen[pos] {
				ordered = false
			}
			seen[pos] = true
			positions = append(positions, pos)
		}
	}
	if ordered {
		restoreOrder(units, positions)
	}
	return units, nil
}

func restoreOrder(units []TranslationUnit, positions []int) {
	index := make([]int, len(units))
	for i := range index {
		index[i] = i
	}
	sort.SliceStable(index, func(a, b int) bool {
		return positions[index[a]] < positions[index[b]]
	})
	sorted := make([]TranslationUnit, len(units))
	for i, from := range index {
		sorted[i] = units[from]
	}
	copy(units, sorted)
}

func decodeUnit(raw xliffUnit, file xliffFile) (TranslationUnit, error) {
	escaped := strings.Fields(raw.Escaped)
	unit := TranslationUnit{
		SourceLocale: file.SourceLang,
		TargetLocale: file.TargetLang,
		Source:       unescape(raw.Source.Text, raw.Source.Escaped),
		Key:          unescapeAttr(escaped, "resname", raw.Resname),
		File:         file.Original,
		Project:      file.ProductName,
		Datatype:     file.Datatype,
		ResType:      unescapeAttr(escaped, "restype", raw.Restype),
		Context:      unescapeAttr(escaped, "x-context", raw.Context),
		Quantity:     unescapeAttr(escaped, "x-quantity", raw.Quantity),
		Extra:        raw.Extra,
		Unknown:      normalizeElements(raw.Unknown),
	}
	if raw.Project != nil {
		unit.Project = unescapeAttr(escaped, "x-project", *raw.Project)
	}
	if raw.Datatype != nil {
		unit.Datatype = unescapeAttr(escaped, "datatype", *raw.Datatype)
	}
	if raw.Ordinal != "" {
		ordinal, err := strconv.Atoi(raw.Ordinal)
		if err != nil || ordinal < 0 || ordinal > record.MaxOrdinal {
			return unit, errors.Malformed("ordinal")
		}
		unit.Ordinal = ordinal
	}
	if raw.Target != nil {
		unit.Target = unescape(raw.Target.Text, raw.Target.Escaped)
		unit.State = raw.Target.State
	}
	if raw.Note != nil {
		unit.Comment = unescape(raw.Note.Text, raw.Note.Escaped)
	}
	if err := unit.Validate(); err != nil {
		return unit, err
	}
	if unit.Key == "" {
		unit.Key = record.MakeKey(unit.Source)
	}
	return unit, nil
}

// normalizeElements drops the inherited default namespace so that unknown elements
// serialize the same way twice.
func normalizeElements(elements []RawElement) []RawElement {
	for i := range elements {
		if elements[i].XMLName.Space == Namespace {
			elements[i].XMLName.Space = ""
		}
		var attrs []xml.Attr
		for _, attr := range elements[i].Attrs {
			if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
				continue
			}
			attrs = append(attrs, attr)
		}
		elements[i].Attrs = attrs
	}
	return elements
}
