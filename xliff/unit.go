package xliff

import (
	"encoding/xml"
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/soffa-projects/loctool/errors"
)

// TranslationUnit pairs a source string with its translation plus the metadata needed to
// map it back to a record.
type TranslationUnit struct {
	SourceLocale string `json:"sourceLocale"`
	TargetLocale string `json:"targetLocale,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target,omitempty"`
	Key          string `json:"key" validate:"required_without=Source"`
	File         string `json:"file"`
	Project      string `json:"project"`
	Datatype     string `json:"datatype,omitempty"`
	Comment      string `json:"comment,omitempty"`
	State        string `json:"state,omitempty"`
	ResType      string `json:"resType,omitempty"`
	Context      string `json:"context,omitempty"`
	Ordinal      int    `json:"ordinal,omitempty"`
	Quantity     string `json:"quantity,omitempty"`

	// Extra holds trans-unit attributes this package does not interpret.
	Extra []xml.Attr `json:"-"`
	// Unknown holds child elements this package does not interpret.
	Unknown []RawElement `json:"-"`
}

// RawElement is an unrecognized element kept verbatim.
type RawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate reports a Malformed error when the unit has neither a key nor source text.
func (u *TranslationUnit) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if stderrors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return errors.Malformed(fieldErrors[0].Field())
	}
	return err
}

// Document is an ordered list of translation units bound to an output path. Units are
// never deduplicated.
type Document struct {
	path  string
	units []TranslationUnit
}

func New(path string) *Document {
	return &Document{path: path}
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) AddTranslationUnit(unit TranslationUnit) {
	d.units = append(d.units, unit)
}

func (d *Document) AddTranslationUnits(units []TranslationUnit) {
	d.units = append(d.units, units...)
}

// TranslationUnits returns the units in insertion order.
func (d *Document) TranslationUnits() []TranslationUnit {
	return append([]TranslationUnit{}, d.units...)
}

func (d *Document) Size() int {
	return len(d.units)
}

func (d *Document) Serialize() ([]byte, error) {
	return Serialize(d.units)
}

// Deserialize parses data and appends its units to the document.
func (d *Document) Deserialize(data []byte) error {
	units, err := Deserialize(data)
	if err != nil {
		return err
	}
	d.AddTranslationUnits(units)
	return nil
}
