package h

import (
	"github.com/tidwall/gjson"
)

type JsonValue struct {
	value string
}

func NewJsonValue(value string) JsonValue {
	return JsonValue{value: value}
}

func (j JsonValue) Valid() bool {
	return gjson.Valid(j.value)
}

func (j JsonValue) Get(path string) any {
	value := gjson.Get(j.value, path)
	if value.Exists() {
		return value.Value()
	}
	return nil
}

func (j JsonValue) GetString(path string) string {
	return gjson.Get(j.value, path).String()
}

// GetStrings reads an array of strings; a scalar becomes a single-element list.
func (j JsonValue) GetStrings(path string) []string {
	value := gjson.Get(j.value, path)
	if !value.Exists() {
		return nil
	}
	if !value.IsArray() {
		return []string{value.String()}
	}
	var out []string
	value.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.String())
		return true
	})
	return out
}
