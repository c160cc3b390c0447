package h

import "github.com/thoas/go-funk"

func EmptyIfNull[T any](value []T) []T {
	if value == nil {
		return []T{}
	}
	return value
}

func ContainsString(array []string, value string) bool {
	if len(array) == 0 {
		return false
	}
	return funk.ContainsString(array, value)
}

// UniqStrings drops duplicates and empty values, keeping first-seen order.
func UniqStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range funk.UniqString(values) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func Without(array []string, values ...string) []string {
	out := make([]string, 0, len(array))
	for _, v := range array {
		if !funk.ContainsString(values, v) {
			out = append(out, v)
		}
	}
	return out
}
