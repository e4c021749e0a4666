package taskmaster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Taskmaster responses are not schema-stable: lists arrive bare or wrapped
// under one of several keys, and fields have more than one spelling. A
// response is decoded into an untyped tree and the record list is located by
// trying each extractor of a chain in order.

type extractor struct {
	name string
	find func(root any) ([]any, bool)
}

// bareList matches a top-level JSON array.
func bareList() extractor {
	return extractor{
		name: "array",
		find: func(root any) ([]any, bool) {
			list, ok := root.([]any)
			return list, ok
		},
	}
}

// listAt matches an array found by walking objects along path.
func listAt(path ...string) extractor {
	return extractor{
		name: strings.Join(path, "."),
		find: func(root any) ([]any, bool) {
			cur := root
			for _, key := range path {
				obj, ok := cur.(map[string]any)
				if !ok {
					return nil, false
				}
				if cur, ok = obj[key]; !ok {
					return nil, false
				}
			}
			list, ok := cur.([]any)
			return list, ok
		},
	}
}

var (
	categoryChain = []extractor{bareList(), listAt("Data"), listAt("categories")}
	taskChain     = []extractor{bareList(), listAt("Data"), listAt("tasks")}
	followUpChain = []extractor{bareList(), listAt("Data", "FollowUpHistoryDetails"), listAt("FollowUpHistoryDetails"), listAt("Data")}
)

func decodeTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return root, nil
}

// extractRecords applies chain to root and returns the object elements of the
// first list found. Non-object elements are skipped. No match yields nil.
func extractRecords(root any, chain []extractor) []map[string]any {
	for _, ex := range chain {
		list, ok := ex.find(root)
		if !ok {
			continue
		}
		records := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}
		return records
	}
	return nil
}

// lookup returns the first value among keys that is present and not empty.
// null, "" and numeric zero count as empty.
func lookup(rec map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || isEmpty(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case bool:
		return !x
	}
	return false
}

func intField(rec map[string]any, keys ...string) (int64, bool) {
	v, ok := lookup(rec, keys...)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		if f, err := x.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func stringField(rec map[string]any, keys ...string) string {
	v, ok := lookup(rec, keys...)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
