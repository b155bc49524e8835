package org

import "sort"

// Keywords is the todo-keyword and priority configuration consumed by
// headline parsing. Both maps go from a config name to the keyword as it
// appears in document text (e.g. "todo" -> "TODO").
type Keywords struct {
	Todo       map[string]string
	Done       map[string]string
	Priorities []string
}

// DefaultKeywords returns the stock org configuration: TODO/DONE states
// and priorities A through C.
func DefaultKeywords() Keywords {
	return Keywords{
		Todo:       map[string]string{"todo": "TODO"},
		Done:       map[string]string{"done": "DONE"},
		Priorities: []string{"A", "B", "C"},
	}
}

// IsTodo reports whether kw is a configured not-done state.
func (k Keywords) IsTodo(kw string) bool {
	for _, v := range k.Todo {
		if v == kw {
			return true
		}
	}
	return false
}

// IsDone reports whether kw is a configured done state.
func (k Keywords) IsDone(kw string) bool {
	for _, v := range k.Done {
		if v == kw {
			return true
		}
	}
	return false
}

// All returns every configured keyword, longest first so that prefix
// matching against a headline never stops at a shorter keyword that is a
// prefix of a longer one (e.g. DONE vs DONE_ARCHIVED).
func (k Keywords) All() []string {
	out := make([]string, 0, len(k.Todo)+len(k.Done))
	for _, v := range k.Todo {
		out = append(out, v)
	}
	for _, v := range k.Done {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// priorities returns the allowed priority letters, defaulting to A/B/C
// when the configuration leaves them unset.
func (k Keywords) priorities() []string {
	if len(k.Priorities) == 0 {
		return []string{"A", "B", "C"}
	}
	return k.Priorities
}
