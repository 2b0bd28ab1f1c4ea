// Package survey resolves the ordered group/question walk of a store, assembles
// submitted answers into a response document and reconstructs the section
// layout of stored responses.
package survey

import (
	"errors"
	"fmt"

	"github.com/ikkim/survei-backend/internal/app/model"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// ResolveOrdered maps ids to entities in id order. Ids without an entity are
// skipped.
func ResolveOrdered[T any](ids []string, byID map[string]T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Index keys items by key(item). Later items win on repeated keys.
func Index[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}
	return out
}

// Move returns a copy of items with the element at from reinserted at to;
// elements in between shift by one. The input slice is not modified.
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d -> %d with %d items", ErrIndexOutOfRange, from, to, n)
	}
	out := make([]T, n)
	copy(out, items)
	if from == to {
		return out, nil
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// Section is one group of the walk with its resolved questions in order.
type Section struct {
	Group     model.QuestionGroup
	Questions []model.Question
}

// Walk is the canonical presentation order of a store's survey.
type Walk []Section

// ResolveWalk expands a store's ordered group ids into sections. Unknown group
// or question ids are dropped; empty sections are kept.
func ResolveWalk(groupIDs []string, groups map[string]model.QuestionGroup, questions map[string]model.Question) Walk {
	resolved := ResolveOrdered(groupIDs, groups)
	walk := make(Walk, 0, len(resolved))
	for _, g := range resolved {
		walk = append(walk, Section{
			Group:     g,
			Questions: ResolveOrdered(g.QuestionIDs, questions),
		})
	}
	return walk
}

// TotalQuestions counts distinct questions in the walk.
func (w Walk) TotalQuestions() int {
	seen := make(map[string]struct{})
	for _, s := range w {
		for _, q := range s.Questions {
			seen[q.ID] = struct{}{}
		}
	}
	return len(seen)
}

// Question finds a question of the walk by id.
func (w Walk) Question(id string) (model.Question, bool) {
	for _, s := range w {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return model.Question{}, false
}
