// Package analytics turns stored survey responses into per-question summaries.
// Functions are pure: the same responses always give the same output.
package analytics

import (
	"sort"
	"time"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// Meta identifies a question in a summary. When responses disagree on the text
// or section of a question, the most recently submitted response wins.
type Meta struct {
	QuestionID    string `json:"questionId"`
	QuestionText  string `json:"questionText"`
	SectionName   string `json:"sectionName"`
	CategoryName  string `json:"categoryName"`
	SectionOrder  int    `json:"-"`
	QuestionOrder int    `json:"-"`
}

type Bucket struct {
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NumericSummary covers rating (1..5) and slider (1..10) questions.
type NumericSummary struct {
	Meta
	TotalResponses int      `json:"totalResponses"`
	Average        float64  `json:"average"`
	Distribution   []Bucket `json:"distribution"`
}

type OptionCount struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ChoiceSummary struct {
	Meta
	TotalResponses int           `json:"totalResponses"`
	Options        []OptionCount `json:"options"`
}

// ChecklistSummary percentages are relative to responses, not selections, so
// they do not sum to 100.
type ChecklistSummary struct {
	Meta
	TotalResponses  int           `json:"totalResponses"`
	TotalSelections int           `json:"totalSelections"`
	Options         []OptionCount `json:"options"`
}

type TextEntry struct {
	ResponseID   string    `json:"responseId"`
	StoreName    string    `json:"storeName"`
	CustomerName string    `json:"customerName"`
	Answer       string    `json:"answer"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// TextSummary lists free-text answers newest first.
type TextSummary struct {
	Meta
	TotalResponses int         `json:"totalResponses"`
	Answers        []TextEntry `json:"answers"`
}

type Summary struct {
	TotalResponses int                `json:"totalResponses"`
	Ratings        []NumericSummary   `json:"ratings"`
	Sliders        []NumericSummary   `json:"sliders"`
	MultipleChoice []ChoiceSummary    `json:"multipleChoice"`
	Checklists     []ChecklistSummary `json:"checklists"`
	Texts          []TextSummary      `json:"texts"`
}

// Summarize runs every aggregator over the same responses.
func Summarize(responses []model.SurveyResponse) Summary {
	return Summary{
		TotalResponses: len(responses),
		Ratings:        Ratings(responses),
		Sliders:        Sliders(responses),
		MultipleChoice: MultipleChoice(responses),
		Checklists:     Checklists(responses),
		Texts:          Texts(responses),
	}
}

type sample[T any] struct {
	value    T
	response *model.SurveyResponse
}

type collected[T any] struct {
	meta    Meta
	metaAt  time.Time
	samples []sample[T]
}

// collect groups the non-empty answers of variant T by question id.
func collect[T model.AnswerValue](responses []model.SurveyResponse) []*collected[T] {
	byID := map[string]*collected[T]{}
	for i := range responses {
		r := &responses[i]
		for id, entry := range r.Answers {
			v, ok := entry.Answer.(T)
			if !ok || v.IsEmpty() || entry.QuestionType != v.QuestionType() {
				continue
			}
			c, seen := byID[id]
			if !seen {
				c = &collected[T]{}
				byID[id] = c
			}
			if !seen || r.SubmittedAt.After(c.metaAt) {
				c.meta = Meta{
					QuestionID:    id,
					QuestionText:  entry.QuestionText,
					SectionName:   entry.SectionName,
					CategoryName:  entry.CategoryName,
					SectionOrder:  entry.SectionOrder,
					QuestionOrder: entry.QuestionOrder,
				}
				c.metaAt = r.SubmittedAt
			}
			c.samples = append(c.samples, sample[T]{value: v, response: r})
		}
	}

	out := make([]*collected[T], 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].meta, out[j].meta
		if a.SectionOrder != b.SectionOrder {
			return a.SectionOrder < b.SectionOrder
		}
		if a.QuestionOrder != b.QuestionOrder {
			return a.QuestionOrder < b.QuestionOrder
		}
		return a.QuestionID < b.QuestionID
	})
	return out
}

// Ratings summarizes rating questions over the 1..5 domain.
func Ratings(responses []model.SurveyResponse) []NumericSummary {
	groups := collect[model.RatingAnswer](responses)
	out := make([]NumericSummary, 0, len(groups))
	for _, c := range groups {
		values := make([]int, 0, len(c.samples))
		for _, s := range c.samples {
			values = append(values, int(s.value))
		}
		out = append(out, numeric(c.meta, values, model.RatingMin, model.RatingMax))
	}
	return out
}

// Sliders summarizes slider questions over the 1..10 domain.
func Sliders(responses []model.SurveyResponse) []NumericSummary {
	groups := collect[model.SliderAnswer](responses)
	out := make([]NumericSummary, 0, len(groups))
	for _, c := range groups {
		values := make([]int, 0, len(c.samples))
		for _, s := range c.samples {
			values = append(values, int(s.value))
		}
		out = append(out, numeric(c.meta, values, model.SliderMin, model.SliderMax))
	}
	return out
}

// numeric builds the fixed-domain histogram. Values outside [lo, hi] are
// not counted.
func numeric(meta Meta, values []int, lo, hi int) NumericSummary {
	counts := make([]int, hi-lo+1)
	total, sum := 0, 0
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		counts[v-lo]++
		total++
		sum += v
	}

	summary := NumericSummary{Meta: meta, TotalResponses: total, Distribution: make([]Bucket, 0, len(counts))}
	if total > 0 {
		summary.Average = float64(sum) / float64(total)
	}
	for i, n := range counts {
		b := Bucket{Value: lo + i, Count: n}
		if total > 0 {
			b.Percentage = float64(n) * 100 / float64(total)
		}
		summary.Distribution = append(summary.Distribution, b)
	}
	return summary
}

// MultipleChoice tallies every observed option, including options no longer
// configured on the question.
func MultipleChoice(responses []model.SurveyResponse) []ChoiceSummary {
	groups := collect[model.MultipleChoiceAnswer](responses)
	out := make([]ChoiceSummary, 0, len(groups))
	for _, c := range groups {
		counts := map[string]int{}
		for _, s := range c.samples {
			counts[string(s.value)]++
		}
		total := len(c.samples)
		out = append(out, ChoiceSummary{Meta: c.meta, TotalResponses: total, Options: optionCounts(counts, total)})
	}
	return out
}

// Checklists counts, per option, the responses that selected it.
func Checklists(responses []model.SurveyResponse) []ChecklistSummary {
	groups := collect[model.ChecklistAnswer](responses)
	out := make([]ChecklistSummary, 0, len(groups))
	for _, c := range groups {
		counts := map[string]int{}
		selections := 0
		for _, s := range c.samples {
			picked := map[string]struct{}{}
			for _, opt := range s.value {
				if _, dup := picked[opt]; dup || opt == "" {
					continue
				}
				picked[opt] = struct{}{}
				counts[opt]++
				selections++
			}
		}
		total := len(c.samples)
		out = append(out, ChecklistSummary{
			Meta:            c.meta,
			TotalResponses:  total,
			TotalSelections: selections,
			Options:         optionCounts(counts, total),
		})
	}
	return out
}

// Texts collects free-text answers.
func Texts(responses []model.SurveyResponse) []TextSummary {
	groups := collect[model.TextAnswer](responses)
	out := make([]TextSummary, 0, len(groups))
	for _, c := range groups {
		entries := make([]TextEntry, 0, len(c.samples))
		for _, s := range c.samples {
			entries = append(entries, TextEntry{
				ResponseID:   s.response.ID,
				StoreName:    s.response.StoreName,
				CustomerName: s.response.CustomerInfo.Name,
				Answer:       string(s.value),
				SubmittedAt:  s.response.SubmittedAt,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].SubmittedAt.After(entries[j].SubmittedAt) })
		out = append(out, TextSummary{Meta: c.meta, TotalResponses: len(entries), Answers: entries})
	}
	return out
}

// optionCounts orders options by count, then name, with percentages of total
// rounded to two decimals.
func optionCounts(counts map[string]int, total int) []OptionCount {
	out := make([]OptionCount, 0, len(counts))
	for opt, n := range counts {
		out = append(out, OptionCount{Option: opt, Count: n, Percentage: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Option < out[j].Option
	})
	return out
}

// Percent is n/total*100 rounded half away from zero to two decimals; 0 when total is 0.
func Percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	p, _ := decimal.NewFromInt(int64(n)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		Float64()
	return p
}
