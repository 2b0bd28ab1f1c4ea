package survey

import (
	"sort"

	"github.com/ikkim/survei-backend/internal/app/model"
)

// ResponseItem is one answered question of a stored response.
type ResponseItem struct {
	QuestionID    string             `json:"questionId"`
	QuestionText  string             `json:"questionText"`
	QuestionType  model.QuestionType `json:"questionType"`
	CategoryName  string             `json:"categoryName,omitempty"`
	QuestionOrder int                `json:"questionOrder"`
	Answer        model.AnswerValue  `json:"answer"`
}

// ResponseSection is one section of a stored response in display order.
type ResponseSection struct {
	GroupID string         `json:"groupId,omitempty"`
	Name    string         `json:"name"`
	Order   int            `json:"order"`
	Items   []ResponseItem `json:"items"`
}

func itemOf(id string, e model.AnswerEntry) ResponseItem {
	return ResponseItem{
		QuestionID:    id,
		QuestionText:  e.QuestionText,
		QuestionType:  e.QuestionType,
		CategoryName:  e.CategoryName,
		QuestionOrder: e.QuestionOrder,
		Answer:        e.Answer,
	}
}

// Reconstruct lays out a stored response for display. The order snapshot is
// authoritative when present; older documents are grouped by section name and
// sorted by the positions stored on each answer.
func Reconstruct(resp *model.SurveyResponse) []ResponseSection {
	if resp.HasOrderSnapshot() {
		return fromSnapshot(resp)
	}
	return fromEntries(resp.Answers)
}

func fromSnapshot(resp *model.SurveyResponse) []ResponseSection {
	groups := make([]model.GroupOrder, len(resp.QuestionGroupsOrder))
	copy(groups, resp.QuestionGroupsOrder)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })

	seen := make(map[string]struct{}, len(resp.Answers))
	sections := make([]ResponseSection, 0, len(groups))
	for _, g := range groups {
		section := ResponseSection{GroupID: g.GroupID, Name: g.GroupName, Order: g.Order, Items: []ResponseItem{}}
		for _, id := range g.QuestionIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			entry, ok := resp.Answers[id]
			if !ok {
				continue
			}
			seen[id] = struct{}{}
			section.Items = append(section.Items, itemOf(id, entry))
		}
		sections = append(sections, section)
	}
	return sections
}

func fromEntries(answers model.Answers) []ResponseSection {
	byName := map[string]*ResponseSection{}
	var names []string
	for id, e := range answers {
		s, ok := byName[e.SectionName]
		if !ok {
			s = &ResponseSection{GroupID: e.GroupID, Name: e.SectionName, Order: e.SectionOrder}
			byName[e.SectionName] = s
			names = append(names, e.SectionName)
		}
		if e.SectionOrder < s.Order {
			s.Order = e.SectionOrder
		}
		if s.GroupID == "" {
			s.GroupID = e.GroupID
		}
		s.Items = append(s.Items, itemOf(id, e))
	}

	sections := make([]ResponseSection, 0, len(names))
	for _, name := range names {
		s := byName[name]
		sort.Slice(s.Items, func(i, j int) bool {
			if s.Items[i].QuestionOrder != s.Items[j].QuestionOrder {
				return s.Items[i].QuestionOrder < s.Items[j].QuestionOrder
			}
			return s.Items[i].QuestionID < s.Items[j].QuestionID
		})
		sections = append(sections, *s)
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Order != sections[j].Order {
			return sections[i].Order < sections[j].Order
		}
		return sections[i].Name < sections[j].Name
	})
	return sections
}
