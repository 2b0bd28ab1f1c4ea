package survey

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/survei-backend/internal/app/model"
	"gorm.io/datatypes"
)

var ErrAnswerTypeMismatch = errors.New("answer does not match question type")

type MissingQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type MissingGroup struct {
	GroupID   string            `json:"groupId"`
	GroupName string            `json:"groupName"`
	Questions []MissingQuestion `json:"questions"`
}

// MissingAnswersError lists unanswered mandatory questions per group.
type MissingAnswersError struct {
	Groups []MissingGroup
}

func (e *MissingAnswersError) Error() string {
	parts := make([]string, 0, len(e.Groups))
	for _, g := range e.Groups {
		texts := make([]string, 0, len(g.Questions))
		for _, q := range g.Questions {
			texts = append(texts, q.Text)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", g.GroupName, strings.Join(texts, ", ")))
	}
	return "mandatory questions unanswered: " + strings.Join(parts, "; ")
}

// CheckMandatory reports every mandatory question of the walk without a
// non-empty answer. Mandatory ids that are not part of the walk are ignored.
func CheckMandatory(walk Walk, answers map[string]model.AnswerValue) error {
	var missing []MissingGroup
	for _, s := range walk {
		var qs []MissingQuestion
		for _, q := range s.Questions {
			if s.Group.IsMandatory(q.ID) && model.AnswerIsEmpty(answers[q.ID]) {
				qs = append(qs, MissingQuestion{ID: q.ID, Text: q.Text})
			}
		}
		if len(qs) > 0 {
			missing = append(missing, MissingGroup{GroupID: s.Group.ID, GroupName: s.Group.Name, Questions: qs})
		}
	}
	if len(missing) > 0 {
		return &MissingAnswersError{Groups: missing}
	}
	return nil
}

// Submission is what a customer sends for one store.
type Submission struct {
	StoreID   string
	StoreName string
	Customer  model.CustomerInfo
	Answers   map[string]model.AnswerValue
}

// Assemble validates a submission against the walk and builds the response
// document. Nothing is built when a mandatory answer is missing. Only non-empty
// answers to questions of the walk are stored; a question listed in several
// groups is stored under its first group.
func Assemble(walk Walk, sub Submission, categoryNames map[string]string, submittedAt time.Time) (*model.SurveyResponse, error) {
	if err := CheckMandatory(walk, sub.Answers); err != nil {
		return nil, err
	}

	answers := model.Answers{}
	groupNames := make(datatypes.JSONSlice[string], 0, len(walk))
	order := make(datatypes.JSONSlice[model.GroupOrder], 0, len(walk))

	for sectionOrder, s := range walk {
		groupNames = append(groupNames, s.Group.Name)
		order = append(order, model.GroupOrder{
			GroupID:     s.Group.ID,
			GroupName:   s.Group.Name,
			Order:       sectionOrder,
			QuestionIDs: append([]string{}, s.Group.QuestionIDs...),
		})

		for questionOrder, q := range s.Questions {
			if _, done := answers[q.ID]; done {
				continue
			}
			a := sub.Answers[q.ID]
			if model.AnswerIsEmpty(a) {
				continue
			}
			if a.QuestionType() != q.Type {
				return nil, fmt.Errorf("%w: question %s is %s, got %s", ErrAnswerTypeMismatch, q.ID, q.Type, a.QuestionType())
			}
			answers[q.ID] = model.AnswerEntry{
				QuestionText:  q.Text,
				QuestionType:  q.Type,
				Answer:        a,
				SectionName:   s.Group.Name,
				CategoryName:  categoryNames[q.CategoryID],
				SectionOrder:  sectionOrder,
				QuestionOrder: questionOrder,
				GroupID:       s.Group.ID,
			}
		}
	}

	total := walk.TotalQuestions()
	answered := len(answers)
	rate := 0.0
	if total > 0 {
		rate = float64(answered) / float64(total) * 100
	}
	status := model.CompletionPartial
	if answered >= total {
		status = model.CompletionCompleted
	}

	return &model.SurveyResponse{
		StoreID:   sub.StoreID,
		StoreName: sub.StoreName,
		CustomerInfo: model.CustomerInfo{
			Name:  strings.TrimSpace(sub.Customer.Name),
			Phone: strings.TrimSpace(sub.Customer.Phone),
		},
		Answers:             answers,
		QuestionGroupNames:  groupNames,
		QuestionGroupsOrder: order,
		SubmittedAt:         submittedAt,
		CompletionStatus:    status,
		Metadata: model.ResponseMetadata{
			TotalQuestions: total,
			CompletionRate: rate,
		},
	}, nil
}
