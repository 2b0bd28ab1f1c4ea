package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompletionStatus string

const (
	CompletionCompleted CompletionStatus = "completed"
	CompletionPartial   CompletionStatus = "partial"
)

// AnswerEntry is one answered question inside a response, with the text,
// section and position frozen at submission time.
type AnswerEntry struct {
	QuestionText  string
	QuestionType  QuestionType
	Answer        AnswerValue
	SectionName   string
	CategoryName  string
	SectionOrder  int
	QuestionOrder int
	GroupID       string
}

type answerEntryWire struct {
	QuestionText  string          `json:"questionText"`
	QuestionType  QuestionType    `json:"questionType"`
	Answer        json.RawMessage `json:"answer"`
	SectionName   string          `json:"sectionName,omitempty"`
	CategoryName  string          `json:"categoryName,omitempty"`
	SectionOrder  int             `json:"sectionOrder"`
	QuestionOrder int             `json:"questionOrder"`
	GroupID       string          `json:"groupId,omitempty"`
}

func (e AnswerEntry) MarshalJSON() ([]byte, error) {
	raw := json.RawMessage("null")
	if e.Answer != nil {
		b, err := json.Marshal(e.Answer)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(answerEntryWire{
		QuestionText:  e.QuestionText,
		QuestionType:  e.QuestionType,
		Answer:        raw,
		SectionName:   e.SectionName,
		CategoryName:  e.CategoryName,
		SectionOrder:  e.SectionOrder,
		QuestionOrder: e.QuestionOrder,
		GroupID:       e.GroupID,
	})
}

// UnmarshalJSON never fails on the answer itself: a value that does not fit
// the question type is read as no answer.
func (e *AnswerEntry) UnmarshalJSON(data []byte) error {
	var w answerEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	answer, err := DecodeStoredAnswer(w.QuestionType, w.Answer)
	if err != nil {
		answer = nil
	}
	*e = AnswerEntry{
		QuestionText:  w.QuestionText,
		QuestionType:  w.QuestionType,
		Answer:        answer,
		SectionName:   w.SectionName,
		CategoryName:  w.CategoryName,
		SectionOrder:  w.SectionOrder,
		QuestionOrder: w.QuestionOrder,
		GroupID:       w.GroupID,
	}
	return nil
}

// Answers 응답 맵 (questionId -> AnswerEntry), JSON 컬럼으로 저장
type Answers map[string]AnswerEntry

// Value는 database/sql/driver.Valuer 인터페이스 구현
func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (a *Answers) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan Answers")
	}
	out := Answers{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

func (Answers) GormDataType() string {
	return "json"
}

// GroupOrder is the snapshot of one section's position and question order.
type GroupOrder struct {
	GroupID     string   `json:"groupId"`
	GroupName   string   `json:"groupName"`
	Order       int      `json:"order"`
	QuestionIDs []string `json:"questionIds"`
}

type CustomerInfo struct {
	Name  string `gorm:"column:customer_name;type:varchar(150)" json:"name"`
	Phone string `gorm:"column:customer_phone;type:varchar(30);index" json:"phone,omitempty"`
}

type ResponseMetadata struct {
	TotalQuestions int     `json:"totalQuestions"`
	CompletionRate float64 `json:"completionRate"`
}

// SurveyResponse 고객 1회 제출분. 작성 후 수정하지 않고 삭제만 허용
type SurveyResponse struct {
	ID                  string                          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreID             string                          `gorm:"type:varchar(36);not null;index:idx_response_store_submitted,priority:1" json:"storeId"`
	StoreName           string                          `gorm:"type:varchar(150)" json:"storeName"`
	CustomerInfo        CustomerInfo                    `gorm:"embedded" json:"customerInfo"`
	Answers             Answers                         `json:"answers"`
	QuestionGroupNames  datatypes.JSONSlice[string]     `json:"questionGroupNames"`
	QuestionGroupsOrder datatypes.JSONSlice[GroupOrder] `json:"questionGroupsOrder,omitempty"`
	SubmittedAt         time.Time                       `gorm:"not null;index:idx_response_store_submitted,priority:2" json:"submittedAt"`
	CompletionStatus    CompletionStatus                `gorm:"type:varchar(20)" json:"completionStatus"`
	Metadata            ResponseMetadata                `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

func (r *SurveyResponse) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// HasOrderSnapshot is false for documents written before the order snapshot existed.
func (r *SurveyResponse) HasOrderSnapshot() bool {
	return len(r.QuestionGroupsOrder) > 0
}
