package service

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/pkg/logger"
)

type QuestionInput struct {
	Text            string
	Type            model.QuestionType
	Options         []string
	ChecklistLimits *model.ChecklistLimits
	CategoryID      string
	CategoryIDs     []string // 다중 선택 입력, 첫 번째만 저장
	ImageURL        string
	IsActive        *bool
}

// categoryID picks the single category to persist.
func (in QuestionInput) categoryID() string {
	if in.CategoryID != "" {
		return in.CategoryID
	}
	for _, id := range in.CategoryIDs {
		if id != "" {
			return id
		}
	}
	return ""
}

type QuestionService interface {
	List(filter repository.QuestionFilter) ([]model.Question, error)
	Get(id string) (*model.Question, error)
	Create(actor *model.User, input QuestionInput) (*model.Question, error)
	Update(actor *model.User, id string, input QuestionInput) (*model.Question, error)
	Delete(actor *model.User, id string) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, categoryRepo repository.CategoryRepository) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *questionService) List(filter repository.QuestionFilter) ([]model.Question, error) {
	return s.questionRepo.FindAll(filter)
}

func (s *questionService) Get(id string) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionNotFound)
	}
	return question, nil
}

func (s *questionService) Create(actor *model.User, input QuestionInput) (*model.Question, error) {
	if !actor.CanManageQuestions() {
		return nil, ErrForbidden
	}

	question := &model.Question{IsActive: true}
	if err := s.apply(question, input); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	logger.Info("Question created", map[string]interface{}{
		"question_id": question.ID,
		"type":        question.Type,
		"actor_id":    actor.ID,
	})
	return s.questionRepo.FindByID(question.ID)
}

func (s *questionService) Update(actor *model.User, id string, input QuestionInput) (*model.Question, error) {
	if !actor.CanManageQuestions() {
		return nil, ErrForbidden
	}
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionNotFound)
	}
	if err := s.apply(question, input); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}

	logger.Info("Question updated", map[string]interface{}{
		"question_id": question.ID,
		"actor_id":    actor.ID,
	})
	return s.questionRepo.FindByID(question.ID)
}

// Delete soft deletes the question. Groups still listing it drop it when
// resolved.
func (s *questionService) Delete(actor *model.User, id string) error {
	if !actor.CanManageQuestions() {
		return ErrForbidden
	}
	if err := s.questionRepo.Delete(id); err != nil {
		return translate(err, ErrQuestionNotFound)
	}
	logger.Info("Question deleted", map[string]interface{}{
		"question_id": id,
		"actor_id":    actor.ID,
	})
	return nil
}

func (s *questionService) apply(q *model.Question, input QuestionInput) error {
	q.Text = input.Text
	q.Type = input.Type
	q.Options = input.Options
	q.ChecklistLimits = input.ChecklistLimits
	q.CategoryID = input.categoryID()
	q.ImageURL = input.ImageURL
	if input.IsActive != nil {
		q.IsActive = *input.IsActive
	}

	q.Normalize()
	if err := q.Validate(); err != nil {
		logger.Warn("Question validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	if q.CategoryID != "" {
		if _, err := s.categoryRepo.FindByID(q.CategoryID); err != nil {
			return translate(err, ErrCategoryNotFound)
		}
	}
	return nil
}
