package service

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/ikkim/survei-backend/pkg/logger"
)

type QuestionGroupInput struct {
	Name        string
	Description string
	QuestionIDs []string
	// MandatoryQuestionIDs nil on update keeps the current mandatory set,
	// minus ids no longer in the group.
	MandatoryQuestionIDs []string
	IsActive             *bool
}

type QuestionGroupService interface {
	List(activeOnly bool) ([]model.QuestionGroup, error)
	Get(id string) (*model.QuestionGroup, error)
	Create(actor *model.User, input QuestionGroupInput) (*model.QuestionGroup, error)
	Update(actor *model.User, id string, input QuestionGroupInput) (*model.QuestionGroup, error)
	Delete(actor *model.User, id string) error
	ReorderQuestions(actor *model.User, id string, from, to int) (*model.QuestionGroup, error)
	ResolveQuestions(id string) ([]model.Question, error)
}

type questionGroupService struct {
	groupRepo    repository.QuestionGroupRepository
	questionRepo repository.QuestionRepository
}

func NewQuestionGroupService(groupRepo repository.QuestionGroupRepository, questionRepo repository.QuestionRepository) QuestionGroupService {
	return &questionGroupService{
		groupRepo:    groupRepo,
		questionRepo: questionRepo,
	}
}

func (s *questionGroupService) List(activeOnly bool) ([]model.QuestionGroup, error) {
	return s.groupRepo.FindAll(activeOnly)
}

func (s *questionGroupService) Get(id string) (*model.QuestionGroup, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionGroupNotFound)
	}
	return group, nil
}

func (s *questionGroupService) Create(actor *model.User, input QuestionGroupInput) (*model.QuestionGroup, error) {
	if !actor.CanManageGroups() {
		return nil, ErrForbidden
	}

	group := &model.QuestionGroup{
		Name:                 input.Name,
		Description:          input.Description,
		QuestionIDs:          input.QuestionIDs,
		MandatoryQuestionIDs: input.MandatoryQuestionIDs,
		IsActive:             true,
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}
	if err := s.validate(group); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	logger.Info("Question group created", map[string]interface{}{
		"group_id":       group.ID,
		"question_count": len(group.QuestionIDs),
		"actor_id":       actor.ID,
	})
	return s.groupRepo.FindByID(group.ID)
}

func (s *questionGroupService) Update(actor *model.User, id string, input QuestionGroupInput) (*model.QuestionGroup, error) {
	if !actor.CanManageGroups() {
		return nil, ErrForbidden
	}
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionGroupNotFound)
	}

	group.Name = input.Name
	group.Description = input.Description
	group.QuestionIDs = input.QuestionIDs
	if input.MandatoryQuestionIDs != nil {
		group.MandatoryQuestionIDs = input.MandatoryQuestionIDs
	} else {
		group.PruneMandatory()
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}
	if err := s.validate(group); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}

	logger.Info("Question group updated", map[string]interface{}{
		"group_id": group.ID,
		"actor_id": actor.ID,
	})
	return s.groupRepo.FindByID(group.ID)
}

// Delete soft deletes the group. Stores listing it drop it when resolved.
func (s *questionGroupService) Delete(actor *model.User, id string) error {
	if !actor.CanManageGroups() {
		return ErrForbidden
	}
	if err := s.groupRepo.Delete(id); err != nil {
		return translate(err, ErrQuestionGroupNotFound)
	}
	logger.Info("Question group deleted", map[string]interface{}{
		"group_id": id,
		"actor_id": actor.ID,
	})
	return nil
}

func (s *questionGroupService) ReorderQuestions(actor *model.User, id string, from, to int) (*model.QuestionGroup, error) {
	if !actor.CanManageGroups() {
		return nil, ErrForbidden
	}
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionGroupNotFound)
	}

	moved, err := survey.Move(group.QuestionIDs, from, to)
	if err != nil {
		return nil, err
	}
	group.QuestionIDs = moved
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}

	logger.Info("Question group reordered", map[string]interface{}{
		"group_id": group.ID,
		"from":     from,
		"to":       to,
	})
	return s.groupRepo.FindByID(group.ID)
}

// ResolveQuestions returns the group's existing questions in group order.
func (s *questionGroupService) ResolveQuestions(id string) ([]model.Question, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrQuestionGroupNotFound)
	}
	questions, err := s.questionRepo.FindByIDs(group.QuestionIDs)
	if err != nil {
		return nil, err
	}
	return survey.ResolveOrdered(group.QuestionIDs, survey.Index(questions, func(q model.Question) string { return q.ID })), nil
}

// validate normalizes the group, checks its invariants and rejects question
// ids that do not exist.
func (s *questionGroupService) validate(group *model.QuestionGroup) error {
	group.Normalize()
	if err := group.Validate(); err != nil {
		logger.Warn("Question group validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if len(group.QuestionIDs) == 0 {
		return nil
	}

	found, err := s.questionRepo.FindByIDs(group.QuestionIDs)
	if err != nil {
		return err
	}
	if len(found) != len(group.QuestionIDs) {
		logger.Warn("Question group references unknown questions", map[string]interface{}{
			"requested": len(group.QuestionIDs),
			"found":     len(found),
		})
		return ErrUnknownQuestion
	}
	return nil
}
