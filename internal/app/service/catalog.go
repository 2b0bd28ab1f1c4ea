package service

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/ikkim/survei-backend/pkg/logger"
)

// catalog loads the live question catalog a store's survey is built from.
type catalog struct {
	groupRepo    repository.QuestionGroupRepository
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
}

// walk resolves the store's survey. Inactive groups and questions are
// treated like deleted ones and dropped.
func (c *catalog) walk(store *model.Store) (survey.Walk, error) {
	groups, err := c.groupRepo.FindByIDs(store.QuestionGroupIDs)
	if err != nil {
		logger.Error("Failed to load question groups for walk", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return nil, err
	}

	var questionIDs []string
	activeGroups := make([]model.QuestionGroup, 0, len(groups))
	for _, g := range groups {
		if !g.IsActive {
			continue
		}
		activeGroups = append(activeGroups, g)
		questionIDs = append(questionIDs, g.QuestionIDs...)
	}

	questions, err := c.questionRepo.FindByIDs(model.UniqueIDs(questionIDs))
	if err != nil {
		logger.Error("Failed to load questions for walk", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return nil, err
	}
	activeQuestions := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.IsActive {
			activeQuestions = append(activeQuestions, q)
		}
	}

	walk := survey.ResolveWalk(
		store.QuestionGroupIDs,
		survey.Index(activeGroups, func(g model.QuestionGroup) string { return g.ID }),
		survey.Index(activeQuestions, func(q model.Question) string { return q.ID }),
	)

	logger.Debug("Survey walk resolved", map[string]interface{}{
		"store_id":        store.ID,
		"section_count":   len(walk),
		"total_questions": walk.TotalQuestions(),
	})
	return walk, nil
}

// categoryNames maps category id to name, including inactive categories.
func (c *catalog) categoryNames() (map[string]string, error) {
	categories, err := c.categoryRepo.FindAll(false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
