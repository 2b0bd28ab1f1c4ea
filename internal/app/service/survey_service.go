package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/survei-backend/internal/app/access"
	"github.com/ikkim/survei-backend/internal/app/analytics"
	"github.com/ikkim/survei-backend/internal/app/export"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/ikkim/survei-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// FormQuestion is a question of the public form with its mandatory flag.
type FormQuestion struct {
	model.Question
	Mandatory bool `json:"mandatory"`
}

type FormSection struct {
	GroupID     string         `json:"groupId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Order       int            `json:"order"`
	Questions   []FormQuestion `json:"questions"`
}

// PublicForm is what an anonymous customer sees for one store.
type PublicForm struct {
	StoreID        string        `json:"storeId"`
	StoreName      string        `json:"storeName"`
	Sections       []FormSection `json:"sections"`
	TotalQuestions int           `json:"totalQuestions"`
}

type SubmitInput struct {
	Customer model.CustomerInfo
	Answers  map[string]json.RawMessage
}

// ResponseQuery filters responses across stores. Empty StoreIDs means every
// store the actor may read.
type ResponseQuery struct {
	StoreIDs []string
	From     *time.Time
	To       *time.Time
	Search   string
	Limit    int
}

type ResponseDetail struct {
	Response *model.SurveyResponse    `json:"response"`
	Sections []survey.ResponseSection `json:"sections"`
}

type StoreSummary struct {
	StoreID         string     `json:"storeId"`
	StoreName       string     `json:"storeName"`
	ResponseCount   int64      `json:"responseCount"`
	LastSubmittedAt *time.Time `json:"lastSubmittedAt,omitempty"`
}

type ExportFile struct {
	Filename string
	Content  []byte
}

type SurveyService interface {
	PublicForm(storeID string) (*PublicForm, error)
	Submit(storeID string, input SubmitInput) (*model.SurveyResponse, error)
	ListResponses(ctx context.Context, actor *model.User, query ResponseQuery) ([]model.SurveyResponse, error)
	GetResponse(actor *model.User, storeID, responseID string) (*ResponseDetail, error)
	DeleteResponse(actor *model.User, storeID, responseID string) error
	Analytics(ctx context.Context, actor *model.User, query ResponseQuery) (*analytics.Summary, error)
	StoreSummaries(ctx context.Context, actor *model.User) ([]StoreSummary, error)
	Export(ctx context.Context, actor *model.User, query ResponseQuery, format export.Format) (*ExportFile, error)
}

type surveyService struct {
	storeRepo    repository.StoreRepository
	responseRepo repository.SurveyResponseRepository
	catalog      *catalog
	concurrency  int
	location     *time.Location
	now          func() time.Time
}

func NewSurveyService(
	storeRepo repository.StoreRepository,
	responseRepo repository.SurveyResponseRepository,
	groupRepo repository.QuestionGroupRepository,
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	concurrency int,
	location *time.Location,
) SurveyService {
	if concurrency < 1 {
		concurrency = 1
	}
	if location == nil {
		location = time.UTC
	}
	return &surveyService{
		storeRepo:    storeRepo,
		responseRepo: responseRepo,
		catalog: &catalog{
			groupRepo:    groupRepo,
			questionRepo: questionRepo,
			categoryRepo: categoryRepo,
		},
		concurrency: concurrency,
		location:    location,
		now:         time.Now,
	}
}

// publicStore loads a store for the anonymous flow; inactive stores do not
// take responses.
func (s *surveyService) publicStore(storeID string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return nil, translate(err, ErrStoreNotFound)
	}
	if !store.IsActive {
		logger.Warn("Survey requested for inactive store", map[string]interface{}{
			"store_id": storeID,
		})
		return nil, ErrStoreInactive
	}
	return store, nil
}

func (s *surveyService) PublicForm(storeID string) (*PublicForm, error) {
	store, err := s.publicStore(storeID)
	if err != nil {
		return nil, err
	}
	walk, err := s.catalog.walk(store)
	if err != nil {
		return nil, err
	}

	form := &PublicForm{
		StoreID:        store.ID,
		StoreName:      store.Name,
		Sections:       make([]FormSection, 0, len(walk)),
		TotalQuestions: walk.TotalQuestions(),
	}
	for i, sec := range walk {
		fs := FormSection{
			GroupID:     sec.Group.ID,
			Name:        sec.Group.Name,
			Description: sec.Group.Description,
			Order:       i,
			Questions:   make([]FormQuestion, 0, len(sec.Questions)),
		}
		for _, q := range sec.Questions {
			fs.Questions = append(fs.Questions, FormQuestion{Question: q, Mandatory: sec.Group.IsMandatory(q.ID)})
		}
		form.Sections = append(form.Sections, fs)
	}
	return form, nil
}

func (s *surveyService) Submit(storeID string, input SubmitInput) (*model.SurveyResponse, error) {
	store, err := s.publicStore(storeID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return nil, ErrCustomerNameRequired
	}

	walk, err := s.catalog.walk(store)
	if err != nil {
		return nil, err
	}
	answers, err := survey.DecodeAnswers(walk, input.Answers)
	if err != nil {
		logger.Warn("Survey submission rejected: invalid answer", map[string]interface{}{
			"store_id": storeID,
			"error":    err.Error(),
		})
		return nil, err
	}
	categoryNames, err := s.catalog.categoryNames()
	if err != nil {
		return nil, err
	}

	response, err := survey.Assemble(walk, survey.Submission{
		StoreID:   store.ID,
		StoreName: store.Name,
		Customer:  input.Customer,
		Answers:   answers,
	}, categoryNames, s.now())
	if err != nil {
		logger.Warn("Survey submission rejected", map[string]interface{}{
			"store_id": storeID,
			"error":    err.Error(),
		})
		return nil, err
	}

	if err := s.responseRepo.Create(response); err != nil {
		return nil, err
	}
	logger.Info("Survey response submitted", map[string]interface{}{
		"store_id":        store.ID,
		"response_id":     response.ID,
		"answered":        len(response.Answers),
		"completion_rate": response.Metadata.CompletionRate,
	})
	return response, nil
}

// readableStores resolves the stores a query may read. allowed is the feature
// gate; stores outside the actor's reach that are named explicitly are
// reported as not found.
func (s *surveyService) readableStores(actor *model.User, requested []string, allowed bool) ([]model.Store, error) {
	if !allowed {
		logger.Warn("Survey data access denied", map[string]interface{}{
			"actor_id": actorID(actor),
		})
		return nil, ErrForbidden
	}

	if len(requested) == 0 {
		stores, err := s.storeRepo.FindAll(repository.StoreFilter{})
		if err != nil {
			return nil, err
		}
		return access.FilterAccessibleStores(actor, stores), nil
	}

	ids := model.UniqueIDs(requested)
	stores := make([]model.Store, 0, len(ids))
	for _, id := range ids {
		store, err := s.storeRepo.FindByID(id)
		if err != nil {
			return nil, translate(err, ErrStoreNotFound)
		}
		if !access.CanAccessStore(actor, store) {
			return nil, ErrStoreNotFound
		}
		stores = append(stores, *store)
	}
	return stores, nil
}

// fetchResponses reads each store's responses concurrently. A store whose
// read fails is logged and left out. The merged result is newest first.
func (s *surveyService) fetchResponses(ctx context.Context, stores []model.Store, query ResponseQuery) ([]model.SurveyResponse, error) {
	perStore := make([][]model.SurveyResponse, len(stores))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range stores {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			list, err := s.responseRepo.FindAll(repository.ResponseFilter{
				StoreIDs: []string{stores[i].ID},
				From:     query.From,
				To:       query.To,
				Search:   query.Search,
				Limit:    query.Limit,
			})
			if err != nil {
				logger.Error("Failed to fetch store responses, skipping store", err, map[string]interface{}{
					"store_id": stores[i].ID,
				})
				return nil
			}
			perStore[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.SurveyResponse
	for _, list := range perStore {
		merged = append(merged, list...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].SubmittedAt.Equal(merged[j].SubmittedAt) {
			return merged[i].SubmittedAt.After(merged[j].SubmittedAt)
		}
		return merged[i].ID < merged[j].ID
	})
	if query.Limit > 0 && len(merged) > query.Limit {
		merged = merged[:query.Limit]
	}
	if merged == nil {
		merged = []model.SurveyResponse{}
	}
	return merged, nil
}

func (s *surveyService) ListResponses(ctx context.Context, actor *model.User, query ResponseQuery) ([]model.SurveyResponse, error) {
	stores, err := s.readableStores(actor, query.StoreIDs, actor.CanViewSurveys())
	if err != nil {
		return nil, err
	}
	responses, err := s.fetchResponses(ctx, stores, query)
	if err != nil {
		return nil, err
	}
	logger.Debug("Survey responses listed", map[string]interface{}{
		"actor_id":    actorID(actor),
		"store_count": len(stores),
		"count":       len(responses),
	})
	return responses, nil
}

func (s *surveyService) GetResponse(actor *model.User, storeID, responseID string) (*ResponseDetail, error) {
	if _, err := s.readableStores(actor, []string{storeID}, actor.CanViewSurveys()); err != nil {
		return nil, err
	}
	response, err := s.responseRepo.FindByID(storeID, responseID)
	if err != nil {
		return nil, translate(err, ErrResponseNotFound)
	}
	return &ResponseDetail{
		Response: response,
		Sections: survey.Reconstruct(response),
	}, nil
}

func (s *surveyService) DeleteResponse(actor *model.User, storeID, responseID string) error {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return translate(err, ErrStoreNotFound)
	}
	if !access.CanAccessStore(actor, store) {
		return ErrStoreNotFound
	}
	if !access.CanDeleteSurveyResponse(actor, store) {
		return ErrForbidden
	}

	if err := s.responseRepo.Delete(storeID, responseID); err != nil {
		return translate(err, ErrResponseNotFound)
	}
	logger.Info("Survey response deleted", map[string]interface{}{
		"store_id":    storeID,
		"response_id": responseID,
		"actor_id":    actor.ID,
	})
	return nil
}

func (s *surveyService) Analytics(ctx context.Context, actor *model.User, query ResponseQuery) (*analytics.Summary, error) {
	stores, err := s.readableStores(actor, query.StoreIDs, actor.CanViewSurveys())
	if err != nil {
		return nil, err
	}
	query.Limit = 0
	responses, err := s.fetchResponses(ctx, stores, query)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(responses)
	return &summary, nil
}

// StoreSummaries counts responses for every readable store. Stores whose
// stats cannot be read are left out.
func (s *surveyService) StoreSummaries(ctx context.Context, actor *model.User) ([]StoreSummary, error) {
	stores, err := s.readableStores(actor, nil, actor.CanViewSurveys())
	if err != nil {
		return nil, err
	}

	results := make([]*StoreSummary, len(stores))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range stores {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := s.responseRepo.StatsByStore(stores[i].ID)
			if err != nil {
				logger.Error("Failed to fetch store response stats, skipping store", err, map[string]interface{}{
					"store_id": stores[i].ID,
				})
				return nil
			}
			results[i] = &StoreSummary{
				StoreID:         stores[i].ID,
				StoreName:       stores[i].Name,
				ResponseCount:   stats.Count,
				LastSubmittedAt: stats.LastSubmittedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]StoreSummary, 0, len(results))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries, nil
}

func (s *surveyService) Export(ctx context.Context, actor *model.User, query ResponseQuery, format export.Format) (*ExportFile, error) {
	stores, err := s.readableStores(actor, query.StoreIDs, actor.CanExportSurveys())
	if err != nil {
		return nil, err
	}
	query.Limit = 0
	responses, err := s.fetchResponses(ctx, stores, query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, responses, s.location); err != nil {
		logger.Error("Failed to build export workbook", err, map[string]interface{}{
			"format": format,
		})
		return nil, err
	}

	logger.Info("Survey responses exported", map[string]interface{}{
		"actor_id":    actor.ID,
		"format":      format,
		"store_count": len(stores),
		"rows":        len(responses),
	})
	return &ExportFile{
		Filename: export.Filename(format, s.now().In(s.location)),
		Content:  buf.Bytes(),
	}, nil
}
