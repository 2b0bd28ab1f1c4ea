package service

import (
	"fmt"
	"sort"

	"github.com/ikkim/survei-backend/internal/app/access"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/ikkim/survei-backend/pkg/logger"
)

type StoreListOptions struct {
	Region string
	City   string
	Area   string
	Search string
}

type StoreInput struct {
	Name          string
	Address       string
	City          string
	Region        string
	Area          string
	PhoneNumber   string
	Email         string
	ContactPerson string
	ImageURL      string
	IsActive      *bool
}

type StoreLocationSummary struct {
	Region     string `json:"region"`
	City       string `json:"city"`
	Area       string `json:"area"`
	StoreCount int64  `json:"storeCount"`
}

type StoreService interface {
	ListAccessible(actor *model.User, opts StoreListOptions) ([]model.Store, error)
	ListLocations(actor *model.User) ([]StoreLocationSummary, error)
	Get(actor *model.User, id string) (*model.Store, error)
	Create(actor *model.User, input StoreInput) (*model.Store, error)
	Update(actor *model.User, id string, input StoreInput) (*model.Store, error)
	Delete(actor *model.User, id string) error
	ListManagers(actor *model.User, id string) ([]model.User, error)
	AddManager(actor *model.User, id, userID string) (*model.Store, error)
	RemoveManager(actor *model.User, id, userID string) (*model.Store, error)
	AssignGroups(actor *model.User, id string, groupIDs []string) (*model.Store, error)
	ReorderGroups(actor *model.User, id string, from, to int) (*model.Store, error)
	SurveyLink(actor *model.User, id string) (string, error)
	Walk(actor *model.User, id string) (survey.Walk, error)
}

type storeService struct {
	storeRepo     repository.StoreRepository
	userRepo      repository.UserRepository
	catalog       *catalog
	publicBaseURL string
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	groupRepo repository.QuestionGroupRepository,
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	publicBaseURL string,
) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		catalog: &catalog{
			groupRepo:    groupRepo,
			questionRepo: questionRepo,
			categoryRepo: categoryRepo,
		},
		publicBaseURL: publicBaseURL,
	}
}

func (s *storeService) ListAccessible(actor *model.User, opts StoreListOptions) ([]model.Store, error) {
	logger.Debug("Listing stores", map[string]interface{}{
		"actor_id": actorID(actor),
		"region":   opts.Region,
		"city":     opts.City,
		"area":     opts.Area,
		"search":   opts.Search,
	})

	stores, err := s.storeRepo.FindAll(repository.StoreFilter{
		Region: opts.Region,
		City:   opts.City,
		Area:   opts.Area,
		Search: opts.Search,
	})
	if err != nil {
		logger.Error("Failed to list stores", err)
		return nil, err
	}

	accessible := access.FilterAccessibleStores(actor, stores)
	logger.Info("Stores fetched", map[string]interface{}{
		"actor_id":   actorID(actor),
		"count":      len(accessible),
		"total_seen": len(stores),
	})
	return accessible, nil
}

// ListLocations counts accessible stores per region, city and area.
func (s *storeService) ListLocations(actor *model.User) ([]StoreLocationSummary, error) {
	stores, err := s.ListAccessible(actor, StoreListOptions{})
	if err != nil {
		return nil, err
	}

	type key struct{ region, city, area string }
	counts := make(map[key]int64)
	for _, st := range stores {
		counts[key{st.Region, st.City, st.Area}]++
	}

	out := make([]StoreLocationSummary, 0, len(counts))
	for k, n := range counts {
		out = append(out, StoreLocationSummary{Region: k.region, City: k.city, Area: k.area, StoreCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].Area < out[j].Area
	})
	return out, nil
}

// Get reports stores the actor cannot access as not found.
func (s *storeService) Get(actor *model.User, id string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrStoreNotFound)
	}
	if !access.CanAccessStore(actor, store) {
		logger.Warn("Store access denied", map[string]interface{}{
			"store_id": id,
			"actor_id": actorID(actor),
		})
		return nil, ErrStoreNotFound
	}
	return store, nil
}

func (s *storeService) Create(actor *model.User, input StoreInput) (*model.Store, error) {
	if !access.CanCreateStore(actor) {
		logger.Warn("Store creation denied", map[string]interface{}{
			"actor_id": actorID(actor),
		})
		return nil, ErrForbidden
	}

	store := &model.Store{
		CreatedBy: actor.ID,
		Managers:  []string{actor.ID},
		IsActive:  true,
	}
	applyStoreInput(store, input)
	store.Normalize()
	if err := store.Validate(); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}
	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
		"actor_id": actor.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

func (s *storeService) Update(actor *model.User, id string, input StoreInput) (*model.Store, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	applyStoreInput(store, input)
	store.Normalize()
	if err := store.Validate(); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	logger.Info("Store updated", map[string]interface{}{
		"store_id": store.ID,
		"actor_id": actor.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

// Delete soft deletes the store; its responses stay in place but are no
// longer reachable.
func (s *storeService) Delete(actor *model.User, id string) error {
	store, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if !access.CanManageManagers(actor, store) {
		return ErrForbidden
	}

	if err := s.storeRepo.Delete(id); err != nil {
		return translate(err, ErrStoreNotFound)
	}
	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"actor_id": actor.ID,
	})
	return nil
}

// ListManagers returns the effective managers, creator first. Ids of deleted
// users are skipped.
func (s *storeService) ListManagers(actor *model.User, id string) ([]model.User, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	ids := store.EffectiveManagers()
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	return survey.ResolveOrdered(ids, survey.Index(users, func(u model.User) string { return u.ID })), nil
}

func (s *storeService) AddManager(actor *model.User, id, userID string) (*model.Store, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManageManagers(actor, store) {
		return nil, ErrForbidden
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if store.IsManager(userID) {
		return store, nil
	}

	store.Managers = append(store.Managers, userID)
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	logger.Info("Store manager added", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  userID,
		"actor_id": actor.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

func (s *storeService) RemoveManager(actor *model.User, id, userID string) (*model.Store, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManageManagers(actor, store) {
		return nil, ErrForbidden
	}
	if userID == store.CreatedBy {
		return nil, ErrCannotRemoveCreator
	}

	kept := make([]string, 0, len(store.Managers))
	for _, m := range store.Managers {
		if m != userID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(store.Managers) {
		return store, nil
	}
	store.Managers = kept
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	logger.Info("Store manager removed", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  userID,
		"actor_id": actor.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

// AssignGroups replaces the store's ordered group list. Every id must name an
// existing group.
func (s *storeService) AssignGroups(actor *model.User, id string, groupIDs []string) (*model.Store, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	ids := model.UniqueIDs(groupIDs)
	if len(ids) > 0 {
		found, err := s.catalog.groupRepo.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
		if len(found) != len(ids) {
			logger.Warn("Store assignment references unknown groups", map[string]interface{}{
				"store_id":  store.ID,
				"requested": len(ids),
				"found":     len(found),
			})
			return nil, ErrUnknownQuestionGroup
		}
	}

	store.QuestionGroupIDs = ids
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	logger.Info("Store question groups assigned", map[string]interface{}{
		"store_id":    store.ID,
		"group_count": len(ids),
		"actor_id":    actor.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

func (s *storeService) ReorderGroups(actor *model.User, id string, from, to int) (*model.Store, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	moved, err := survey.Move(store.QuestionGroupIDs, from, to)
	if err != nil {
		return nil, err
	}
	store.QuestionGroupIDs = moved
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	logger.Info("Store question groups reordered", map[string]interface{}{
		"store_id": store.ID,
		"from":     from,
		"to":       to,
	})
	return s.storeRepo.FindByID(store.ID)
}

// SurveyLink is the public survey URL encoded into the store's QR code.
func (s *storeService) SurveyLink(actor *model.User, id string) (string, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/survey/%s", s.publicBaseURL, store.ID), nil
}

func (s *storeService) Walk(actor *model.User, id string) (survey.Walk, error) {
	store, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	return s.catalog.walk(store)
}

func applyStoreInput(store *model.Store, input StoreInput) {
	store.Name = input.Name
	store.Address = input.Address
	store.City = input.City
	store.Region = input.Region
	store.Area = input.Area
	store.PhoneNumber = input.PhoneNumber
	store.Email = input.Email
	store.ContactPerson = input.ContactPerson
	store.ImageURL = input.ImageURL
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}
}
