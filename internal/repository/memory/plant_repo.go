// Package memory хранит растения в памяти процесса. Данные теряются при перезапуске.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/google/uuid"
)

// PlantRepo — потокобезопасная реализация хранилища растений в памяти.
// Уникальность имени проверяется под той же блокировкой, что и запись.
type PlantRepo struct {
	mu     sync.RWMutex
	plants map[string]domain.Plant
	now    func() time.Time
}

func NewPlantRepo() *PlantRepo {
	return &PlantRepo{
		plants: make(map[string]domain.Plant),
		now:    time.Now,
	}
}

func (r *PlantRepo) Find(_ context.Context, filter usecase.ListFilter) ([]domain.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Plant, 0)
	for _, p := range r.plants {
		if matches(p, filter) {
			result = append(result, clonePlant(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *PlantRepo) DistinctCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range r.plants {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)

	return categories, nil
}

func (r *PlantRepo) Insert(_ context.Context, input *usecase.PlantInput) (*domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(input.Name, "") {
		return nil, e.ErrNameConflict
	}

	now := r.now().UTC()
	plant := domain.Plant{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&plant, input)
	r.plants[plant.ID] = plant

	created := clonePlant(plant)
	return &created, nil
}

func (r *PlantRepo) ReplaceByID(_ context.Context, id string, input *usecase.PlantInput) (*domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plant, ok := r.plants[id]
	if !ok {
		return nil, e.ErrPlantNotFound
	}
	if r.nameTaken(input.Name, id) {
		return nil, e.ErrNameConflict
	}

	apply(&plant, input)
	plant.UpdatedAt = r.now().UTC()
	r.plants[id] = plant

	updated := clonePlant(plant)
	return &updated, nil
}

func (r *PlantRepo) DeleteByID(_ context.Context, id string) (*domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plant, ok := r.plants[id]
	if !ok {
		return nil, e.ErrPlantNotFound
	}
	delete(r.plants, id)

	return &plant, nil
}

func (r *PlantRepo) nameTaken(name, exceptID string) bool {
	for id, p := range r.plants {
		if p.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

// apply переносит поля записи в растение. Отсутствующие необязательные поля сохраняют прежние значения.
func apply(plant *domain.Plant, input *usecase.PlantInput) {
	plant.Name = input.Name
	plant.Price = input.Price
	plant.Categories = append([]string(nil), input.Categories...)
	plant.Availability = input.Availability
	if input.ImageURL != nil {
		v := *input.ImageURL
		plant.ImageURL = &v
	}
	if input.Description != nil {
		v := *input.Description
		plant.Description = &v
	}
}

func matches(p domain.Plant, filter usecase.ListFilter) bool {
	if filter.Search != nil && !matchesText(p, filter.Search.Terms) {
		return false
	}
	if filter.Categories != nil && !intersects(p.Categories, filter.Categories) {
		return false
	}
	return true
}

// matchesText повторяет семантику текстового индекса: совпадение любого терма с любым словом
// имени или категорий без учёта регистра.
func matchesText(p domain.Plant, terms []string) bool {
	words := make(map[string]struct{})
	for _, text := range append([]string{p.Name}, p.Categories...) {
		for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			words[w] = struct{}{}
		}
	}

	for _, t := range terms {
		if _, ok := words[t]; ok {
			return true
		}
	}
	return false
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func clonePlant(p domain.Plant) domain.Plant {
	p.Categories = append([]string(nil), p.Categories...)
	return p
}
