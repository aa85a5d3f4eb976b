package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/repository/memory"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/DRSN-tech/plant-catalog/pkg/tr"
)

type fakeImages struct {
	mu      sync.Mutex
	cleaned []string
}

func (f *fakeImages) AcceptImage(_ context.Context, req *usecase.UploadImageReq) (*usecase.UploadedImage, error) {
	return &usecase.UploadedImage{Filename: req.OriginalName}, nil
}

func (f *fakeImages) OpenImage(context.Context, string) (*domain.StoredImage, error) {
	return nil, e.ErrImageNotFound
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}

type recordingOutbox struct {
	usecase.NopOutbox
	mu     sync.Mutex
	events []*usecase.OutboxEvent
	err    error
}

func (o *recordingOutbox) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return event, nil
}

func (o *recordingOutbox) types() []usecase.OutboxEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]usecase.OutboxEventType, 0, len(o.events))
	for _, ev := range o.events {
		out = append(out, ev.EventType)
	}
	return out
}

type fixture struct {
	uc     *usecase.PlantUseCase
	images *fakeImages
	outbox *recordingOutbox
}

func newFixture() *fixture {
	repo := memory.NewPlantRepo()
	images := &fakeImages{}
	outbox := &recordingOutbox{}
	log := logger.NewSlogLoggerWithOptions(io.Discard, "error", "text")

	return &fixture{
		uc:     usecase.NewPlantUC(repo, repo, outbox, tr.Passthrough{}, images, log),
		images: images,
		outbox: outbox,
	}
}

func (f *fixture) create(t *testing.T, raw usecase.RawInput) *domain.Plant {
	t.Helper()
	plant, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(raw, nil))
	if err != nil {
		t.Fatalf("CreatePlant(%v) error = %v", raw, err)
	}
	return plant
}

func names(plants []domain.Plant) []string {
	out := make([]string, 0, len(plants))
	for _, p := range plants {
		out = append(out, p.Name)
	}
	return out
}

func TestCreatePlant_FormEncoding(t *testing.T) {
	f := newFixture()

	plant := f.create(t, usecase.RawInput{
		"name":         "Aloe",
		"price":        "12.5",
		"categories":   `["succulent","indoor"]`,
		"availability": "true",
	})

	if plant.ID == "" {
		t.Error("ID is empty")
	}
	if plant.Price != 12.5 || !plant.Availability {
		t.Errorf("unexpected plant: %+v", plant)
	}
	if !reflect.DeepEqual(plant.Categories, []string{"succulent", "indoor"}) {
		t.Errorf("Categories = %v", plant.Categories)
	}
	if plant.ImageURL != nil || plant.Description != nil {
		t.Errorf("optional fields should be absent: %+v", plant)
	}
	if got := f.outbox.types(); !reflect.DeepEqual(got, []usecase.OutboxEventType{usecase.PlantCreated}) {
		t.Errorf("events = %v", got)
	}
}

func TestCreatePlant_AvailabilityDefaultsToFalse(t *testing.T) {
	f := newFixture()

	plant := f.create(t, usecase.RawInput{
		"name":       "Basil",
		"price":      3.0,
		"categories": []any{"herb"},
	})

	if plant.Availability {
		t.Error("Availability = true, want false when absent")
	}
}

func TestCreatePlant_UploadOverridesImageURL(t *testing.T) {
	f := newFixture()

	plant, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(
		usecase.RawInput{
			"name":       "Fern",
			"price":      "8",
			"categories": []string{"shade"},
			"imageUrl":   "https://example.com/fern.png",
		},
		&usecase.UploadedImage{Filename: "1700000000000-fern.png"},
	))
	if err != nil {
		t.Fatalf("CreatePlant() error = %v", err)
	}

	if plant.ImageURL == nil || *plant.ImageURL != "/uploads/1700000000000-fern.png" {
		t.Errorf("ImageURL = %v, want upload path", plant.ImageURL)
	}
	if len(f.images.cleaned) != 0 {
		t.Errorf("cleaned = %v, want none", f.images.cleaned)
	}
}

func TestCreatePlant_ValidationFailure(t *testing.T) {
	tests := []struct {
		name string
		raw  usecase.RawInput
		want string
	}{
		{
			name: "zero price",
			raw:  usecase.RawInput{"name": "Aloe", "price": "0", "categories": `["succulent"]`},
			want: `"price" must be a positive number`,
		},
		{
			name: "negative price",
			raw:  usecase.RawInput{"name": "Aloe", "price": -5.0, "categories": []any{"succulent"}},
			want: `"price" must be a positive number`,
		},
		{
			name: "malformed categories",
			raw:  usecase.RawInput{"name": "Aloe", "price": "5", "categories": `["succulent"`},
			want: `"categories" must contain at least 1 items`,
		},
		{
			name: "unknown field",
			raw:  usecase.RawInput{"name": "Aloe", "price": "5", "categories": `["a"]`, "stock": "3"},
			want: `"stock" is not allowed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(
				tt.raw, &usecase.UploadedImage{Filename: "orphan.png"},
			))

			var verr *usecase.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.Violations, []string{tt.want}) {
				t.Errorf("violations = %v, want [%s]", verr.Violations, tt.want)
			}
			if !reflect.DeepEqual(f.images.cleaned, []string{"orphan.png"}) {
				t.Errorf("cleaned = %v, want orphan removed", f.images.cleaned)
			}

			list, _ := f.uc.ListPlants(context.Background(), usecase.NewListPlantsReq("", ""))
			if len(list) != 0 {
				t.Errorf("store has %d plants after failed create", len(list))
			}
		})
	}
}

func TestCreatePlant_NameConflict(t *testing.T) {
	f := newFixture()
	f.create(t, usecase.RawInput{"name": "Fern", "price": 5.0, "categories": []any{"shade"}})

	_, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(
		usecase.RawInput{"name": "Fern", "price": 7.0, "categories": []any{"indoor"}},
		&usecase.UploadedImage{Filename: "dup.png"},
	))
	if !errors.Is(err, e.ErrNameConflict) {
		t.Fatalf("error = %v, want %v", err, e.ErrNameConflict)
	}
	if !reflect.DeepEqual(f.images.cleaned, []string{"dup.png"}) {
		t.Errorf("cleaned = %v", f.images.cleaned)
	}

	list, _ := f.uc.ListPlants(context.Background(), usecase.NewListPlantsReq("", ""))
	if len(list) != 1 || list[0].Price != 5 {
		t.Errorf("store changed after conflict: %+v", list)
	}
}

func TestCreatePlant_OutboxFailureRollsBackImage(t *testing.T) {
	f := newFixture()
	f.outbox.err = errors.New("outbox down")

	_, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(
		usecase.RawInput{"name": "Ivy", "price": 4.0, "categories": []any{"vine"}},
		&usecase.UploadedImage{Filename: "ivy.png"},
	))
	if err == nil {
		t.Fatal("CreatePlant() error = nil, want outbox error")
	}
	if !reflect.DeepEqual(f.images.cleaned, []string{"ivy.png"}) {
		t.Errorf("cleaned = %v", f.images.cleaned)
	}
}

func TestListPlants_LimitAndOrder(t *testing.T) {
	f := newFixture()
	for i := 59; i >= 0; i-- {
		f.create(t, usecase.RawInput{
			"name":       fmt.Sprintf("Plant %02d", i),
			"price":      1.0,
			"categories": []any{"bulk"},
		})
	}

	list, err := f.uc.ListPlants(context.Background(), usecase.NewListPlantsReq("", ""))
	if err != nil {
		t.Fatalf("ListPlants() error = %v", err)
	}

	if len(list) != usecase.MaxListResults {
		t.Fatalf("len = %d, want %d", len(list), usecase.MaxListResults)
	}
	if list[0].Name != "Plant 00" || list[49].Name != "Plant 49" {
		t.Errorf("first = %q, last = %q", list[0].Name, list[49].Name)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("not sorted at %d: %q > %q", i, list[i-1].Name, list[i].Name)
		}
	}
}

func TestListPlants_SearchAndCategories(t *testing.T) {
	f := newFixture()
	f.create(t, usecase.RawInput{"name": "Aloe", "price": 5.0, "categories": []any{"succulent"}})
	f.create(t, usecase.RawInput{"name": "Basil", "price": 3.0, "categories": []any{"herb"}})

	tests := []struct {
		search     string
		categories string
		want       []string
	}{
		{"", "", []string{"Aloe", "Basil"}},
		{"Aloe", "", []string{"Aloe"}},
		{"aloe", "herb", []string{}},
		{"", "herb,succulent", []string{"Aloe", "Basil"}},
		{"succulent", "", []string{"Aloe"}},
		{"aloe basil", "", []string{"Aloe", "Basil"}},
		{"cactus", "", []string{}},
		{"", "tree", []string{}},
	}

	for _, tt := range tests {
		list, err := f.uc.ListPlants(context.Background(), usecase.NewListPlantsReq(tt.search, tt.categories))
		if err != nil {
			t.Fatalf("ListPlants(%q, %q) error = %v", tt.search, tt.categories, err)
		}
		if got := names(list); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ListPlants(%q, %q) = %v, want %v", tt.search, tt.categories, got, tt.want)
		}
	}
}

func TestListCategories(t *testing.T) {
	f := newFixture()

	empty, err := f.uc.ListCategories(context.Background())
	if err != nil || len(empty) != 0 {
		t.Fatalf("ListCategories() = %v, %v; want empty", empty, err)
	}

	f.create(t, usecase.RawInput{"name": "Aloe", "price": 5.0, "categories": []any{"succulent", "indoor"}})
	f.create(t, usecase.RawInput{"name": "Basil", "price": 3.0, "categories": []any{"herb", "indoor"}})

	got, err := f.uc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if want := []string{"herb", "indoor", "succulent"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListCategories() = %v, want %v", got, want)
	}
}

func TestUpdatePlant(t *testing.T) {
	f := newFixture()
	plant := f.create(t, usecase.RawInput{
		"name":        "Fern",
		"price":       5.0,
		"categories":  []any{"shade"},
		"description": "Likes humidity",
	})

	updated, err := f.uc.UpdatePlant(context.Background(), usecase.NewUpdatePlantReq(plant.ID,
		usecase.RawInput{"name": "Boston Fern", "price": "9.5", "categories": `["shade","indoor"]`},
		nil,
	))
	if err != nil {
		t.Fatalf("UpdatePlant() error = %v", err)
	}

	if updated.ID != plant.ID || updated.Name != "Boston Fern" || updated.Price != 9.5 {
		t.Errorf("unexpected plant: %+v", updated)
	}
	if updated.Availability {
		t.Error("Availability = true, want false when absent")
	}
	if updated.Description == nil || *updated.Description != "Likes humidity" {
		t.Errorf("Description = %v, want previous value retained", updated.Description)
	}
	if !updated.CreatedAt.Equal(plant.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", plant.CreatedAt, updated.CreatedAt)
	}

	want := []usecase.OutboxEventType{usecase.PlantCreated, usecase.PlantUpdated}
	if got := f.outbox.types(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestUpdatePlant_Errors(t *testing.T) {
	f := newFixture()
	fern := f.create(t, usecase.RawInput{"name": "Fern", "price": 5.0, "categories": []any{"shade"}})
	f.create(t, usecase.RawInput{"name": "Ivy", "price": 4.0, "categories": []any{"vine"}})

	tests := []struct {
		name    string
		id      string
		raw     usecase.RawInput
		wantErr error
	}{
		{"missing id", "00000000-0000-0000-0000-000000000000", usecase.RawInput{"name": "X", "price": 1.0, "categories": []any{"a"}}, e.ErrPlantNotFound},
		{"malformed id", "not-an-id", usecase.RawInput{"name": "X", "price": 1.0, "categories": []any{"a"}}, e.ErrPlantNotFound},
		{"rename to taken name", fern.ID, usecase.RawInput{"name": "Ivy", "price": 1.0, "categories": []any{"a"}}, e.ErrNameConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.UpdatePlant(context.Background(), usecase.NewUpdatePlantReq(tt.id, tt.raw, nil))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("validation before lookup", func(t *testing.T) {
		_, err := f.uc.UpdatePlant(context.Background(), usecase.NewUpdatePlantReq(
			"missing", usecase.RawInput{"name": "X", "price": 0.0, "categories": []any{"a"}}, nil,
		))
		var verr *usecase.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("error = %v, want *ValidationError", err)
		}
	})

	t.Run("keeping own name is not a conflict", func(t *testing.T) {
		_, err := f.uc.UpdatePlant(context.Background(), usecase.NewUpdatePlantReq(
			fern.ID, usecase.RawInput{"name": "Fern", "price": 6.0, "categories": []any{"shade"}}, nil,
		))
		if err != nil {
			t.Errorf("error = %v, want nil", err)
		}
	})
}

func TestDeletePlant(t *testing.T) {
	f := newFixture()
	plant := f.create(t, usecase.RawInput{"name": "Fern", "price": 5.0, "categories": []any{"shade"}})

	if err := f.uc.DeletePlant(context.Background(), plant.ID); err != nil {
		t.Fatalf("DeletePlant() error = %v", err)
	}
	if err := f.uc.DeletePlant(context.Background(), plant.ID); !errors.Is(err, e.ErrPlantNotFound) {
		t.Fatalf("second DeletePlant() error = %v, want %v", err, e.ErrPlantNotFound)
	}

	list, _ := f.uc.ListPlants(context.Background(), usecase.NewListPlantsReq("Fern", ""))
	if len(list) != 0 {
		t.Errorf("deleted plant still listed: %v", names(list))
	}

	want := []usecase.OutboxEventType{usecase.PlantCreated, usecase.PlantDeleted}
	if got := f.outbox.types(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestCreatePlant_ConcurrentSameName(t *testing.T) {
	f := newFixture()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreatePlant(context.Background(), usecase.NewCreatePlantReq(
				usecase.RawInput{"name": "Monstera", "price": 20.0, "categories": []any{"indoor"}}, nil,
			))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, e.ErrNameConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != workers-1 {
		t.Errorf("succeeded = %d, conflicts = %d", succeeded, conflicts)
	}
}
