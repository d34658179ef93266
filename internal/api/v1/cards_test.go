package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/corkboardhq/corkboard/internal/api/v1"
	"github.com/corkboardhq/corkboard/internal/domain"
)

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("editor_creates_at_next_position", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		bid := uuid.New()
		lid := uuid.New()
		notifier := &mockNotifier{}

		var created *domain.Card
		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				lists: &mockListRepo{
					getByIDFunc: func(context.Context, uuid.UUID) (*domain.List, error) {
						return &domain.List{ID: lid, BoardID: bid, Name: "todo"}, nil
					},
				},
				cards: &mockCardRepo{
					createFunc: func(_ context.Context, c *domain.Card) error {
						c.Position = 2
						created = c
						return nil
					},
				},
				activity: nopActivity{},
			},
			Gate:     allowAs(domain.RoleEditor),
			Notifier: notifier,
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uid), "/cards", map[string]any{
			"title":   "write release notes",
			"list_id": lid.String(),
		})

		require.Equal(t, http.StatusCreated, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, lid, created.ListID)
		require.NotNil(t, created.UpdatedBy)
		assert.Equal(t, uid, *created.UpdatedBy)

		var got domain.Card
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Position)
		assert.Equal(t, []uuid.UUID{bid}, notifier.notified)
	})

	t.Run("viewer_forbidden", func(t *testing.T) {
		t.Parallel()

		var created bool
		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				lists: &mockListRepo{
					getByIDFunc: func(context.Context, uuid.UUID) (*domain.List, error) {
						return &domain.List{ID: uuid.New(), BoardID: uuid.New()}, nil
					},
				},
				cards: &mockCardRepo{
					createFunc: func(context.Context, *domain.Card) error {
						created = true
						return nil
					},
				},
			},
			Gate: allowAs(domain.RoleViewer),
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uuid.New()), "/cards", map[string]any{
			"title":   "sneaky",
			"list_id": uuid.New().String(),
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.False(t, created)
	})

	t.Run("missing_list", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				lists: &mockListRepo{
					getByIDFunc: func(context.Context, uuid.UUID) (*domain.List, error) {
						return nil, domain.ErrNotFound
					},
				},
			},
			Gate: allowAs(domain.RoleEditor),
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uuid.New()), "/cards", map[string]any{
			"title":   "orphan",
			"list_id": uuid.New().String(),
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	t.Run("patches_only_provided_fields", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		cid := uuid.New()
		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		existing := &domain.Card{
			ID:          cid,
			ListID:      uuid.New(),
			Title:       "old title",
			Description: "keep me",
			Position:    1,
		}

		var updated *domain.Card
		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return uuid.New(), nil
					},
					getByIDFunc: func(context.Context, uuid.UUID) (*domain.Card, error) {
						return existing, nil
					},
					updateFunc: func(_ context.Context, c *domain.Card) error {
						updated = c
						return nil
					},
				},
				activity: nopActivity{},
			},
			Gate:     allowAs(domain.RoleEditor),
			Notifier: &mockNotifier{},
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PutCtx(userCtx(uid), "/cards/"+cid.String(), map[string]any{
			"title":    "new title",
			"due_date": due.Format(time.RFC3339),
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "new title", updated.Title)
		assert.Equal(t, "keep me", updated.Description, "absent fields stay untouched")
		require.NotNil(t, updated.DueDate)
		assert.True(t, due.Equal(*updated.DueDate))
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, uid, *updated.UpdatedBy)
	})

	t.Run("checklist_replaced_wholesale", func(t *testing.T) {
		t.Parallel()

		cid := uuid.New()
		itemID := uuid.New()

		var updated *domain.Card
		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return uuid.New(), nil
					},
					getByIDFunc: func(context.Context, uuid.UUID) (*domain.Card, error) {
						return &domain.Card{ID: cid, ListID: uuid.New(), Title: "t", Checklist: []domain.ChecklistItem{
							{ID: uuid.New(), Text: "stale", Completed: false},
						}}, nil
					},
					updateFunc: func(_ context.Context, c *domain.Card) error {
						updated = c
						return nil
					},
				},
				activity: nopActivity{},
			},
			Gate:     allowAs(domain.RoleEditor),
			Notifier: &mockNotifier{},
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PutCtx(userCtx(uuid.New()), "/cards/"+cid.String(), map[string]any{
			"checklist": []map[string]any{
				{"id": itemID.String(), "text": "ship", "completed": true},
			},
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		require.Len(t, updated.Checklist, 1)
		assert.Equal(t, itemID, updated.Checklist[0].ID)
		assert.True(t, updated.Checklist[0].Completed)
	})

	t.Run("missing_card", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return uuid.Nil, domain.ErrNotFound
					},
				},
			},
			Gate: allowAs(domain.RoleEditor),
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PutCtx(userCtx(uuid.New()), "/cards/"+uuid.New().String(), map[string]any{
			"title": "ghost",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestDuplicateCard(t *testing.T) {
	t.Parallel()

	t.Run("copies_card_with_labels", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		cid := uuid.New()
		bid := uuid.New()
		labelID := uuid.New()
		notifier := &mockNotifier{}

		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return bid, nil
					},
					duplicateFunc: func(_ context.Context, id, actorID uuid.UUID) (*domain.Card, error) {
						assert.Equal(t, cid, id)
						assert.Equal(t, uid, actorID)
						return &domain.Card{
							ID:       uuid.New(),
							Title:    "copy of original",
							Position: 5,
							Labels:   []uuid.UUID{labelID},
						}, nil
					},
				},
				activity: nopActivity{},
			},
			Gate:     allowAs(domain.RoleEditor),
			Notifier: notifier,
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uid), "/cards/"+cid.String()+"/duplicate")

		require.Equal(t, http.StatusCreated, resp.Code)

		var got domain.Card
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.NotEqual(t, cid, got.ID)
		assert.Equal(t, []uuid.UUID{labelID}, got.Labels)
		assert.Equal(t, []uuid.UUID{bid}, notifier.notified)
	})
}

func TestAssignUser(t *testing.T) {
	t.Parallel()

	t.Run("assigns_member", func(t *testing.T) {
		t.Parallel()

		cid := uuid.New()
		target := uuid.New()
		bid := uuid.New()
		notifier := &mockNotifier{}

		var assigned bool
		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return bid, nil
					},
					assignFunc: func(_ context.Context, cardID, userID uuid.UUID) error {
						assert.Equal(t, cid, cardID)
						assert.Equal(t, target, userID)
						assigned = true
						return nil
					},
				},
				activity: nopActivity{},
			},
			Gate:     allowAs(domain.RoleEditor),
			Notifier: notifier,
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uuid.New()), "/cards/assign", map[string]any{
			"card_id": cid.String(),
			"user_id": target.String(),
		})

		require.Equal(t, http.StatusCreated, resp.Code)
		assert.True(t, assigned)
		assert.Equal(t, []uuid.UUID{bid}, notifier.notified)
	})

	t.Run("non_member_assignee_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		deps := &v1.Deps{
			Store: &mockDataStore{
				cards: &mockCardRepo{
					boardOfFunc: func(context.Context, uuid.UUID) (uuid.UUID, error) {
						return uuid.New(), nil
					},
					assignFunc: func(context.Context, uuid.UUID, uuid.UUID) error {
						return domain.ErrValidation
					},
				},
			},
			Gate: allowAs(domain.RoleEditor),
		}
		v1.RegisterCardRoutes(api, deps)

		resp := api.PostCtx(userCtx(uuid.New()), "/cards/assign", map[string]any{
			"card_id": uuid.New().String(),
			"user_id": uuid.New().String(),
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
