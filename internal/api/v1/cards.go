package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CreateCardInput struct {
	Body struct {
		Title  string    `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		ListID uuid.UUID `json:"list_id" doc:"List the card belongs to"`
	}
}

type CreateCardOutput struct {
	Body *domain.Card
}

type UpdateCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       string                  `json:"title,omitempty" maxLength:"500" doc:"Card title"`
		Description *string                 `json:"description,omitempty" doc:"Card description"`
		DueDate     *time.Time              `json:"due_date,omitempty" doc:"Due date"`
		Checklist   *[]domain.ChecklistItem `json:"checklist,omitempty" doc:"Ordered checklist"`
	}
}

type UpdateCardOutput struct {
	Body *domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type DuplicateCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type DuplicateCardOutput struct {
	Body *domain.Card
}

type AssignInput struct {
	Body struct {
		CardID uuid.UUID `json:"card_id" doc:"Card ID"`
		UserID uuid.UUID `json:"user_id" doc:"User to assign"`
	}
}

func RegisterCardRoutes(api huma.API, deps *Deps) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-card",
		Method:        http.MethodPost,
		Path:          "/cards",
		Summary:       "Create a card at the next list position",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Cards"},
	}, func(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		l, err := deps.Store.Lists().GetByID(ctx, input.Body.ListID)
		if err != nil {
			return nil, mapError(err, "list not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, l.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		c, err := domain.NewCard(input.Body.ListID, input.Body.Title)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		c.UpdatedBy = &userID

		if err := deps.Store.Cards().Create(ctx, c); err != nil {
			return nil, mapError(err, "failed to create card")
		}

		deps.logActivity(l.BoardID, userID, &c.ID, "created card "+c.Title)
		deps.notify(l.BoardID)

		return &CreateCardOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPut,
		Path:        "/cards/{id}",
		Summary:     "Update card fields",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *UpdateCardInput) (*UpdateCardOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boardID, err := deps.Store.Cards().BoardOf(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, boardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		existing, err := deps.Store.Cards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != nil {
			existing.Description = *input.Body.Description
		}
		if input.Body.DueDate != nil {
			existing.DueDate = input.Body.DueDate
		}
		if input.Body.Checklist != nil {
			existing.Checklist = *input.Body.Checklist
		}
		existing.UpdatedAt = time.Now()
		existing.UpdatedBy = &userID

		if err := deps.Store.Cards().Update(ctx, existing); err != nil {
			return nil, mapError(err, "failed to update card")
		}

		deps.logActivity(boardID, userID, &existing.ID, "updated card "+existing.Title)
		deps.notify(boardID)

		return &UpdateCardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-card",
		Method:      http.MethodDelete,
		Path:        "/cards/{id}",
		Summary:     "Delete a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boardID, err := deps.Store.Cards().BoardOf(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, boardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Cards().Delete(ctx, input.ID); err != nil {
			return nil, mapError(err, "failed to delete card")
		}

		deps.logActivity(boardID, userID, nil, "deleted card")
		deps.notify(boardID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "duplicate-card",
		Method:        http.MethodPost,
		Path:          "/cards/{id}/duplicate",
		Summary:       "Duplicate a card, including its labels",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Cards"},
	}, func(ctx context.Context, input *DuplicateCardInput) (*DuplicateCardOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boardID, err := deps.Store.Cards().BoardOf(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, boardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		copied, err := deps.Store.Cards().Duplicate(ctx, input.ID, userID)
		if err != nil {
			return nil, mapError(err, "failed to duplicate card")
		}

		deps.logActivity(boardID, userID, &copied.ID, "duplicated card "+copied.Title)
		deps.notify(boardID)

		return &DuplicateCardOutput{Body: copied}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "assign-user",
		Method:        http.MethodPost,
		Path:          "/cards/assign",
		Summary:       "Assign a board member to a card",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Cards"},
	}, func(ctx context.Context, input *AssignInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boardID, err := deps.Store.Cards().BoardOf(ctx, input.Body.CardID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, boardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Cards().Assign(ctx, input.Body.CardID, input.Body.UserID); err != nil {
			return nil, mapError(err, "failed to assign user")
		}

		deps.logActivity(boardID, userID, &input.Body.CardID, "assigned a member")
		deps.notify(boardID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "unassign-user",
		Method:      http.MethodDelete,
		Path:        "/cards/remove-assignee",
		Summary:     "Remove an assignee from a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *AssignInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boardID, err := deps.Store.Cards().BoardOf(ctx, input.Body.CardID)
		if err != nil {
			return nil, mapError(err, "card not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, boardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Cards().Unassign(ctx, input.Body.CardID, input.Body.UserID); err != nil {
			return nil, mapError(err, "failed to remove assignee")
		}

		deps.logActivity(boardID, userID, &input.Body.CardID, "removed an assignee")
		deps.notify(boardID)

		return nil, nil
	})
}
