package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CreateListInput struct {
	Body struct {
		Name    string    `json:"name" minLength:"1" maxLength:"200" doc:"List name"`
		BoardID uuid.UUID `json:"board_id" doc:"Board the list belongs to"`
	}
}

type CreateListOutput struct {
	Body *domain.List
}

type DeleteListInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

type ReorderCardsInput struct {
	ID   uuid.UUID `path:"id" doc:"Destination list ID"`
	Body struct {
		CardIDs []uuid.UUID `json:"card_ids" doc:"Full card order for the list, first to last"`
	}
}

func RegisterListRoutes(api huma.API, deps *Deps) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-list",
		Method:        http.MethodPost,
		Path:          "/lists",
		Summary:       "Create a list at the next board position",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Lists"},
	}, func(ctx context.Context, input *CreateListInput) (*CreateListOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.Body.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		l, err := domain.NewList(input.Body.BoardID, input.Body.Name)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := deps.Store.Lists().Create(ctx, l); err != nil {
			return nil, mapError(err, "failed to create list")
		}

		deps.logActivity(l.BoardID, userID, nil, "created list "+l.Name)
		deps.notify(l.BoardID)

		return &CreateListOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-list",
		Method:      http.MethodDelete,
		Path:        "/lists/{id}",
		Summary:     "Delete a list and its cards",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *DeleteListInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		l, err := deps.Store.Lists().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "list not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, l.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Lists().Delete(ctx, input.ID); err != nil {
			return nil, mapError(err, "failed to delete list")
		}

		deps.logActivity(l.BoardID, userID, nil, "deleted list "+l.Name)
		deps.notify(l.BoardID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-cards",
		Method:      http.MethodPut,
		Path:        "/lists/{id}/cards",
		Summary:     "Rewrite the position of every named card",
		Description: "Assigns dense positions in the given order and adopts cards moving in from another list. A cross-list move is two calls: the source list without the moved card, then the destination including it.",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *ReorderCardsInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		l, err := deps.Store.Lists().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "list not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, l.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Cards().Reorder(ctx, input.ID, input.Body.CardIDs); err != nil {
			return nil, mapError(err, "failed to reorder cards")
		}

		deps.notify(l.BoardID)

		return nil, nil
	})
}
