package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CreateLabelInput struct {
	Body struct {
		Name    string    `json:"name" minLength:"1" maxLength:"100" doc:"Label name"`
		Color   string    `json:"color" minLength:"1" maxLength:"50" doc:"Color tag"`
		BoardID uuid.UUID `json:"board_id" doc:"Board the label belongs to"`
	}
}

type CreateLabelOutput struct {
	Body *domain.Label
}

type CardLabelInput struct {
	Body struct {
		CardID  uuid.UUID `json:"card_id" doc:"Card ID"`
		LabelID uuid.UUID `json:"label_id" doc:"Label ID"`
	}
}

type CardLabelOutput struct {
	Status int
}

type DeleteLabelInput struct {
	ID uuid.UUID `path:"id" doc:"Label ID"`
}

func RegisterLabelRoutes(api huma.API, deps *Deps) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-label",
		Method:        http.MethodPost,
		Path:          "/labels",
		Summary:       "Create a board label",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Labels"},
	}, func(ctx context.Context, input *CreateLabelInput) (*CreateLabelOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.Body.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		l := &domain.Label{
			ID:      uuid.New(),
			BoardID: input.Body.BoardID,
			Name:    input.Body.Name,
			Color:   input.Body.Color,
		}
		if err := deps.Store.Labels().Create(ctx, l); err != nil {
			return nil, mapError(err, "failed to create label")
		}

		deps.logActivity(l.BoardID, userID, nil, "created label "+l.Name)
		deps.notify(l.BoardID)

		return &CreateLabelOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-label-to-card",
		Method:        http.MethodPost,
		Path:          "/labels/add",
		Summary:       "Attach a label to a card",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Labels"},
	}, func(ctx context.Context, input *CardLabelInput) (*CardLabelOutput, error) {
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

		err = deps.Store.Labels().Attach(ctx, input.Body.CardID, input.Body.LabelID)
		if errors.Is(err, domain.ErrConflict) {
			// Already attached; treat as a no-op rather than an error.
			return &CardLabelOutput{Status: http.StatusOK}, nil
		}
		if err != nil {
			return nil, mapError(err, "failed to attach label")
		}

		deps.logActivity(boardID, userID, &input.Body.CardID, "added a label")
		deps.notify(boardID)

		return &CardLabelOutput{Status: http.StatusCreated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-label-from-card",
		Method:      http.MethodDelete,
		Path:        "/labels/remove",
		Summary:     "Detach a label from a card",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *CardLabelInput) (*struct{}, error) {
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

		if err := deps.Store.Labels().Detach(ctx, input.Body.CardID, input.Body.LabelID); err != nil {
			return nil, mapError(err, "failed to detach label")
		}

		deps.logActivity(boardID, userID, &input.Body.CardID, "removed a label")
		deps.notify(boardID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-label",
		Method:      http.MethodDelete,
		Path:        "/labels/{id}",
		Summary:     "Delete a label from the board and every card",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *DeleteLabelInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		l, err := deps.Store.Labels().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "label not found")
		}

		if _, err := deps.Gate.Require(ctx, userID, l.BoardID, domain.ActionOwn); err != nil {
			return nil, mapError(err, "only the board owner can delete labels")
		}

		if err := deps.Store.Labels().Delete(ctx, input.ID); err != nil {
			return nil, mapError(err, "failed to delete label")
		}

		deps.logActivity(l.BoardID, userID, nil, "deleted label "+l.Name)
		deps.notify(l.BoardID)

		return nil, nil
	})
}
