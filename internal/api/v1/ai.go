package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type ParseTaskInput struct {
	Body struct {
		Text    string    `json:"text" minLength:"1" maxLength:"2000" doc:"Free-text task request"`
		BoardID uuid.UUID `json:"board_id" doc:"Board to create the task on"`
	}
}

type ParseTaskOutput struct {
	Body *domain.Card
}

type GenerateDescriptionInput struct {
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"500" doc:"Card title to describe"`
	}
}

type GenerateDescriptionOutput struct {
	Body struct {
		Description string `json:"description"`
	}
}

func RegisterAIRoutes(api huma.API, deps *Deps) {
	huma.Register(api, huma.Operation{
		OperationID:   "parse-task",
		Method:        http.MethodPost,
		Path:          "/ai/parse-task",
		Summary:       "Create a card from a natural-language request",
		Description:   "Delegates the text to the AI collaborator for a structured draft, then materializes list, card and labels in one transaction. A failed parse creates nothing.",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"AI"},
	}, func(ctx context.Context, input *ParseTaskInput) (*ParseTaskOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.Body.BoardID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		draft, err := deps.Parser.ParseTask(ctx, input.Body.Text)
		if err != nil {
			return nil, mapError(err, "could not understand the task request")
		}

		card, err := deps.Store.Drafts().Materialize(ctx, input.Body.BoardID, userID, draft)
		if err != nil {
			return nil, mapError(err, "failed to create task")
		}

		deps.logActivity(input.Body.BoardID, userID, &card.ID, "created card "+card.Title+" from a prompt")
		deps.notify(input.Body.BoardID)

		return &ParseTaskOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-description",
		Method:      http.MethodPost,
		Path:        "/ai/generate-description",
		Summary:     "Generate a card description from its title",
		Tags:        []string{"AI"},
	}, func(ctx context.Context, input *GenerateDescriptionInput) (*GenerateDescriptionOutput, error) {
		if _, err := identity(ctx); err != nil {
			return nil, err
		}

		desc, err := deps.Parser.GenerateDescription(ctx, input.Body.Title)
		if err != nil {
			return nil, mapError(err, "failed to generate description")
		}

		out := &GenerateDescriptionOutput{}
		out.Body.Description = desc

		return out, nil
	})
}
