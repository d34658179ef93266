package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type ListBoardsOutput struct {
	Body []*domain.BoardSummary
}

type CreateBoardInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"200" doc:"Board name"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body *domain.BoardDetail
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type ReorderListsInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		ListIDs []uuid.UUID `json:"list_ids" minItems:"1" doc:"Full list order, first to last"`
	}
}

type InviteMemberInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Email string `json:"email" format:"email" doc:"Email of the user to invite"`
		Role  string `json:"role,omitempty" enum:"editor,viewer" doc:"Role to grant (default editor)"`
	}
}

type InviteMemberOutput struct {
	Body *domain.Member
}

type BoardActivityInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type BoardActivityOutput struct {
	Body []*domain.ActivityEntry
}

func RegisterBoardRoutes(api huma.API, deps *Deps) {
	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards visible to the caller",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boards, err := deps.Store.Boards().ListByUser(ctx, userID)
		if err != nil {
			return nil, mapError(err, "failed to list boards")
		}
		if boards == nil {
			boards = make([]*domain.BoardSummary, 0)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-board",
		Method:        http.MethodPost,
		Path:          "/boards",
		Summary:       "Create a new board",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		b, err := domain.NewBoard(userID, input.Body.Name)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := deps.Store.Boards().Create(ctx, b); err != nil {
			return nil, mapError(err, "failed to create board")
		}

		deps.logActivity(b.ID, userID, nil, "created board "+b.Name)

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get full nested board state",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		role, err := deps.Gate.Require(ctx, userID, input.ID, domain.ActionView)
		if err != nil {
			// Denied reads and absent boards both answer 404 so callers
			// cannot probe for boards they were not invited to.
			if errors.Is(err, domain.ErrAccessDenied) || errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, mapError(err, "failed to resolve board access")
		}

		detail, err := deps.Store.Boards().GetDetail(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "failed to load board")
		}
		detail.Role = role

		return &GetBoardOutput{Body: detail}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board and everything on it",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.ID, domain.ActionOwn); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Boards().Delete(ctx, input.ID); err != nil {
			return nil, mapError(err, "failed to delete board")
		}

		deps.notify(input.ID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-lists",
		Method:      http.MethodPut,
		Path:        "/boards/{id}/lists",
		Summary:     "Rewrite the position of every named list",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ReorderListsInput) (*struct{}, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.ID, domain.ActionEdit); err != nil {
			return nil, mapError(err, "access denied")
		}

		if err := deps.Store.Lists().Reorder(ctx, input.ID, input.Body.ListIDs); err != nil {
			return nil, mapError(err, "failed to reorder lists")
		}

		deps.notify(input.ID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "invite-member",
		Method:        http.MethodPost,
		Path:          "/boards/{id}/invite",
		Summary:       "Invite a user to a board",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Boards"},
	}, func(ctx context.Context, input *InviteMemberInput) (*InviteMemberOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.ID, domain.ActionOwn); err != nil {
			return nil, mapError(err, "access denied")
		}

		invitee, err := deps.Store.Users().GetByEmail(ctx, input.Body.Email)
		if err != nil {
			return nil, mapError(err, "no user with that email")
		}

		role := domain.RoleEditor
		if input.Body.Role != "" {
			role = domain.NormalizeRole(input.Body.Role)
		}

		m := &domain.Membership{
			BoardID:   input.ID,
			UserID:    invitee.ID,
			Role:      role,
			CreatedAt: time.Now(),
		}
		if err := deps.Store.Memberships().Add(ctx, m); err != nil {
			return nil, mapError(err, "user is already a member")
		}

		deps.logActivity(input.ID, userID, nil, "invited "+invitee.Email)
		deps.notify(input.ID)

		return &InviteMemberOutput{Body: &domain.Member{
			UserID: invitee.ID,
			Email:  invitee.Email,
			Name:   invitee.Name,
			Role:   role,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "board-activity",
		Method:      http.MethodGet,
		Path:        "/boards/{id}/activity",
		Summary:     "Recent activity on a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *BoardActivityInput) (*BoardActivityOutput, error) {
		userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := deps.Gate.Require(ctx, userID, input.ID, domain.ActionView); err != nil {
			return nil, mapError(err, "access denied")
		}

		entries, err := deps.Store.Activity().ListByBoard(ctx, input.ID, 50)
		if err != nil {
			return nil, mapError(err, "failed to load activity")
		}
		if entries == nil {
			entries = make([]*domain.ActivityEntry, 0)
		}

		return &BoardActivityOutput{Body: entries}, nil
	})
}
