package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboardhq/corkboard/internal/domain"
)

func TestRoleCan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role   domain.Role
		action domain.Action
		want   bool
	}{
		{domain.RoleOwner, domain.ActionView, true},
		{domain.RoleOwner, domain.ActionEdit, true},
		{domain.RoleOwner, domain.ActionOwn, true},
		{domain.RoleEditor, domain.ActionView, true},
		{domain.RoleEditor, domain.ActionEdit, true},
		{domain.RoleEditor, domain.ActionOwn, false},
		{domain.RoleViewer, domain.ActionView, true},
		{domain.RoleViewer, domain.ActionEdit, false},
		{domain.RoleViewer, domain.ActionOwn, false},
		{domain.Role("admin"), domain.ActionView, false},
		{domain.Role(""), domain.ActionView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.action), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.role.Can(tt.action))
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.RoleOwner, domain.NormalizeRole("owner"))
	assert.Equal(t, domain.RoleEditor, domain.NormalizeRole("editor"))
	assert.Equal(t, domain.RoleViewer, domain.NormalizeRole("viewer"))

	// Anything outside the closed set falls back to the weakest role.
	assert.Equal(t, domain.RoleViewer, domain.NormalizeRole("admin"))
	assert.Equal(t, domain.RoleViewer, domain.NormalizeRole(""))
	assert.Equal(t, domain.RoleViewer, domain.NormalizeRole("OWNER"))
}

func TestColorForLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"high priority", "red"},
		{"High", "red"},
		{"medium priority", "yellow"},
		{"low priority", "green"},
		{"in progress", "blue"},
		{"done", "gray"},
		{"bug", "slate"},
		{"", "slate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.ColorForLabel(tt.name))
		})
	}
}

func TestNewBoard(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	b, err := domain.NewBoard(owner, "launch")
	require.NoError(t, err)
	assert.Equal(t, owner, b.OwnerID)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	_, err = domain.NewBoard(uuid.Nil, "launch")
	assert.Error(t, err)

	_, err = domain.NewBoard(owner, "")
	assert.Error(t, err)
}

func TestNewListAndCardValidation(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	listID := uuid.New()

	l, err := domain.NewList(boardID, "todo")
	require.NoError(t, err)
	assert.Equal(t, boardID, l.BoardID)

	_, err = domain.NewList(uuid.Nil, "todo")
	assert.Error(t, err)

	_, err = domain.NewList(boardID, "")
	assert.Error(t, err)

	c, err := domain.NewCard(listID, "ship it")
	require.NoError(t, err)
	assert.Equal(t, listID, c.ListID)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	_, err = domain.NewCard(uuid.Nil, "ship it")
	assert.Error(t, err)

	_, err = domain.NewCard(listID, "")
	assert.Error(t, err)
}

func TestCardDraftValidate(t *testing.T) {
	t.Parallel()

	valid := &domain.CardDraft{Title: "Fix login", ListName: "To Do"}
	assert.NoError(t, valid.Validate())

	missingTitle := &domain.CardDraft{ListName: "To Do"}
	assert.Error(t, missingTitle.Validate())

	missingList := &domain.CardDraft{Title: "Fix login"}
	assert.Error(t, missingList.Validate())
}
