package access

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPolicies(t *testing.T) {
	author := uuid.New()
	anon := Anonymous()
	owner := Requester{UserID: author, Authenticated: true}
	other := Requester{UserID: uuid.New(), Authenticated: true}
	admin := Requester{UserID: uuid.New(), Authenticated: true, IsSuperuser: true}

	tests := []struct {
		name      string
		policy    Policy
		requester Requester
		method    string
		request   bool
		object    bool
	}{
		{"admin only: anonymous read", AdminOnly{}, anon, http.MethodGet, false, false},
		{"admin only: user read", AdminOnly{}, other, http.MethodGet, false, false},
		{"admin only: admin write", AdminOnly{}, admin, http.MethodPost, true, true},

		{"admin or read: anonymous read", AdminOrReadOnly{}, anon, http.MethodGet, true, true},
		{"admin or read: user write", AdminOrReadOnly{}, other, http.MethodPost, false, false},
		{"admin or read: admin delete", AdminOrReadOnly{}, admin, http.MethodDelete, true, true},

		{"author: anonymous read", AuthorAdminOrReadOnly{}, anon, http.MethodGet, true, true},
		{"author: anonymous write", AuthorAdminOrReadOnly{}, anon, http.MethodPost, false, false},
		{"author: other user patch", AuthorAdminOrReadOnly{}, other, http.MethodPatch, true, false},
		{"author: owner patch", AuthorAdminOrReadOnly{}, owner, http.MethodPatch, true, true},
		{"author: admin delete", AuthorAdminOrReadOnly{}, admin, http.MethodDelete, true, true},
		{"author: unauthenticated owner id", AuthorAdminOrReadOnly{}, Requester{UserID: author}, http.MethodPatch, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.request, tt.policy.HasPermission(tt.requester, tt.method))
			assert.Equal(t, tt.object, tt.policy.HasObjectPermission(tt.requester, tt.method, author))
		})
	}
}

func TestRequesterIs(t *testing.T) {
	id := uuid.New()
	assert.True(t, Requester{UserID: id, Authenticated: true}.Is(id))
	assert.False(t, Requester{UserID: id}.Is(id))
	assert.False(t, Anonymous().Is(uuid.Nil))
}

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, IsSafeMethod(http.MethodHead))
	assert.True(t, IsSafeMethod(http.MethodOptions))
	assert.False(t, IsSafeMethod(http.MethodPut))
}
