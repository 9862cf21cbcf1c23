// Package access implements the request and object level permission policies.
package access

import (
	"net/http"

	"github.com/google/uuid"
)

// Requester is the identity a request runs as. The zero value is anonymous.
type Requester struct {
	UserID        uuid.UUID
	Authenticated bool
	IsSuperuser   bool
}

// Anonymous returns the requester used when no credentials were sent.
func Anonymous() Requester {
	return Requester{}
}

// Is reports whether the requester is the given user.
func (r Requester) Is(userID uuid.UUID) bool {
	return r.Authenticated && r.UserID == userID
}

// Policy decides whether a request, and a request against one object, may proceed.
type Policy interface {
	HasPermission(r Requester, method string) bool
	HasObjectPermission(r Requester, method string, ownerID uuid.UUID) bool
}

// IsSafeMethod reports whether the method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOnly permits superusers only, whatever the method.
type AdminOnly struct{}

func (AdminOnly) HasPermission(r Requester, _ string) bool {
	return r.Authenticated && r.IsSuperuser
}

func (p AdminOnly) HasObjectPermission(r Requester, method string, _ uuid.UUID) bool {
	return p.HasPermission(r, method)
}

// AdminOrReadOnly lets anyone read and superusers write.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) HasPermission(r Requester, method string) bool {
	return IsSafeMethod(method) || (r.Authenticated && r.IsSuperuser)
}

func (AdminOrReadOnly) HasObjectPermission(r Requester, method string, _ uuid.UUID) bool {
	return IsSafeMethod(method) || (r.Authenticated && r.IsSuperuser)
}

// AuthorAdminOrReadOnly lets anyone read, any authenticated user create, and only the
// object's author or a superuser change it.
type AuthorAdminOrReadOnly struct{}

func (AuthorAdminOrReadOnly) HasPermission(r Requester, method string) bool {
	return IsSafeMethod(method) || r.Authenticated
}

func (AuthorAdminOrReadOnly) HasObjectPermission(r Requester, method string, ownerID uuid.UUID) bool {
	if IsSafeMethod(method) {
		return true
	}
	return (r.Authenticated && r.IsSuperuser) || r.Is(ownerID)
}
