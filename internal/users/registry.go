// Package users owns customer profiles created by registration.
package users

import (
	"fmt"
	"sync"
)

// Vehicle is the resolved descriptor from the vehicle registry. Every
// field may be unknown; enrichment is best-effort.
type Vehicle struct {
	Make  string
	Model string
	Year  string
}

// User is a registered customer. Created whole on registration
// confirmation and only replaced by a new full registration.
type User struct {
	ID       int64
	FullName string
	// Local 10-digit phone number, without the +38 prefix.
	Phone   string
	VIN     string
	Plate   string
	Vehicle Vehicle
}

// Registry stores user profiles keyed by the messaging-channel user ID.
type Registry interface {
	Get(userID int64) (*User, bool)
	Put(user *User) error
	Exists(userID int64) bool
}

// MemoryRegistry keeps profiles in process memory; nothing survives a
// restart.
type MemoryRegistry struct {
	mu    sync.RWMutex
	users map[int64]*User
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{users: make(map[int64]*User)}
}

// Get returns a copy of the profile for the user ID.
func (r *MemoryRegistry) Get(userID int64) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, false
	}
	c := *u
	return &c, true
}

// Put stores the profile, replacing any previous registration.
func (r *MemoryRegistry) Put(user *User) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("users: invalid user")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *user
	r.users[user.ID] = &c
	return nil
}

// Exists reports whether the user has completed registration.
func (r *MemoryRegistry) Exists(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok
}

var _ Registry = (*MemoryRegistry)(nil)
