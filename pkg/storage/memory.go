package storage

import (
	"sync"

	"github.com/navarrastar/review-register/pkg/models"
)

// MemoryRepository holds the form for a single page session.
type MemoryRepository struct {
	mu   sync.RWMutex
	form models.RegistrationForm
}

// NewMemoryRepository creates a repository holding form.
func NewMemoryRepository(form models.RegistrationForm) *MemoryRepository {
	return &MemoryRepository{form: form}
}

// Read returns the current form.
func (r *MemoryRepository) Read() models.RegistrationForm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.form
}

// Set replaces the whole form, like a user editing every field.
func (r *MemoryRepository) Set(form models.RegistrationForm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.form = form
}

// Clear empties every field.
func (r *MemoryRepository) Clear() {
	r.Set(models.RegistrationForm{})
}
