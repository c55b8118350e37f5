package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/navarrastar/review-register/pkg/models"
)

// FileRepository keeps a draft form in a JSON file so it survives between
// command invocations. A missing file reads as an empty form.
type FileRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewFileRepository(path string, logger *zap.Logger) *FileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{path: path, logger: logger}
}

func (r *FileRepository) Path() string {
	return r.path
}

// Load returns the stored draft.
func (r *FileRepository) Load() (models.RegistrationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Save replaces the stored draft.
func (r *FileRepository) Save(form models.RegistrationForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(form)
}

// Update applies the non-empty fields of patch to the stored draft.
func (r *FileRepository) Update(patch models.RegistrationForm) (models.RegistrationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	form, err := r.load()
	if err != nil {
		return form, err
	}
	form = form.Merge(patch)
	return form, r.save(form)
}

// Read satisfies the controller's repository contract. A draft that cannot be read
// is logged and treated as empty, which then fails validation.
func (r *FileRepository) Read() models.RegistrationForm {
	form, err := r.Load()
	if err != nil {
		r.logger.Error("error reading draft", zap.String("path", r.path), zap.Error(err))
		return models.RegistrationForm{}
	}
	return form
}

// Clear empties the draft. Write failures are logged.
func (r *FileRepository) Clear() {
	if err := r.Save(models.RegistrationForm{}); err != nil {
		r.logger.Error("error clearing draft", zap.String("path", r.path), zap.Error(err))
	}
}

func (r *FileRepository) load() (models.RegistrationForm, error) {
	var form models.RegistrationForm

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return form, nil
		}
		return form, fmt.Errorf("error reading draft: %w", err)
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("error parsing draft %s: %w", r.path, err)
	}
	return form, nil
}

func (r *FileRepository) save(form models.RegistrationForm) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating draft directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding draft: %w", err)
	}

	// write then rename so a crash never leaves a half-written draft
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing draft: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("error writing draft: %w", err)
	}
	return nil
}
