package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/placement-copilot/internal/models"
)

// PreferenceRepository persists small per-client key/value entries, the
// server-side counterpart of browser local storage.
type PreferenceRepository interface {
	Get(clientID, key string) (string, bool, error)
	Set(clientID, key, value string) error
	Delete(clientID, key string) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Get implements PreferenceRepository.
func (r *preferenceRepository) Get(clientID, key string) (string, bool, error) {
	var pref models.ClientPreference
	err := r.db.Where("client_id = ? AND key = ?", clientID, key).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read preference: %w", err)
	}
	return pref.Value, true, nil
}

// Set implements PreferenceRepository.
func (r *preferenceRepository) Set(clientID, key, value string) error {
	pref := models.ClientPreference{
		ClientID:  clientID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to write preference: %w", err)
	}
	return nil
}

// Delete implements PreferenceRepository.
func (r *preferenceRepository) Delete(clientID, key string) error {
	err := r.db.Where("client_id = ? AND key = ?", clientID, key).
		Delete(&models.ClientPreference{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}
