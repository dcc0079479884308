package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// settingsService handles runtime settings stored as key/value rows.
type settingsService struct {
	db              *gorm.DB
	defaultTimezone string
}

// NewSettingsService creates a new SettingsServicer. defaultTimezone is used
// when no timezone row exists yet.
func NewSettingsService(db *gorm.DB, defaultTimezone string) SettingsServicer {
	return &settingsService{db: db, defaultTimezone: defaultTimezone}
}

// GetTimezone returns the configured IANA timezone name.
func (s *settingsService) GetTimezone() (string, error) {
	var setting models.Setting
	if err := s.db.Where("key = ?", models.SettingTimezone).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultTimezone, nil
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting.Value, nil
}

// SetTimezone validates and stores an IANA timezone name.
func (s *settingsService) SetTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil || name == "" {
		return apperrors.ErrInvalidTimezone
	}

	setting := models.Setting{Key: models.SettingTimezone, Value: name}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CurrentLocation loads the configured timezone. It reads the store on every
// call so a timezone change takes effect on the next engine pass.
func (s *settingsService) CurrentLocation() (*time.Location, error) {
	name, err := s.GetTimezone()
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidTimezone, err)
	}
	return loc, nil
}
