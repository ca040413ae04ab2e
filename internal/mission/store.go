package mission

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// AlertStore is the durable, append-only home of alerts. The store assigns
// ids on insert; rows are never updated or deleted.
type AlertStore interface {
	Insert(ctx context.Context, alert *models.Alert) error
	ListAll(ctx context.Context) ([]models.Alert, error)
}

// GormStore implements AlertStore over a gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the alerts table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.Alert{}); err != nil {
		return nil, fmt.Errorf("failed to migrate alerts table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Insert persists a new alert. The database assigns alert.ID.
func (s *GormStore) Insert(ctx context.Context, alert *models.Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// ListAll returns every alert in insertion order.
func (s *GormStore) ListAll(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := s.db.WithContext(ctx).Order("id").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
