package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// GormStore keeps recipes in an in-memory SQLite database. The database
// lives as long as its single connection, so nothing survives Close.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a fresh in-memory database and migrates the schema
func NewGormStore() (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate recipes table: %w", err)
	}

	return &GormStore{db: db}, nil
}

// List returns every recipe in insertion order
func (s *GormStore) List(ctx context.Context) ([]types.Recipe, error) {
	var rows []model.Recipe
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	out := make([]types.Recipe, len(rows))
	for i := range rows {
		out[i] = rows[i].ToType()
	}
	return out, nil
}

// parseID accepts only the canonical form of an id. uuid.Parse also reads
// uppercase, urn:uuid: and braced spellings, which the memory store would
// not match.
func parseID(id string) (uuid.UUID, bool) {
	uid, err := uuid.Parse(id)
	if err != nil || uid.String() != id {
		return uuid.Nil, false
	}
	return uid, true
}

// Get returns the recipe with the given id
func (s *GormStore) Get(ctx context.Context, id string) (types.Recipe, error) {
	uid, ok := parseID(id)
	if !ok {
		return types.Recipe{}, ErrNotFound
	}

	var row model.Recipe
	if err := s.db.WithContext(ctx).First(&row, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Recipe{}, ErrNotFound
		}
		return types.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return row.ToType(), nil
}

// Create inserts the recipe. The caller assigns the id.
func (s *GormStore) Create(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	if _, ok := parseID(recipe.ID); !ok {
		return types.Recipe{}, fmt.Errorf("invalid recipe id %q", recipe.ID)
	}
	row, err := model.FromType(recipe)
	if err != nil {
		return types.Recipe{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Recipe{}).Where("id = ?", row.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return types.Recipe{}, err
		}
		return types.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	return row.ToType(), nil
}

// Update replaces the name and ingredients of an existing recipe
func (s *GormStore) Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	if _, ok := parseID(recipe.ID); !ok {
		return types.Recipe{}, ErrNotFound
	}
	incoming, err := model.FromType(recipe)
	if err != nil {
		return types.Recipe{}, ErrNotFound
	}

	var row model.Recipe
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", incoming.ID).Error; err != nil {
			return err
		}
		row.Name = incoming.Name
		row.Ingredients = incoming.Ingredients
		return tx.Save(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Recipe{}, ErrNotFound
		}
		return types.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}
	return row.ToType(), nil
}

// Delete removes the recipe with the given id
func (s *GormStore) Delete(ctx context.Context, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}

	result := s.db.WithContext(ctx).Where("id = ?", uid).Delete(&model.Recipe{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of recipes held
func (s *GormStore) Len(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}

// Close closes the connection, which discards the database
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
