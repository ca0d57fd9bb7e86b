package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/disciplehub/disciplehub/internal/models"
)

// setupHabitTestDB creates an in-memory SQLite database for testing.
func setupHabitTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(&models.HabitDefinition{})
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func seedHabit(t *testing.T, repo *HabitRepository, id string, order int, active bool) {
	t.Helper()

	err := repo.Upsert(&models.HabitDefinition{
		ID:           id,
		Name:         id,
		DisplayOrder: order,
		IsActive:     active,
	})
	if err != nil {
		t.Fatalf("Failed to seed habit %s: %v", id, err)
	}
}

func TestHabitRepository_GetActive(t *testing.T) {
	db := setupHabitTestDB(t)
	repo := NewHabitRepository(db)

	seedHabit(t, repo, "habit_scripture", 2, true)
	seedHabit(t, repo, "habit_prayer", 1, true)
	seedHabit(t, repo, "habit_retired", 0, false)

	habits, err := repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}

	if len(habits) != 2 {
		t.Fatalf("Expected 2 active habits, got %d", len(habits))
	}
	if habits[0].ID != "habit_prayer" || habits[1].ID != "habit_scripture" {
		t.Errorf("Expected display order to drive ordering, got %s, %s", habits[0].ID, habits[1].ID)
	}
}

func TestHabitRepository_GetActive_TiesBreakByID(t *testing.T) {
	db := setupHabitTestDB(t)
	repo := NewHabitRepository(db)

	seedHabit(t, repo, "habit_b", 1, true)
	seedHabit(t, repo, "habit_a", 1, true)

	habits, err := repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}

	if habits[0].ID != "habit_a" {
		t.Errorf("Expected id to break display-order ties, got %s first", habits[0].ID)
	}
}

func TestHabitRepository_GetByID(t *testing.T) {
	db := setupHabitTestDB(t)
	repo := NewHabitRepository(db)

	seedHabit(t, repo, "habit_prayer", 1, true)

	habit, err := repo.GetByID("habit_prayer")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if habit.ID != "habit_prayer" {
		t.Errorf("Expected habit_prayer, got %s", habit.ID)
	}

	_, err = repo.GetByID("habit_missing")
	if !errors.Is(err, models.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}
}

func TestHabitRepository_UpsertUpdatesInPlace(t *testing.T) {
	db := setupHabitTestDB(t)
	repo := NewHabitRepository(db)

	seedHabit(t, repo, "habit_prayer", 1, true)

	err := repo.Upsert(&models.HabitDefinition{
		ID:           "habit_prayer",
		Name:         "Morning Prayer",
		DisplayOrder: 5,
		IsActive:     false,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	habit, err := repo.GetByID("habit_prayer")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if habit.Name != "Morning Prayer" || habit.DisplayOrder != 5 || habit.IsActive {
		t.Errorf("Expected updated fields, got %+v", habit)
	}

	var count int64
	db.Model(&models.HabitDefinition{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 row after upsert, got %d", count)
	}
}
