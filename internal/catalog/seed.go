// Package catalog loads the habit and achievement definitions from the
// seed file and reconciles them into the database.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/internal/repository"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// SeedFile is the on-disk shape of the catalog seed.
type SeedFile struct {
	Habits       []HabitSeed       `yaml:"habits"`
	Achievements []AchievementSeed `yaml:"achievements"`
}

// HabitSeed describes one habit definition.
type HabitSeed struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Icon         string `yaml:"icon"`
	Color        string `yaml:"color"`
	DisplayOrder int    `yaml:"display_order"`
	IsActive     *bool  `yaml:"is_active"`
}

// AchievementSeed describes one achievement definition.
type AchievementSeed struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Requirement int    `yaml:"requirement"`
	Tier        string `yaml:"tier"`
	Icon        string `yaml:"icon"`
}

var validTypes = map[string]bool{
	models.MetricStreak:  true,
	models.MetricLessons: true,
	models.MetricReading: true,
	models.MetricHabits:  true,
	models.MetricXP:      true,
	models.MetricSpecial: true,
}

// Load parses and validates a seed file.
func Load(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &seed, nil
}

// Validate checks ids, types, and requirements.
func (s *SeedFile) Validate() error {
	seen := make(map[string]bool)
	for _, h := range s.Habits {
		if h.ID == "" {
			return fmt.Errorf("habit with empty id")
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit id %q", h.ID)
		}
		seen[h.ID] = true
		if h.Name == "" {
			return fmt.Errorf("habit %q has no name", h.ID)
		}
	}

	seen = make(map[string]bool)
	for _, a := range s.Achievements {
		if a.ID == "" {
			return fmt.Errorf("achievement with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if !validTypes[a.Type] {
			return fmt.Errorf("achievement %q has unknown type %q", a.ID, a.Type)
		}
		if a.Type != models.MetricSpecial && a.Requirement <= 0 {
			return fmt.Errorf("achievement %q needs a positive requirement", a.ID)
		}
	}
	return nil
}

// Seed upserts the catalog definitions. Existing grants and completions
// are never touched; removing a definition from the seed does not delete
// it from the database.
func Seed(seed *SeedFile, habitRepo *repository.HabitRepository, achievementRepo *repository.AchievementRepository, log *logger.Logger) error {
	for _, h := range seed.Habits {
		active := true
		if h.IsActive != nil {
			active = *h.IsActive
		}
		def := &models.HabitDefinition{
			ID:           h.ID,
			Name:         h.Name,
			Icon:         h.Icon,
			Color:        h.Color,
			DisplayOrder: h.DisplayOrder,
			IsActive:     active,
		}
		if err := habitRepo.Upsert(def); err != nil {
			return err
		}
	}

	for _, a := range seed.Achievements {
		def := &models.AchievementDefinition{
			ID:          a.ID,
			Label:       a.Label,
			Description: a.Description,
			Type:        a.Type,
			Requirement: a.Requirement,
			Tier:        a.Tier,
			Icon:        a.Icon,
		}
		if err := achievementRepo.Upsert(def); err != nil {
			return err
		}
	}

	log.Info().
		Int("habits", len(seed.Habits)).
		Int("achievements", len(seed.Achievements)).
		Msg("Catalog seeded")

	return nil
}
