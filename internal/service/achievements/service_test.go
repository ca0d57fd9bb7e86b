package achievements

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// Mock repositories for testing
type mockAchievementRepository struct {
	defs       []models.AchievementDefinition
	grants     map[string]map[string]models.AchievementGrant // userID -> achievementID -> grant
	failGrants map[string]bool                               // achievementID -> fail CreateGrant
	nextID     uint
}

func newMockAchievementRepository(defs []models.AchievementDefinition) *mockAchievementRepository {
	return &mockAchievementRepository{
		defs:       defs,
		grants:     make(map[string]map[string]models.AchievementGrant),
		failGrants: make(map[string]bool),
		nextID:     1,
	}
}

func (m *mockAchievementRepository) GetAll() ([]models.AchievementDefinition, error) {
	return m.defs, nil
}

func (m *mockAchievementRepository) GetByID(id string) (*models.AchievementDefinition, error) {
	for _, def := range m.defs {
		if def.ID == id {
			return &def, nil
		}
	}
	return nil, models.ErrAchievementNotFound
}

func (m *mockAchievementRepository) CreateGrant(grant *models.AchievementGrant) error {
	if m.failGrants[grant.AchievementID] {
		return fmt.Errorf("storage unavailable")
	}
	if m.grants[grant.UserID] == nil {
		m.grants[grant.UserID] = make(map[string]models.AchievementGrant)
	}
	if _, exists := m.grants[grant.UserID][grant.AchievementID]; exists {
		return nil
	}
	grant.ID = m.nextID
	m.nextID++
	m.grants[grant.UserID][grant.AchievementID] = *grant
	return nil
}

func (m *mockAchievementRepository) GetUserGrants(userID string) ([]models.AchievementGrant, error) {
	var result []models.AchievementGrant
	for _, g := range m.grants[userID] {
		result = append(result, g)
	}
	return result, nil
}

func (m *mockAchievementRepository) GetGrantedIDs(userID string) (map[string]bool, error) {
	ids := make(map[string]bool)
	for id := range m.grants[userID] {
		ids[id] = true
	}
	return ids, nil
}

func (m *mockAchievementRepository) GetHoldersCount(achievementID string) (int64, error) {
	count := int64(0)
	for _, userGrants := range m.grants {
		if _, ok := userGrants[achievementID]; ok {
			count++
		}
	}
	return count, nil
}

type mockProgressRepository struct {
	lessons     int64
	readingDays int64
	xp          int64
	err         error
}

func (m *mockProgressRepository) CountLessons(string) (int64, error)     { return m.lessons, m.err }
func (m *mockProgressRepository) CountReadingDays(string) (int64, error) { return m.readingDays, m.err }
func (m *mockProgressRepository) SumXP(string) (int64, error)            { return m.xp, m.err }

type mockCompletionCounter struct {
	count int64
}

func (m *mockCompletionCounter) CountForUser(string) (int64, error) { return m.count, nil }

type mockStreakReader struct {
	records map[string]models.StreakRecord
}

func (m *mockStreakReader) GetByUser(userID string) (*models.StreakRecord, error) {
	if r, ok := m.records[userID]; ok {
		return &r, nil
	}
	return &models.StreakRecord{UserID: userID}, nil
}

func setupAchievementService(defs []models.AchievementDefinition) (*Service, *mockAchievementRepository, *mockProgressRepository, *mockCompletionCounter, *mockStreakReader) {
	achievementRepo := newMockAchievementRepository(defs)
	progressRepo := &mockProgressRepository{}
	completionRepo := &mockCompletionCounter{}
	streakRepo := &mockStreakReader{records: make(map[string]models.StreakRecord)}

	service := NewServiceWithInterfaces(achievementRepo, progressRepo, completionRepo, streakRepo, logger.Nop())

	return service, achievementRepo, progressRepo, completionRepo, streakRepo
}

func TestBuildSnapshot(t *testing.T) {
	service, _, progressRepo, completionRepo, _ := setupAchievementService(testDefs())
	progressRepo.lessons = 12
	progressRepo.readingDays = 40
	progressRepo.xp = 2500
	completionRepo.count = 150

	snapshot, err := service.BuildSnapshot(context.Background(), "user-1", 7)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	expected := models.ProgressSnapshot{
		Streak:           7,
		LessonsCompleted: 12,
		ReadingDays:      40,
		HabitsCompleted:  150,
		XP:               2500,
	}
	if snapshot != expected {
		t.Errorf("Expected snapshot %+v, got %+v", expected, snapshot)
	}
}

func TestBuildSnapshot_SourceFailure(t *testing.T) {
	service, _, progressRepo, _, _ := setupAchievementService(testDefs())
	progressRepo.err = fmt.Errorf("database down")

	if _, err := service.BuildSnapshot(context.Background(), "user-1", 0); err == nil {
		t.Error("Expected error when a source count fails")
	}
}

func TestEvaluateAndGrant_PersistsAllQualifying(t *testing.T) {
	service, achievementRepo, _, _, _ := setupAchievementService(testDefs())
	ctx := context.Background()

	snapshot := models.ProgressSnapshot{Streak: 7, LessonsCompleted: 10}
	grants, err := service.EvaluateAndGrant(ctx, "user-1", snapshot)
	if err != nil {
		t.Fatalf("EvaluateAndGrant failed: %v", err)
	}

	if len(grants) != 3 {
		t.Fatalf("Expected 3 grants, got %d", len(grants))
	}
	granted, _ := achievementRepo.GetGrantedIDs("user-1")
	for _, want := range []string{"streak_3", "streak_7", "lessons_10"} {
		if !granted[want] {
			t.Errorf("Expected %s persisted, got %v", want, granted)
		}
	}
}

func TestEvaluateAndGrant_SecondPassGrantsNothing(t *testing.T) {
	service, _, _, _, _ := setupAchievementService(testDefs())
	ctx := context.Background()
	snapshot := models.ProgressSnapshot{Streak: 7}

	first, err := service.EvaluateAndGrant(ctx, "user-1", snapshot)
	if err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected 2 grants on first pass, got %d", len(first))
	}

	second, err := service.EvaluateAndGrant(ctx, "user-1", snapshot)
	if err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no grants on second pass, got %d", len(second))
	}
}

func TestEvaluateAndGrant_PersistFailureContinues(t *testing.T) {
	// One grant failing to persist must not block the others; the missed
	// one qualifies again on the next evaluation.
	service, achievementRepo, _, _, _ := setupAchievementService(testDefs())
	achievementRepo.failGrants["streak_3"] = true
	ctx := context.Background()
	snapshot := models.ProgressSnapshot{Streak: 7}

	grants, err := service.EvaluateAndGrant(ctx, "user-1", snapshot)
	if err != nil {
		t.Fatalf("EvaluateAndGrant failed: %v", err)
	}
	if len(grants) != 1 || grants[0].AchievementID != "streak_7" {
		t.Fatalf("Expected only streak_7 persisted, got %+v", grants)
	}

	// Storage recovers; the dropped grant lands on the next pass.
	achievementRepo.failGrants = map[string]bool{}
	grants, err = service.EvaluateAndGrant(ctx, "user-1", snapshot)
	if err != nil {
		t.Fatalf("Recovery pass failed: %v", err)
	}
	if len(grants) != 1 || grants[0].AchievementID != "streak_3" {
		t.Errorf("Expected streak_3 granted on recovery, got %+v", grants)
	}
}

func TestEvaluateUser_UsesStoredStreak(t *testing.T) {
	service, achievementRepo, _, _, streakRepo := setupAchievementService(testDefs())
	streakRepo.records["user-1"] = models.StreakRecord{UserID: "user-1", CurrentStreak: 30}

	grants, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("EvaluateUser failed: %v", err)
	}

	granted, _ := achievementRepo.GetGrantedIDs("user-1")
	for _, want := range []string{"streak_3", "streak_7", "streak_30"} {
		if !granted[want] {
			t.Errorf("Expected %s granted from stored streak, got %v", want, granted)
		}
	}
	if len(grants) != 3 {
		t.Errorf("Expected 3 grants, got %d", len(grants))
	}
}

func TestGetUserAchievements(t *testing.T) {
	service, achievementRepo, _, _, _ := setupAchievementService(testDefs())
	_ = achievementRepo.CreateGrant(&models.AchievementGrant{
		UserID: "user-1", AchievementID: "streak_3", StreakDays: 3,
	})

	result, err := service.GetUserAchievements(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUserAchievements failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 achievement, got %d", len(result))
	}
	if result[0].Definition.ID != "streak_3" {
		t.Errorf("Expected definition streak_3, got %s", result[0].Definition.ID)
	}
	if result[0].Grant.StreakDays != 3 {
		t.Errorf("Expected grant streak days 3, got %d", result[0].Grant.StreakDays)
	}
}

func TestGetUserAchievements_OrphanGrantFailsLoudly(t *testing.T) {
	service, achievementRepo, _, _, _ := setupAchievementService(testDefs())
	achievementRepo.grants["user-1"] = map[string]models.AchievementGrant{
		"ghost_achievement": {UserID: "user-1", AchievementID: "ghost_achievement"},
	}

	_, err := service.GetUserAchievements(context.Background(), "user-1")
	if !errors.Is(err, models.ErrConsistency) {
		t.Errorf("Expected ErrConsistency for orphan grant, got %v", err)
	}
}

func TestGetUserAchievements_Empty(t *testing.T) {
	service, _, _, _, _ := setupAchievementService(testDefs())

	result, err := service.GetUserAchievements(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("GetUserAchievements failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty result for fresh user, got %d", len(result))
	}
}
