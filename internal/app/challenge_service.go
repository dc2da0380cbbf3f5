package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"finergy-service/internal/docstore"
	"finergy-service/internal/domain"
)

const (
	weeklyTasksCollection  = "weeklyTasks"
	taskProgressCollection = "taskProgress"

	// taskScoreDelta is the leaderboard credit for one completed challenge.
	taskScoreDelta = 0.1
)

// ScoreNotifier is told which cohort to rebroadcast after a score write.
type ScoreNotifier interface {
	ScoreChanged(zipCode string)
}

// ChallengeService owns the weekly task sets, per-user checklist progress,
// the score deltas they produce, and cohort ranking.
type ChallengeService struct {
	store    docstore.Store
	clock    func() time.Time
	notifier ScoreNotifier

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewChallengeService(store docstore.Store) *ChallengeService {
	return &ChallengeService{
		store: store,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewChallengeServiceWithSeed pins the sampling source and clock for
// deterministic tests.
func NewChallengeServiceWithSeed(store docstore.Store, seed int64, now func() time.Time) *ChallengeService {
	return &ChallengeService{
		store: store,
		clock: now,
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

// SetNotifier attaches the hub that rebroadcasts cohort leaderboards.
func (s *ChallengeService) SetNotifier(n ScoreNotifier) {
	s.notifier = n
}

// CurrentWeek returns the week bucket for the service clock's now.
func (s *ChallengeService) CurrentWeek() int {
	return domain.WeekNumber(s.clock())
}

// ResolveWeeklyTasks returns the shared task set for a week, creating it on
// first access by sampling seven distinct challenges from the catalog.
// Concurrent first readers may race to create the set; last writer wins and
// later readers see one winner's set, which callers must tolerate.
func (s *ChallengeService) ResolveWeeklyTasks(ctx context.Context, weekNumber int) (domain.WeeklyTaskSet, error) {
	id := strconv.Itoa(weekNumber)

	doc, err := s.store.Get(ctx, weeklyTasksCollection, id)
	if err == nil {
		var set domain.WeeklyTaskSet
		if decodeErr := docstore.Decode(doc, &set); decodeErr != nil {
			return domain.WeeklyTaskSet{}, fmt.Errorf("decode task set: %w", decodeErr)
		}
		return set, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return domain.WeeklyTaskSet{}, fmt.Errorf("load task set: %w: %v", domain.ErrStorageUnavailable, err)
	}

	set := domain.WeeklyTaskSet{
		WeekNumber: weekNumber,
		Tasks:      s.sampleTasks(),
	}
	fields, err := docstore.Encode(set)
	if err != nil {
		return domain.WeeklyTaskSet{}, fmt.Errorf("encode task set: %w", err)
	}
	if err := s.store.Merge(ctx, weeklyTasksCollection, id, fields); err != nil {
		return domain.WeeklyTaskSet{}, fmt.Errorf("save task set: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return set, nil
}

// sampleTasks draws WeeklyTaskCount distinct entries from the catalog.
func (s *ChallengeService) sampleTasks() []string {
	catalog := domain.ChallengeCatalog()

	s.mu.Lock()
	perm := s.rnd.Perm(len(catalog))
	s.mu.Unlock()

	tasks := make([]string, domain.WeeklyTaskCount)
	for i := range tasks {
		tasks[i] = catalog[perm[i]]
	}
	return tasks
}

// GetProgress returns the user's checklist for a week; a never-touched week
// comes back as an empty, NotStarted progress.
func (s *ChallengeService) GetProgress(ctx context.Context, userID string, weekNumber int) (domain.TaskProgress, error) {
	progress := domain.TaskProgress{
		UserID:     userID,
		WeekNumber: weekNumber,
		Completed:  map[int]bool{},
	}
	doc, err := s.store.Get(ctx, taskProgressCollection, progressID(userID, weekNumber))
	if errors.Is(err, docstore.ErrNotFound) {
		return progress, nil
	}
	if err != nil {
		return domain.TaskProgress{}, fmt.Errorf("load progress: %w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := docstore.Decode(doc, &progress); err != nil {
		return domain.TaskProgress{}, fmt.Errorf("decode progress: %w", err)
	}
	if progress.Completed == nil {
		progress.Completed = map[int]bool{}
	}
	return progress, nil
}

// ToggleTask flips one checklist entry and applies the matching score
// delta: +0.1 on newly completed, -0.1 on newly uncompleted, floored at 0.
// Progress and score are two separate merge writes; if the second fails the
// caller sees a storage error and retries, re-reading first.
func (s *ChallengeService) ToggleTask(ctx context.Context, userID string, weekNumber, taskIndex int) (domain.TaskProgress, float64, error) {
	if userID == "" {
		return domain.TaskProgress{}, 0, domain.ErrUnauthenticated
	}
	if taskIndex < 0 || taskIndex >= domain.WeeklyTaskCount {
		return domain.TaskProgress{}, 0, domain.ErrTaskIndexOutOfRange
	}
	if _, err := s.ResolveWeeklyTasks(ctx, weekNumber); err != nil {
		return domain.TaskProgress{}, 0, err
	}

	userDoc, err := s.store.Get(ctx, usersCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.TaskProgress{}, 0, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.TaskProgress{}, 0, fmt.Errorf("load user: %w: %v", domain.ErrStorageUnavailable, err)
	}
	if _, ok := userDoc.At("evaluationResults", "completedAt"); !ok {
		return domain.TaskProgress{}, 0, domain.ErrEvaluationRequired
	}

	progress, err := s.GetProgress(ctx, userID, weekNumber)
	if err != nil {
		return domain.TaskProgress{}, 0, err
	}

	nowCompleted := !progress.Completed[taskIndex]
	progress.Completed[taskIndex] = nowCompleted

	fields := docstore.Document{
		"userId":     userID,
		"weekNumber": weekNumber,
		"completed": map[string]any{
			strconv.Itoa(taskIndex): nowCompleted,
		},
	}
	if err := s.store.Merge(ctx, taskProgressCollection, progressID(userID, weekNumber), fields); err != nil {
		return domain.TaskProgress{}, 0, fmt.Errorf("save progress: %w: %v", domain.ErrStorageUnavailable, err)
	}

	delta := taskScoreDelta
	if !nowCompleted {
		delta = -taskScoreDelta
	}
	newScore := adjustScore(userDoc.FloatAt("evaluationResults", "score"), delta)

	scoreFields := docstore.Document{
		"evaluationResults": map[string]any{"score": newScore},
	}
	if err := s.store.Merge(ctx, usersCollection, userID, scoreFields); err != nil {
		// Progress is already persisted; surface as retryable so the caller
		// re-reads and retries rather than assuming both writes landed.
		return domain.TaskProgress{}, 0, fmt.Errorf("save score: %w: %v", domain.ErrStorageUnavailable, err)
	}

	if s.notifier != nil {
		if zip := userDoc.StringAt("profile", "zipCode"); zip != "" {
			s.notifier.ScoreChanged(zip)
		}
	}
	return progress, newScore, nil
}

// adjustScore applies a challenge delta. The floor here is 0, not the 1.0
// evaluation floor; the two deliberately differ and are kept as observed.
func adjustScore(score, delta float64) float64 {
	adjusted := math.Round((score+delta)*10) / 10
	if adjusted < 0 {
		return 0
	}
	return adjusted
}

// RankCohort recomputes the leaderboard for one zip-code cohort on every
// call. Users without a score rank with 0. Ties get distinct successive
// ranks; user id ascending is the deterministic secondary order.
func (s *ChallengeService) RankCohort(ctx context.Context, zipCode string) (domain.Leaderboard, error) {
	if !ValidateZipCode(zipCode) {
		return domain.Leaderboard{}, domain.ErrInvalidZipCode
	}

	docs, err := s.store.QueryEqual(ctx, usersCollection, []string{"profile", "zipCode"}, zipCode)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("query cohort: %w: %v", domain.ErrStorageUnavailable, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   doc.StringAt("id"),
			Username: doc.StringAt("profile", "username"),
			Score:    doc.FloatAt("evaluationResults", "score"),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return domain.Leaderboard{
		ZipCode:   zipCode,
		Entries:   entries,
		UpdatedAt: s.clock(),
	}, nil
}

func progressID(userID string, weekNumber int) string {
	return userID + ":" + strconv.Itoa(weekNumber)
}
