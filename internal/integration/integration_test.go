package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"finergy-service/internal/app"
	"finergy-service/internal/auth"
	"finergy-service/internal/domain"
	pgstore "finergy-service/internal/infra/postgres"
	pgmigrations "finergy-service/internal/infra/postgres/migrations"
	infraredis "finergy-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestScoreAndLeaderboardEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	store := pgstore.NewStore(pool)
	tokens := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	authSvc := auth.NewService(store, tokens)
	evaluation := app.NewEvaluationService(store)
	challenges := app.NewChallengeServiceWithSeed(store, 99, time.Now)
	taskSets := infraredis.NewTaskSetCache(redisClient, challenges, 5*time.Minute)
	hub := app.NewCohortHub(challenges)
	evaluation.SetNotifier(hub)
	challenges.SetNotifier(hub)

	// Sign up, authenticate through the token round-trip.
	identity, token, err := authSvc.SignUp(ctx, "alice@example.com", "hunter22", "alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	resolved, err := authSvc.Identify(ctx, token)
	if err != nil || resolved.UserID != identity.UserID {
		t.Fatalf("identify: %v (%+v)", err, resolved)
	}

	// Submit a perfect survey and verify score plus cohort ranking.
	if _, err := evaluation.Submit(ctx, identity.UserID, perfectAnswers(), "94720"); err != nil {
		t.Fatalf("submit evaluation: %v", err)
	}
	board, err := challenges.RankCohort(ctx, "94720")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].Score != 10.0 || board.Entries[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard: %+v", board.Entries)
	}

	// Weekly tasks come out of the Redis cache on the second resolve.
	week := challenges.CurrentWeek()
	first, err := taskSets.ResolveWeeklyTasks(ctx, week)
	if err != nil {
		t.Fatalf("resolve tasks: %v", err)
	}
	second, err := taskSets.ResolveWeeklyTasks(ctx, week)
	if err != nil {
		t.Fatalf("resolve tasks again: %v", err)
	}
	if len(first.Tasks) != domain.WeeklyTaskCount {
		t.Fatalf("expected %d tasks, got %d", domain.WeeklyTaskCount, len(first.Tasks))
	}
	for i := range first.Tasks {
		if first.Tasks[i] != second.Tasks[i] {
			t.Fatalf("cached set differs: %v vs %v", first.Tasks, second.Tasks)
		}
	}

	// Toggling a task nudges the persisted score (capped rounding applies).
	if _, score, err := challenges.ToggleTask(ctx, identity.UserID, week, 0); err != nil {
		t.Fatalf("toggle: %v", err)
	} else if score != 10.1 {
		t.Fatalf("expected 10.1 after toggle, got %v", score)
	}

	if err := authSvc.SignOut(ctx, token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := authSvc.Identify(ctx, token); err == nil {
		t.Fatal("expected dead token after sign out")
	}
}

func perfectAnswers() map[int]domain.Answer {
	answers := make(map[int]domain.Answer, domain.QuestionCount)
	for _, question := range domain.Questions() {
		for _, option := range question.Options {
			if option.Points == domain.MaxPointsPerQuestion {
				answers[question.ID] = domain.Answer{QuestionID: question.ID, Text: option.Text, Points: option.Points}
				break
			}
		}
	}
	return answers
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "finergy", "POSTGRES_PASSWORD": "finergypass", "POSTGRES_DB": "finergydb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://finergy:finergypass@%s:%s/finergydb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
