// File: internal/infrastructure/database/user_mfa_postgres_repository_integration_test.go
package database

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
)

// testDB is shared by the integration tests in this package. It stays nil when
// TEST_AUTH_POSTGRES_DSN is not set, and every test skips itself in that case.
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_AUTH_POSTGRES_DSN")
	if dsn != "" {
		mig, err := migrate.New("file://../../../migrations", dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create migration instance: %v\n", err)
			os.Exit(1)
		}
		if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
			fmt.Fprintf(os.Stderr, "failed to apply migrations: %v\n", err)
			os.Exit(1)
		}

		testDB, err = pgxpool.New(context.Background(), dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
			os.Exit(1)
		}
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func requireTestDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_AUTH_POSTGRES_DSN not set, skipping integration test")
	}
}

func clearTestTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"user_mfa", "users", "workspaces"} {
		_, err := testDB.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "failed to clear table %s", table)
	}
}

func createTestWorkspace(ctx context.Context, t *testing.T, hostname string, enforceMFA bool) *models.Workspace {
	t.Helper()
	ws := &models.Workspace{ID: uuid.New(), Name: "Test Workspace", Hostname: hostname, EnforceMFA: enforceMFA}
	_, err := testDB.Exec(ctx,
		`INSERT INTO workspaces (id, name, hostname, enforce_mfa) VALUES ($1, $2, $3, $4)`,
		ws.ID, ws.Name, ws.Hostname, ws.EnforceMFA,
	)
	require.NoError(t, err)
	return ws
}

func createTestUser(ctx context.Context, t *testing.T, workspaceID uuid.UUID, suffix string) *models.User {
	t.Helper()
	userRepo := NewPgxUserRepository(testDB)
	user := &models.User{
		ID:           uuid.New(),
		WorkspaceID:  workspaceID,
		Email:        fmt.Sprintf("user_%s@example.com", suffix),
		Name:         "Test User",
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	}
	require.NoError(t, userRepo.Create(ctx, user))
	return user
}

func TestUserMFARepository_UpsertAndGet(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "upsert.example.com", false)
	user := createTestUser(ctx, t, ws.ID, "upsert")
	repo := NewPgxUserMFARepository(testDB)

	record := &models.UserMFA{
		UserID:      user.ID,
		WorkspaceID: ws.ID,
		Secret:      "FIRSTSECRET",
		IsEnabled:   true,
		Method:      models.MFAMethodTOTP,
	}
	require.NoError(t, repo.Upsert(ctx, record))

	got, err := repo.Get(ctx, user.ID, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIRSTSECRET", got.Secret)
	assert.True(t, got.IsEnabled)
	assert.Equal(t, models.MFAMethodTOTP, got.Method)
}

func TestUserMFARepository_UpsertOverwrites(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "overwrite.example.com", false)
	user := createTestUser(ctx, t, ws.ID, "overwrite")
	repo := NewPgxUserMFARepository(testDB)

	require.NoError(t, repo.Upsert(ctx, &models.UserMFA{
		UserID: user.ID, WorkspaceID: ws.ID, Secret: "FIRSTSECRET", IsEnabled: true, Method: models.MFAMethodTOTP,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.UserMFA{
		UserID: user.ID, WorkspaceID: ws.ID, Secret: "SECONDSECRET", IsEnabled: true, Method: models.MFAMethodTOTP,
	}))

	// Re-enrollment replaces the row, it never accumulates.
	got, err := repo.Get(ctx, user.ID, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "SECONDSECRET", got.Secret)

	var count int
	require.NoError(t, testDB.QueryRow(ctx,
		`SELECT count(*) FROM user_mfa WHERE user_id = $1 AND workspace_id = $2`, user.ID, ws.ID,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserMFARepository_GetMissing(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	repo := NewPgxUserMFARepository(testDB)

	_, err := repo.Get(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domainErrors.ErrMFANotFound)
}

func TestUserMFARepository_DeleteIsIdempotent(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "delete.example.com", false)
	user := createTestUser(ctx, t, ws.ID, "delete")
	repo := NewPgxUserMFARepository(testDB)

	require.NoError(t, repo.Upsert(ctx, &models.UserMFA{
		UserID: user.ID, WorkspaceID: ws.ID, Secret: "SECRET", IsEnabled: true, Method: models.MFAMethodTOTP,
	}))

	require.NoError(t, repo.Delete(ctx, user.ID, ws.ID))
	_, err := repo.Get(ctx, user.ID, ws.ID)
	assert.ErrorIs(t, err, domainErrors.ErrMFANotFound)

	// Deleting again with nothing there still succeeds.
	require.NoError(t, repo.Delete(ctx, user.ID, ws.ID))
}

func TestUserRepository_FindByEmailAttachesMFA(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "attach.example.com", false)
	user := createTestUser(ctx, t, ws.ID, "attach")
	userRepo := NewPgxUserRepository(testDB)
	mfaRepo := NewPgxUserMFARepository(testDB)

	found, err := userRepo.FindByEmail(ctx, user.Email, ws.ID)
	require.NoError(t, err)
	assert.Nil(t, found.MFA)
	assert.False(t, found.HasEnabledMFA())

	require.NoError(t, mfaRepo.Upsert(ctx, &models.UserMFA{
		UserID: user.ID, WorkspaceID: ws.ID, Secret: "SECRET", IsEnabled: true, Method: models.MFAMethodTOTP,
	}))

	found, err = userRepo.FindByEmail(ctx, user.Email, ws.ID)
	require.NoError(t, err)
	require.NotNil(t, found.MFA)
	assert.True(t, found.HasEnabledMFA())
	assert.Equal(t, "SECRET", found.MFA.Secret)
}

func TestUserRepository_FindByEmailCaseInsensitive(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "case.example.com", false)
	user := createTestUser(ctx, t, ws.ID, "case")
	userRepo := NewPgxUserRepository(testDB)

	found, err := userRepo.FindByEmail(ctx, "USER_CASE@EXAMPLE.COM", ws.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_FindByEmailUnknown(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "unknown.example.com", false)
	userRepo := NewPgxUserRepository(testDB)

	_, err := userRepo.FindByEmail(ctx, "nobody@example.com", ws.ID)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
}

func TestUserRepository_EmailScopedToWorkspace(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	wsA := createTestWorkspace(ctx, t, "tenant-a.example.com", false)
	wsB := createTestWorkspace(ctx, t, "tenant-b.example.com", false)
	user := createTestUser(ctx, t, wsA.ID, "scoped")
	userRepo := NewPgxUserRepository(testDB)

	// The same email resolves only inside its own workspace.
	_, err := userRepo.FindByEmail(ctx, user.Email, wsB.ID)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
}

func TestWorkspaceRepository_FindByHostname(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	clearTestTables(t)

	ws := createTestWorkspace(ctx, t, "hostname.example.com", true)
	repo := NewPgxWorkspaceRepository(testDB)

	found, err := repo.FindByHostname(ctx, "hostname.example.com")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, found.ID)
	assert.True(t, found.EnforceMFA)

	_, err = repo.FindByHostname(ctx, "missing.example.com")
	assert.ErrorIs(t, err, domainErrors.ErrWorkspaceNotFound)
}
