package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/models"
	"todo-api/internal/repository"
	"todo-api/internal/service"
	"todo-api/internal/token"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := execute(t, "token", "--user", "u42")
	require.NoError(t, err)

	tokens, err := token.New("cli-secret")
	require.NoError(t, err)
	userID, err := tokens.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u42", userID)
}

func TestTokenCommand_RequiresUserAndSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token")
	assert.EqualError(t, err, "--user is required")

	_, err = execute(t, "token", "--user", "u1")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestServe_RefusesWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

type recordingUsers struct{}

func (recordingUsers) Create(_ context.Context, u *models.User) error {
	u.ID = "seed-id"
	return nil
}

func (recordingUsers) FindByUsername(context.Context, string) (models.User, error) {
	return models.User{}, repository.ErrNotFound
}

type recordingBatches struct {
	sizes []int
	err   error
}

func (r *recordingBatches) CreateBatch(_ context.Context, todos []models.Todo) error {
	if r.err != nil {
		return r.err
	}
	for _, td := range todos {
		if td.UserID != "seed-id" {
			return errors.New("todo not owned by seeded user")
		}
	}
	r.sizes = append(r.sizes, len(todos))
	return nil
}

func TestSeed_Batches(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	auth := service.NewAuthService(recordingUsers{}, nil, service.WithHashCost(bcrypt.MinCost))
	batches := &recordingBatches{}
	tokens, err := token.New("seed-secret")
	require.NoError(t, err)

	err = seed(context.Background(), cmd, auth, batches, tokens, seedOptions{username: "s", password: "p", total: 1200, batchSize: 500})
	require.NoError(t, err)
	assert.Equal(t, []int{500, 500, 200}, batches.sizes)
	assert.Contains(t, out.String(), "Done: 1200 todos for user seed-id")
	assert.Contains(t, out.String(), "Token: ")
}

func TestSeed_InvalidOptions(t *testing.T) {
	auth := service.NewAuthService(recordingUsers{}, nil)
	err := seed(context.Background(), &cobra.Command{}, auth, &recordingBatches{}, nil, seedOptions{total: 10, batchSize: 0})
	assert.Error(t, err)
}

func TestSeed_BatchError(t *testing.T) {
	auth := service.NewAuthService(recordingUsers{}, nil, service.WithHashCost(bcrypt.MinCost))
	err := seed(context.Background(), &cobra.Command{}, auth, &recordingBatches{err: errors.New("insert failed")}, nil,
		seedOptions{username: "s", password: "p", total: 10, batchSize: 5})
	assert.ErrorContains(t, err, "insert batch at 0")
}
