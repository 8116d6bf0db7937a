package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"todo-api/internal/database"
	"todo-api/internal/models"
	"todo-api/internal/repository"
	"todo-api/internal/service"
	"todo-api/internal/token"
)

type seedOptions struct {
	username  string
	password  string
	total     int
	batchSize int
}

func newSeedCmd(a *app) *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user and bulk insert todos for load testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := database.Open(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			var tokens service.TokenIssuer
			if a.cfg.JWTSecret != "" {
				if tokens, err = token.New(a.cfg.JWTSecret); err != nil {
					return err
				}
			}
			auth := service.NewAuthService(repository.NewUserRepository(db), tokens)
			return seed(ctx, cmd, auth, repository.NewTodoRepository(db), tokens, opts)
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "seed-user", "username of the seeded account")
	cmd.Flags().StringVar(&opts.password, "password", "seed-password", "password of the seeded account")
	cmd.Flags().IntVar(&opts.total, "count", 10_000, "number of todos to insert")
	cmd.Flags().IntVar(&opts.batchSize, "batch", 500, "rows per INSERT statement")
	return cmd
}

type batchInserter interface {
	CreateBatch(ctx context.Context, todos []models.Todo) error
}

func seed(ctx context.Context, cmd *cobra.Command, auth *service.AuthService, todos batchInserter, tokens service.TokenIssuer, opts seedOptions) error {
	if opts.total < 0 || opts.batchSize <= 0 {
		return errors.New("--count must be >= 0 and --batch > 0")
	}
	out := cmd.OutOrStdout()
	user, err := auth.Register(ctx, opts.username, opts.password)
	if err != nil {
		return err
	}
	start := time.Now()
	for done := 0; done < opts.total; {
		n := min(opts.batchSize, opts.total-done)
		batch := make([]models.Todo, n)
		for i := range batch {
			seq := done + i + 1
			batch[i] = models.Todo{
				UserID:      user.ID,
				Title:       fmt.Sprintf("Todo %d", seq),
				Description: fmt.Sprintf("Description for todo %d", seq),
			}
		}
		if err := todos.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert batch at %d: %w", done, err)
		}
		done += n
		fmt.Fprintf(out, "\rInserted %d / %d", done, opts.total)
	}
	fmt.Fprintf(out, "\nDone: %d todos for user %s in %v\n", opts.total, user.ID, time.Since(start))
	if tokens != nil {
		signed, err := tokens.Issue(user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Token: %s\n", signed)
	}
	return nil
}
