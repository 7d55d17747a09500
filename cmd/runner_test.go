package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/repositories"
	"github.com/desertthunder/cine/internal/session"
	"github.com/desertthunder/cine/internal/shared"
	tu "github.com/desertthunder/cine/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			videos := &tu.MockCatalog{}
			account := &tu.MockAccount{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Videos:     videos,
				Account:    account,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.videos != videos {
				t.Error("expected videos to be set")
			}
			if runner.account != account {
				t.Error("expected account to be set")
			}
			if runner.aggregator == nil {
				t.Error("expected aggregator to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key":"value"`) {
				t.Errorf("expected compact JSON, got %s", result)
			}
		})

		t.Run("handles marshal error", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Error("expected error for unmarshalable data")
			}
		})

		t.Run("handles write error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Error("expected error when write fails")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("token", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if runner.token() != "" {
			t.Error("expected empty token without a store")
		}
	})
}

func TestRunnerActions(t *testing.T) {
	ctx := context.Background()

	t.Run("Trending", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output: output,
			Videos: &tu.MockCatalog{
				TrendingFn: func(ctx context.Context, limit int) ([]models.Video, error) {
					return []models.Video{{ID: "t1", Title: "Hot Now", Duration: "1:00:00", Views: 5000}}, nil
				},
			},
		})

		cmd := trendingCommand(runner)
		if err := cmd.Run(ctx, []string{"trending"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Hot Now") {
			t.Errorf("expected trending title in output, got %q", output.String())
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("missing query argument", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Videos: &tu.MockCatalog{}})

			cmd := searchCommand(runner)
			err := cmd.Run(ctx, []string{"search"})
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("prints results", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Output: output,
				Videos: &tu.MockCatalog{
					SearchFn: func(ctx context.Context, query string) ([]models.Video, error) {
						return []models.Video{{ID: "s1", Title: "Match"}}, nil
					},
				},
			})

			cmd := searchCommand(runner)
			if err := cmd.Run(ctx, []string{"search", "space"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Match") {
				t.Errorf("expected result in output, got %q", output.String())
			}
		})

		t.Run("no results", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Videos: &tu.MockCatalog{}})

			cmd := searchCommand(runner)
			if err := cmd.Run(ctx, []string{"search", "nothing"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "No results") {
				t.Errorf("expected empty-result message, got %q", output.String())
			}
		})
	})

	t.Run("Video", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output: output,
			Videos: &tu.MockCatalog{
				VideoFn: func(ctx context.Context, id string) (*models.Video, error) {
					return &models.Video{ID: id, Title: "Details", Category: "Crime", Duration: "1:45:00"}, nil
				},
			},
		})

		cmd := videoCommand(runner)
		if err := cmd.Run(ctx, []string{"video", "v7"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Title: Details") {
			t.Errorf("expected detail output, got %q", output.String())
		}
	})

	t.Run("History Requires Authentication", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Account: &tu.MockAccount{}})

		cmd := historyCommand(runner)
		err := cmd.Run(ctx, []string{"history"})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Auth Register Then Login", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		account := &tu.MockAccount{
			ProfileFn: func(ctx context.Context, token string) (*models.User, error) {
				return &models.User{ID: "u1", Email: "new@example.com", DisplayName: "New User"}, nil
			},
		}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output:  output,
			Account: account,
			Store:   session.NewStore(account, repositories.NewSessionRepository(db), nil),
		})

		cmd := authCommand(runner)
		args := []string{"auth", "register", "--email", "new@example.com", "--password", "secret", "--name", "New User"}
		if err := cmd.Run(ctx, args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Account created: New User") {
			t.Errorf("expected registration confirmation, got %q", result)
		}
		if !strings.Contains(result, "Signed in as New User") {
			t.Errorf("expected sign-in confirmation, got %q", result)
		}
		if !runner.store.Current().Authenticated() {
			t.Error("expected an authenticated session after registration")
		}
	})

	t.Run("Feed", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: &shared.Config{
				Catalog: shared.CatalogConfig{Categories: []string{"Sci-Fi", ""}, HistoryLimit: 10},
			},
			Output: output,
			Videos: &tu.MockCatalog{
				FeedFn: func(ctx context.Context, category string) ([]models.Video, error) {
					if category == "Sci-Fi" {
						return []models.Video{{ID: "v1", Title: "Lead Feature"}}, nil
					}
					return nil, nil
				},
			},
		})

		cmd := feedCommand(runner)
		if err := cmd.Run(ctx, []string{"feed"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Featured: Lead Feature") {
			t.Errorf("expected hero header, got %q", result)
		}
		if !strings.Contains(result, "all (0)") {
			t.Errorf("expected the empty 'all' section, got %q", result)
		}
	})
}
