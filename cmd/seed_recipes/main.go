package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/seed"
	"github.com/pageza/recipebox/backend/internal/types"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed_recipes",
		Usage: "push recipes from a seed document to a running recipe server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "seed document: file path, s3://bucket/key, or empty for the built-in recipes",
				Sources: cli.EnvVars("SEED_SOURCE"),
			},
			&cli.StringFlag{
				Name:    "target",
				Usage:   "base URL of the recipe server",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("RECIPES_URL"),
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region for s3:// sources",
				Sources: cli.EnvVars("AWS_REGION"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per request timeout",
				Value: 10 * time.Second,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source := cmd.String("source")

			var objects seed.ObjectReader
			if seed.IsS3(source) {
				s3cfg, err := config.NewS3Config(ctx, cmd.String("region"))
				if err != nil {
					return err
				}
				objects = s3cfg
			}

			reqs, err := seed.Load(ctx, source, objects)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: cmd.Duration("timeout")}
			created, err := push(ctx, client, cmd.String("target"), reqs, cmd.Root().Writer)
			if err != nil {
				return err
			}
			log.Printf("Seeded %d recipes into %s", created, cmd.String("target"))
			return nil
		},
	}
}

// push POSTs each recipe in order and stops at the first rejected one
func push(ctx context.Context, client *http.Client, target string, reqs []types.CreateRecipeRequest, out io.Writer) (int, error) {
	endpoint := strings.TrimRight(target, "/") + "/recipes"

	for i, r := range reqs {
		body, err := json.Marshal(r)
		if err != nil {
			return i, fmt.Errorf("failed to encode recipe %d: %w", i, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return i, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return i, fmt.Errorf("failed to create recipe %q: %w", r.Name, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return i, fmt.Errorf("failed to read response for %q: %w", r.Name, err)
		}

		if resp.StatusCode != http.StatusCreated {
			var apiErr types.ErrorResponse
			if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
				return i, fmt.Errorf("server rejected recipe %q (%d): %s", r.Name, resp.StatusCode, apiErr.Error)
			}
			return i, fmt.Errorf("server rejected recipe %q with status %d", r.Name, resp.StatusCode)
		}

		var recipe types.Recipe
		if err := json.Unmarshal(data, &recipe); err != nil {
			return i, fmt.Errorf("failed to decode created recipe %q: %w", r.Name, err)
		}
		fmt.Fprintf(out, "%s\t%s\n", recipe.ID, recipe.Name)
	}

	return len(reqs), nil
}
