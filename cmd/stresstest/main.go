package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcoach/internal/e2etest"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	defaultUsers            = 50
	successRateThreshold    = 95.0
	percentageMultiplier    = 100
)

// result is the outcome of one user's plan scenario.
type result struct {
	duration time.Duration
	err      error
}

// RunLoadTest runs the plan scenario for numUsers fresh users with bounded concurrency.
func RunLoadTest(ctx context.Context, client *e2etest.Client, numUsers int, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_users", numUsers))

	var (
		results   = make([]result, 0, numUsers)
		resultsMu sync.Mutex
		runID     = uuid.NewString()[:8]
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)
	for i := range numUsers {
		g.Go(func() error {
			userID := fmt.Sprintf("stresstest-%s-%d", runID, i)
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			start := time.Now()
			err := e2etest.PlanScenario(scenarioCtx, client, userID)
			if err != nil {
				// Individual failures are counted, they do not stop the other scenarios.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("user_id", userID), errors.SlogError(err))
			}
			resultsMu.Lock()
			results = append(results, result{duration: time.Since(start), err: err})
			resultsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	var (
		failed    int
		durations = make([]time.Duration, 0, len(results))
	)
	for _, r := range results {
		if r.err != nil {
			failed++
			continue
		}
		durations = append(durations, r.duration)
	}
	slices.Sort(durations)
	successRate := float64(len(durations)) / float64(numUsers) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int("successful", len(durations)),
		slog.Int("failed", failed),
		slog.Float64("success_rate", successRate),
		slog.Duration("p50", percentile(durations, 50)),  //nolint:mnd // median
		slog.Duration("p95", percentile(durations, 95)),  //nolint:mnd // tail
		slog.Duration("max", percentile(durations, 100))) //nolint:mnd // worst case

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

// percentile returns the p-th percentile of sorted durations using the nearest-rank method.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + percentageMultiplier - 1) / percentageMultiplier
	return sorted[max(rank, 1)-1]
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) < 2 || len(os.Args) > 3 { //nolint:mnd // hostname and optional user count.
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> [users]")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		numUsers = defaultUsers
		start    = time.Now()
		err      error
	)
	if len(os.Args) == 3 { //nolint:mnd // user count given.
		if numUsers, err = strconv.Atoi(os.Args[2]); err != nil || numUsers <= 0 {
			logger.LogAttrs(ctx, slog.LevelError, "users must be a positive integer", slog.String("users", os.Args[2]))
			os.Exit(1)
		}
	}

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}

	if err = RunLoadTest(ctx, client, numUsers, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("users_tested", numUsers))
}
