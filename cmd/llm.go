package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/maintenance"
	"github.com/abhisek/linguo/internal/store"
	"github.com/abhisek/linguo/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			if len(events) == 0 {
				fmt.Println("No LLM events found.")
				return nil
			}

			fmt.Printf("%-8s  %-19s  %-10s  %-9s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Transport", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 108))

			for _, e := range events {
				ok := theme.Correct.Render("✓")
				if !e.Success {
					ok = theme.Incorrect.Render("✗")
				}
				fmt.Printf("%-8s  %-19s  %-10s  %-9s  %-28s  %-6d  %-6d  %-7d  %s\n",
					truncate(e.ID, 8),
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Purpose,
					e.Transport,
					truncate(e.Model, 28),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					ok,
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			e, err := findEvent(ctx, s.EventRepo(), args[0])
			if err != nil {
				return err
			}

			sep := strings.Repeat("─", 60)

			fmt.Printf("ID:        %s\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Provider:  %s (%s)\n", e.Provider, e.Transport)
			fmt.Printf("Model:     %s\n", e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			fmt.Printf("Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", theme.Incorrect.Render(e.ErrorMessage))
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", e.RequestBody},
				{"RESPONSE", e.ResponseBody},
			} {
				fmt.Println(sep)
				fmt.Println(theme.Label.Render(part.title))
				fmt.Println(sep)
				if part.body != "" {
					fmt.Println(part.body)
				} else {
					fmt.Println("(not captured)")
				}
			}
			return nil
		})
	},
}

// findEvent resolves a full id, or a unique prefix as printed by list.
func findEvent(ctx context.Context, events store.EventRepo, id string) (*store.LLMRequestEvent, error) {
	e, err := events.GetLLMEvent(ctx, id)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}

	recent, err := events.QueryLLMEvents(ctx, store.QueryOpts{Limit: 1000})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	var match *store.LLMRequestEvent
	for i := range recent {
		if strings.HasPrefix(recent[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", id)
			}
			match = &recent[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("event %s not found", id)
	}
	return match, nil
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}

			if len(stats) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Println(theme.Title.Render("Usage by Purpose"))
			fmt.Println(strings.Repeat("─", 80))
			fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %10s\n",
				"Purpose", "Calls", "Failed", "Input", "Output", "Total")
			fmt.Println(strings.Repeat("─", 80))

			var totalCalls, totalFailed, totalIn, totalOut int
			for _, st := range stats {
				fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d\n",
					st.Key, st.Requests, st.Failures, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens)
				totalCalls += st.Requests
				totalFailed += st.Failures
				totalIn += st.InputTokens
				totalOut += st.OutputTokens
			}

			fmt.Println(strings.Repeat("─", 80))
			fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d\n",
				"TOTAL", totalCalls, totalFailed, totalIn, totalOut, totalIn+totalOut)

			modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(modelUsage) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(theme.Title.Render("Estimated Cost (USD)"))
			fmt.Println(strings.Repeat("─", 80))
			fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
				"Model", "Calls", "Input", "Output", "Cost")
			fmt.Println(strings.Repeat("─", 80))

			var totalCost float64
			var unknownModels []string
			for _, mu := range modelUsage {
				cost := llm.LookupCost(mu.Key)
				if cost == nil {
					unknownModels = append(unknownModels, mu.Key)
					fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
						truncate(mu.Key, 32), mu.Requests, mu.InputTokens, mu.OutputTokens, "?")
					continue
				}
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Key, 32), mu.Requests, mu.InputTokens, mu.OutputTokens, formatCost(c))
			}

			fmt.Println(strings.Repeat("─", 80))
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))

			if len(unknownModels) > 0 {
				fmt.Println(theme.Hint.Render("\nPricing unavailable for: " + strings.Join(unknownModels, ", ")))
			}
			return nil
		})
	},
}

var llmPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete LLM events older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		retention, _ := cmd.Flags().GetDuration("older-than")

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			n, err := maintenance.New(s.EventRepo(), maintenance.Config{Retention: retention}, nil).Prune(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d events.\n", n)
			return nil
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (lesson, assessment, feedback, chat)")
	llmPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Retention window")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmPruneCmd)
}
