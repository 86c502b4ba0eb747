package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/store"
	"github.com/abhisek/linguo/internal/ui/components"
	"github.com/abhisek/linguo/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a learner's XP, streak and lesson history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			p, err := s.ProfileRepo().Get(ctx, userID)
			if err != nil {
				return fmt.Errorf("get profile: %w", err)
			}
			if p == nil {
				fmt.Printf("No profile for %s.\n", userID)
				return nil
			}

			fmt.Println(theme.Title.Render(userID))
			fmt.Println(components.NewLevelBar(p.TotalXP, 60).View())
			last := "never"
			if p.LastActivityDate != nil {
				last = p.LastActivityDate.Local().Format("2006-01-02")
			}
			fmt.Printf("Streak: %d day(s)   Last active: %s\n\n", p.DailyStreak, last)

			fmt.Printf("%-12s  %9s  %9s\n", "Lesson type", "Completed", "Open")
			for _, t := range lessons.AllTypes {
				done, err := s.LessonRepo().List(ctx, userID, string(t), true)
				if err != nil {
					return fmt.Errorf("list lessons: %w", err)
				}
				open, err := s.LessonRepo().List(ctx, userID, string(t), false)
				if err != nil {
					return fmt.Errorf("list lessons: %w", err)
				}
				fmt.Printf("%-12s  %9d  %9d\n", t, len(done), len(open))
			}
			return nil
		})
	},
}
