package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/lessoncache"
	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/ui/lessonview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Synthesize a lesson and print it (no database)",
	Long: `Synthesize one lesson exactly as the API would and print it.

This is a stateless developer tool: nothing is cached and no events are
recorded. Useful for checking prompt and fallback quality.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("type", "grammar", "Lesson type: grammar, vocabulary, writing, speaking or listening")
	previewCmd.Flags().Int("level", 1, "Learner level (clamped to 1..3)")
	previewCmd.Flags().Bool("assessment", false, "Synthesize the placement assessment instead")
	previewCmd.Flags().Bool("offline", false, "Skip the LLM and use the fallback bank")
	previewCmd.Flags().Bool("answers", false, "Show correct answers and explanations")
	previewCmd.Flags().Bool("json", false, "Print the lesson JSON instead of rendering it")
	previewCmd.Flags().Bool("verbose", false, "Log generation details to stderr")
}

func runPreview(cmd *cobra.Command, args []string) error {
	typeVal, _ := cmd.Flags().GetString("type")
	level, _ := cmd.Flags().GetInt("level")
	assessment, _ := cmd.Flags().GetBool("assessment")
	offline, _ := cmd.Flags().GetBool("offline")
	answers, _ := cmd.Flags().GetBool("answers")
	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	t, err := lessons.ParseType(typeVal)
	if err != nil {
		return err
	}
	if t == lessons.TypeAssessment {
		assessment = true
	}

	log := logger.Nop()
	if verbose {
		if log, err = logger.New("dev"); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
	}

	ctx := cmd.Context()
	var gen lessons.Generator
	if !offline {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// No event repo: preview never touches the database.
		client, err := llm.NewClientFromConfig(ctx, cfg.LLM, nil, log)
		if err != nil {
			return fmt.Errorf("llm client: %w", err)
		}
		if client.Enabled() {
			gen = client
		} else {
			fmt.Fprintln(os.Stderr, "LLM provider not configured; showing fallback content.")
		}
	}

	synth := lessons.NewSynthesizer(gen, lessons.DefaultConfig(), log)

	var res lessons.Result
	if assessment {
		res = synth.SynthesizeAssessment(ctx)
	} else {
		res = synth.SynthesizePersonalized(ctx, "preview", t, lessoncache.ClampLevel(level), lessoncache.Seed(time.Now()))
	}

	if asJSON {
		fmt.Println(string(res.Raw))
		return nil
	}
	fmt.Print(lessonview.Render(res.Lesson, lessonview.Options{
		Source:      string(res.Source),
		ShowAnswers: answers,
	}))
	return nil
}
