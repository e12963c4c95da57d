package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/config"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"github.com/supriyakanse/agent-email-query/internal/di"
)

const dateLayout = "2006-01-02"

var (
	startDate string
	endDate   string
	question  string
)

var exampleQuestions = []string{
	"How many emails did I receive?",
	"Who sent the email about the project deadline?",
	"Summarize my emails",
	"List all senders",
}

func main() {
	// Optional .env next to the binary, same as the config file search
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "email-assistant",
		Short:         "AI-powered question answering over your email inbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration validity and index state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(runStatus)
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch emails for a date range and rebuild the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(runRefresh)
		},
	}
	refreshCmd.Flags().StringVar(&startDate, "start", "", "start date, YYYY-MM-DD inclusive")
	refreshCmd.Flags().StringVar(&endDate, "end", "", "end date, YYYY-MM-DD exclusive")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Ask questions about the indexed emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(runQuery)
		},
	}
	queryCmd.Flags().StringVarP(&question, "question", "q", "", "single question to ask (non-interactive)")

	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Refresh the index, then enter the interactive query loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(runWorkflow)
		},
	}
	workflowCmd.Flags().StringVar(&startDate, "start", "", "start date, YYYY-MM-DD inclusive")
	workflowCmd.Flags().StringVar(&endDate, "end", "", "end date, YYYY-MM-DD exclusive")

	rootCmd.AddCommand(statusCmd, refreshCmd, queryCmd, workflowCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// invoke builds the container and hands the assistant service to the
// command body.
func invoke(fn func(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error) error {
	container, err := di.BuildContainer()
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	return container.Invoke(func(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error {
		defer logger.Sync()
		return fn(svc, cfg, logger)
	})
}

func runStatus(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error {
	fmt.Println("System status")
	fmt.Println(strings.Repeat("-", 40))

	if err := cfg.ValidateMail(); err != nil {
		fmt.Printf("Configuration: invalid (%v)\n", err)
	} else {
		fmt.Println("Configuration: valid")
		fmt.Printf("  Mailbox: %s on %s\n", cfg.GetMail().Mailbox, cfg.GetMail().IMAPServer)
	}

	status, err := svc.Status(context.Background())
	if err != nil {
		return err
	}
	if !status.IndexPresent {
		fmt.Println("Vector index: not found")
		fmt.Println("  Run 'email-assistant refresh' to fetch and index emails")
		return nil
	}
	fmt.Println("Vector index: ready")
	fmt.Printf("  Indexed emails: %d\n", status.DocumentCount)
	return nil
}

func runRefresh(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateMail(); err != nil {
		return err
	}

	since, before, err := dateRange(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching emails from %s to %s...\n",
		since.Format(dateLayout), before.Format(dateLayout))

	stats, err := svc.BuildIndex(context.Background(), since, before)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d emails, indexed %d", stats.Fetched, stats.Indexed)
	if stats.Skipped > 0 {
		fmt.Printf(", skipped %d with no indexable content", stats.Skipped)
	}
	if stats.Ignored > 0 {
		fmt.Printf(", ignored %d from excluded domains", stats.Ignored)
	}
	fmt.Println()

	if stats.Indexed == 0 {
		fmt.Println("No emails were indexed; the previous index, if any, is unchanged.")
	}
	return nil
}

func runQuery(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateQuery(); err != nil {
		return err
	}
	ctx := context.Background()

	if question != "" {
		return askOnce(ctx, svc, question)
	}
	return interactiveLoop(ctx, svc)
}

func runWorkflow(svc *core.AssistantService, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateQuery(); err != nil {
		return err
	}
	if err := runRefresh(svc, cfg, logger); err != nil {
		return err
	}
	fmt.Println()
	return interactiveLoop(context.Background(), svc)
}

func askOnce(ctx context.Context, svc *core.AssistantService, q string) error {
	answer, err := svc.AnswerQuery(ctx, q)
	if err != nil {
		if errors.Is(err, core.ErrIndexEmpty) {
			return fmt.Errorf("no emails are indexed yet; run 'email-assistant refresh' first")
		}
		return err
	}
	printAnswer(answer)
	return nil
}

func interactiveLoop(ctx context.Context, svc *core.AssistantService) error {
	status, err := svc.Status(ctx)
	if err != nil {
		return err
	}
	if !status.IndexPresent || status.DocumentCount == 0 {
		return fmt.Errorf("no emails are indexed yet; run 'email-assistant refresh' first")
	}

	fmt.Printf("Ready to query %d emails.\n\n", status.DocumentCount)
	fmt.Println("Example questions you can try:")
	for i, q := range exampleQuestions {
		fmt.Printf("  %d. %s\n", i+1, q)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Ask a question about your emails (or 'quit' to exit): ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		}

		answer, err := svc.AnswerQuery(ctx, input)
		if err != nil {
			// A failed query never terminates the session
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		printAnswer(answer)
		fmt.Println(strings.Repeat("-", 40))
	}
}

func printAnswer(answer *core.Answer) {
	fmt.Printf("\nAnswer: %s\n\n", answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("Sources:")
		for _, src := range answer.Sources {
			date := ""
			if !src.Date.IsZero() {
				date = src.Date.Format(dateLayout)
			}
			fmt.Printf("  - %s | %s | %s\n", src.Sender, src.Subject, date)
		}
		fmt.Println()
	}
}

// dateRange resolves the fetch window from flags, then configuration, then
// a default of the last seven days.
func dateRange(cfg *config.Config) (time.Time, time.Time, error) {
	mailCfg := cfg.GetMail()

	start := startDate
	if start == "" {
		start = mailCfg.StartDate
	}
	end := endDate
	if end == "" {
		end = mailCfg.EndDate
	}

	now := time.Now()
	since := now.AddDate(0, 0, -7)
	before := now.AddDate(0, 0, 1)

	var err error
	if start != "" {
		if since, err = time.Parse(dateLayout, start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", start)
		}
	}
	if end != "" {
		if before, err = time.Parse(dateLayout, end); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", end)
		}
	}
	if !before.After(since) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date")
	}
	return since, before, nil
}
