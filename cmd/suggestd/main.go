package main

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/claritycare/policysuggest/internal/audit"
	"github.com/claritycare/policysuggest/internal/config"
	"github.com/claritycare/policysuggest/internal/guard"
	"github.com/claritycare/policysuggest/internal/knowledge"
	"github.com/claritycare/policysuggest/internal/retrieval"
	"github.com/claritycare/policysuggest/internal/routing"
	"github.com/claritycare/policysuggest/internal/suggest"
	"github.com/claritycare/policysuggest/internal/synthesis"
	"github.com/claritycare/policysuggest/internal/transparency"
)

// #endregion

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	store, err := knowledge.NewSQLiteStore(cfg.KnowledgeDB)
	if err != nil {
		logger.Fatal("open knowledge store", zap.Error(err))
	}
	defer store.Close()

	sink, err := audit.NewSQLiteSink(cfg.AuditDB)
	if err != nil {
		logger.Fatal("open audit sink", zap.Error(err))
	}
	defer sink.Close()

	svc := suggest.NewService(
		guard.NewStaticRoleGuard(),
		retrieval.NewRetriever(store, cfg.Retrieval.Timeout, logger),
		synthesis.NewSynthesizer(logger),
		guard.NewPatternValidator(),
		sink,
		transparency.NewZapLogger(logger),
		cfg.Guard,
		cfg.Retrieval,
		logger,
	)

	user := guard.User{
		ID:             envOr("SUGGEST_USER", "local-user"),
		Role:           envOr("SUGGEST_ROLE", "quality-lead"),
		OrganizationID: envOr("SUGGEST_ORG", "local-org"),
	}
	jurisdictions := strings.Split(envOr("SUGGEST_JURISDICTIONS", "england"), ",")

	fmt.Println("Policy suggestion console ready.")
	fmt.Printf("  knowledge: %s | audit: %s | role: %s | jurisdictions: %s\n",
		cfg.KnowledgeDB, cfg.AuditDB, user.Role, strings.Join(jurisdictions, ","))
	fmt.Println("Type an authoring context (or 'accept <id>', 'modify <id> <content>', 'reject <id> <reason>', 'quit'):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if handled := handleDecision(svc, user, line); handled {
			continue
		}

		resp, err := svc.GenerateSuggestion(context.Background(), suggest.Request{
			Intent:        routing.IntentSuggestImprovement,
			Jurisdictions: jurisdictions,
			Context:       line,
		}, user)
		if err != nil {
			log.Printf("request rejected: %v", err)
			continue
		}

		printResponse(resp)
	}
}

// #endregion main

// #region decision-commands

func handleDecision(svc *suggest.Service, user guard.User, line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	switch fields[0] {
	case "accept":
		err := svc.RecordUserDecision(context.Background(), fields[1], user.ID, audit.DecisionAccepted, "", "")
		reportDecision(err)
		return true
	case "modify":
		content := strings.Join(fields[2:], " ")
		err := svc.RecordUserDecision(context.Background(), fields[1], user.ID, audit.DecisionModified, content, "")
		reportDecision(err)
		return true
	case "reject":
		reason := strings.Join(fields[2:], " ")
		err := svc.RecordUserDecision(context.Background(), fields[1], user.ID, audit.DecisionRejected, "", reason)
		reportDecision(err)
		return true
	}
	return false
}

func reportDecision(err error) {
	if err != nil {
		log.Printf("decision not recorded: %v", err)
		return
	}
	fmt.Println("decision recorded")
}

// #endregion decision-commands

// #region output

func printResponse(resp suggest.Response) {
	if resp.FallbackUsed {
		fmt.Printf("\n[%s] FALLBACK (%s)\n%s\n", resp.ID, resp.FallbackReason, resp.FallbackMessage)
		for _, action := range resp.NextActions {
			fmt.Printf("  - %s\n", action)
		}
		fmt.Println()
		return
	}

	fmt.Printf("\n[%s] confidence=%.2f review=%v method=%s\n",
		resp.ID, resp.Confidence, resp.RequiresHumanReview, resp.Suggestion.Method)
	for _, w := range resp.Suggestion.Warnings {
		fmt.Printf("  ! %s\n", w)
	}
	for _, ref := range resp.SourceReferences {
		fmt.Printf("  src %s %q v%s (%.2f)\n", ref.ID, ref.Title, ref.Version, ref.Relevance)
	}
	fmt.Println()
}

// #endregion output

// #region helpers

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
