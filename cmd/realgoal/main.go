package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/realgoal/realgoal-backend/internal/adapter/oracle"
	"github.com/realgoal/realgoal-backend/internal/adapter/repository/kv"
	redisrepo "github.com/realgoal/realgoal-backend/internal/adapter/repository/redis"
	"github.com/realgoal/realgoal-backend/internal/domain"
	"github.com/realgoal/realgoal-backend/internal/identity"
	"github.com/realgoal/realgoal-backend/internal/logger"
	analystuc "github.com/realgoal/realgoal-backend/internal/usecase/analyst"
	goaluc "github.com/realgoal/realgoal-backend/internal/usecase/goal"
	"github.com/realgoal/realgoal-backend/internal/usecase/ledger"
	"github.com/realgoal/realgoal-backend/internal/usecase/quickadd"
)

const defaultRedisAddr = "localhost:6379"

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		runAdd(log)
	case "list":
		runList(log)
	case "balance":
		runBalance(log)
	case "confirm":
		runConfirm(log)
	case "remove":
		runRemove(log)
	case "goal-add":
		runGoalAdd(log)
	case "goal-list":
		runGoalList(log)
	case "contribute":
		runContribute(log)
	case "goal-remove":
		runGoalRemove(log)
	case "quickadd":
		runQuickAdd(log)
	case "analyze":
		runAnalyze(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("RealGoal CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  realgoal <command> [options]")
	fmt.Println("\nTransaction commands:")
	fmt.Println("  add          Add a transaction (-desc, -amount, -category, -type, -date)")
	fmt.Println("  list         List transactions, most recent first")
	fmt.Println("  balance      Show paid income, expense and balance")
	fmt.Println("  confirm      Confirm payment of a pending transaction (-id)")
	fmt.Println("  remove       Remove a transaction (-id)")
	fmt.Println("\nGoal commands:")
	fmt.Println("  goal-add     Create a goal (-name, -total, -deadline, -initial)")
	fmt.Println("  goal-list    List goals with progress")
	fmt.Println("  contribute   Add money toward a goal (-id, -amount)")
	fmt.Println("  goal-remove  Remove a goal (-id)")
	fmt.Println("\nAI commands:")
	fmt.Println("  quickadd     Extract transactions from free text (-text, -commit)")
	fmt.Println("  analyze      Analyze goals with the AI assistant")
	fmt.Println("\nEnvironment:")
	fmt.Println("  REALGOAL_USER       authenticated user id (required)")
	fmt.Println("  REDIS_ADDR          redis address (default localhost:6379)")
	fmt.Println("  REALGOAL_MODEL      Gemini model name")
	fmt.Println("  REALGOAL_LOG_LEVEL  debug, info, warn or error")
}

// session resolves the authenticated user. Operations against an absent
// user never touch storage.
func session(ctx context.Context, log zerolog.Logger) identity.Session {
	provider := identity.EnvProvider{Var: "REALGOAL_USER"}
	sess, err := provider.Session(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("resolving identity")
	}
	if sess.State != identity.StateSignedIn {
		log.Fatal().Msg("no authenticated user; set REALGOAL_USER")
	}
	return sess
}

func newStore(ctx context.Context, log zerolog.Logger) *redisrepo.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = defaultRedisAddr
	}

	store, err := redisrepo.NewStore(ctx, addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("connecting to redis")
	}
	return store
}

func newLedger(ctx context.Context, store domain.KeyValueStore, userID string, log zerolog.Logger) *ledger.Service {
	svc, err := ledger.NewService(ctx, kv.NewBinding(store, domain.CollectionTransactions), userID, log)
	if err != nil {
		log.Fatal().Err(err).Msg("loading transactions")
	}
	return svc
}

func newGoals(ctx context.Context, store domain.KeyValueStore, ledgerSvc *ledger.Service, userID string, log zerolog.Logger) *goaluc.Service {
	svc, err := goaluc.NewService(ctx, kv.NewBinding(store, domain.CollectionGoals), ledgerSvc, userID, log)
	if err != nil {
		log.Fatal().Err(err).Msg("loading goals")
	}
	return svc
}

func newOracle(ctx context.Context, log zerolog.Logger) *oracle.Gemini {
	gem, err := oracle.NewGemini(ctx, os.Getenv("REALGOAL_MODEL"))
	if err != nil {
		log.Fatal().Err(err).Msg("creating gemini client")
	}
	return gem
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	desc := fs.String("desc", "", "transaction description")
	amount := fs.String("amount", "", "transaction amount")
	category := fs.String("category", "", "transaction category")
	txType := fs.String("type", "expense", "income or expense")
	date := fs.String("date", "", "transaction date (YYYY-MM-DD, default today)")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Str("amount", *amount).Msg("invalid amount")
	}

	var day time.Time
	if *date != "" {
		day, err = time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatal().Str("date", *date).Msg("invalid date")
		}
	}

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	tx, err := ledgerSvc.Add(ctx, ledger.NewTransaction{
		Description: *desc,
		Amount:      amt,
		Category:    *category,
		Type:        domain.TransactionType(*txType),
		Date:        day,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("adding transaction")
	}

	fmt.Printf("Added %s transaction %s (%s, status %s)\n", tx.Type, tx.ID, tx.Amount.StringFixed(2), tx.Status)
}

func runList(log zerolog.Logger) {
	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	txs := ledgerSvc.List()
	if len(txs) == 0 {
		fmt.Println("No transactions.")
		return
	}

	for _, tx := range txs {
		sign := "-"
		if tx.Type == domain.TypeIncome {
			sign = "+"
		}
		fmt.Printf("%s  %s%s  [%s]  %-8s  %s  %s\n",
			tx.Date.Format("2006-01-02"), sign, tx.Amount.StringFixed(2), tx.Category, tx.Status, tx.Description, tx.ID)
	}
}

func runBalance(log zerolog.Logger) {
	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	b := ledgerSvc.Balances()
	fmt.Printf("Income:  %s\n", b.Income.StringFixed(2))
	fmt.Printf("Expense: %s\n", b.Expense.StringFixed(2))
	fmt.Printf("Balance: %s\n", b.Balance.StringFixed(2))
}

func runConfirm(log zerolog.Logger) {
	fs := flag.NewFlagSet("confirm", flag.ExitOnError)
	id := fs.String("id", "", "transaction id")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	txID := parseID(*id, log)
	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	if err := ledgerSvc.ConfirmPayment(ctx, txID); err != nil {
		log.Fatal().Err(err).Msg("confirming payment")
	}
	fmt.Println("Payment confirmed.")
}

func runRemove(log zerolog.Logger) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "transaction id")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	txID := parseID(*id, log)
	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	if err := ledgerSvc.Remove(ctx, txID); err != nil {
		log.Fatal().Err(err).Msg("removing transaction")
	}
	fmt.Println("Transaction removed.")
}

func runGoalAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("goal-add", flag.ExitOnError)
	name := fs.String("name", "", "goal name")
	total := fs.String("total", "", "goal target amount")
	deadline := fs.String("deadline", "", "goal deadline (YYYY-MM-DD)")
	initial := fs.String("initial", "0", "initial contribution amount")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	totalAmt, err := decimal.NewFromString(*total)
	if err != nil {
		log.Fatal().Str("total", *total).Msg("invalid total amount")
	}
	initialAmt, err := decimal.NewFromString(*initial)
	if err != nil {
		log.Fatal().Str("initial", *initial).Msg("invalid initial amount")
	}
	day, err := time.Parse("2006-01-02", *deadline)
	if err != nil {
		log.Fatal().Str("deadline", *deadline).Msg("invalid deadline")
	}

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	goalSvc := newGoals(ctx, store, ledgerSvc, sess.UserID, log)

	g, err := goalSvc.Add(ctx, goaluc.NewGoal{Name: *name, TotalAmount: totalAmt, Deadline: day}, initialAmt)
	if err != nil {
		log.Fatal().Err(err).Msg("creating goal")
	}

	fmt.Printf("Created goal %s (%s of %s)\n", g.ID, g.CurrentAmount.StringFixed(2), g.TotalAmount.StringFixed(2))
}

func runGoalList(log zerolog.Logger) {
	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	goalSvc := newGoals(ctx, store, ledgerSvc, sess.UserID, log)

	goals := goalSvc.List()
	if len(goals) == 0 {
		fmt.Println("No goals.")
		return
	}

	today := time.Now()
	for _, g := range goals {
		status := "in progress"
		if g.IsCompleted() {
			status = "completed"
		} else if g.IsOverdue(today) {
			status = "overdue"
		}
		fmt.Printf("%-20s  %s / %s  (%.0f%%, %s, deadline %s)  %s\n",
			g.Name, g.CurrentAmount.StringFixed(2), g.TotalAmount.StringFixed(2),
			g.Progress()*100, status, g.Deadline.Format("2006-01-02"), g.ID)
	}
}

func runContribute(log zerolog.Logger) {
	fs := flag.NewFlagSet("contribute", flag.ExitOnError)
	id := fs.String("id", "", "goal id")
	amount := fs.String("amount", "", "contribution amount")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	goalID := parseID(*id, log)
	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Str("amount", *amount).Msg("invalid amount")
	}

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	goalSvc := newGoals(ctx, store, ledgerSvc, sess.UserID, log)

	g, err := goalSvc.PostContribution(ctx, goalID, amt)
	if err != nil {
		log.Fatal().Err(err).Msg("posting contribution")
	}

	fmt.Printf("Goal %q now at %s of %s (%.0f%%)\n",
		g.Name, g.CurrentAmount.StringFixed(2), g.TotalAmount.StringFixed(2), g.Progress()*100)
}

func runGoalRemove(log zerolog.Logger) {
	fs := flag.NewFlagSet("goal-remove", flag.ExitOnError)
	id := fs.String("id", "", "goal id")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	goalID := parseID(*id, log)
	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	goalSvc := newGoals(ctx, store, ledgerSvc, sess.UserID, log)

	if err := goalSvc.Remove(ctx, goalID); err != nil {
		log.Fatal().Err(err).Msg("removing goal")
	}
	fmt.Println("Goal removed.")
}

func runQuickAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("quickadd", flag.ExitOnError)
	text := fs.String("text", "", "free text describing transactions")
	commit := fs.Bool("commit", false, "commit the extracted candidates to the ledger")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	quickAddSvc := quickadd.NewService(newOracle(ctx, log), ledgerSvc, log)

	candidates, err := quickAddSvc.Extract(ctx, *text, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("extracting transactions")
	}

	if len(candidates) == 0 {
		fmt.Println("No transactions found in text.")
		return
	}

	fmt.Println("Extracted candidates:")
	for _, c := range candidates {
		date := "(today at commit)"
		if c.Date != nil {
			date = c.Date.Format("2006-01-02")
		}
		fmt.Printf("  %-8s  %s  [%s]  %s  %s\n", c.Type, c.Amount.StringFixed(2), c.Category, date, c.Description)
	}

	if !*commit {
		fmt.Println("\nRe-run with -commit to save these transactions.")
		return
	}

	committed, err := quickAddSvc.Commit(ctx, candidates)
	if err != nil {
		log.Fatal().Err(err).Msg("committing candidates")
	}
	fmt.Printf("\nCommitted %d transactions.\n", len(committed))
}

func runAnalyze(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sess := session(ctx, log)
	store := newStore(ctx, log)
	defer store.Close()

	ledgerSvc := newLedger(ctx, store, sess.UserID, log)
	goalSvc := newGoals(ctx, store, ledgerSvc, sess.UserID, log)
	analystSvc := analystuc.NewService(newOracle(ctx, log), log)

	analysis, err := analystSvc.Analyze(ctx, goalSvc.List())
	if err != nil {
		log.Fatal().Err(err).Msg("analyzing goals")
	}

	if analysis == "" {
		fmt.Println("No goals to analyze.")
		return
	}
	fmt.Println(analysis)
}

func parseID(raw string, log zerolog.Logger) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Fatal().Str("id", raw).Msg("invalid id")
	}
	return id
}
