package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// errBadArguments marks caller mistakes (missing/invalid arguments) so the
// HTTP layer can answer 400 instead of 500.
var errBadArguments = errors.New("bad arguments")

// callTool executes a named tool against the store and returns formatted,
// human-readable text. The orchestrator treats this text as opaque.
func callTool(ctx context.Context, store *Store, name string, args map[string]any) (string, error) {
	switch name {
	case "get_profile":
		return getProfile(ctx, store, args)
	case "get_transactions":
		return getTransactions(ctx, store, args)
	case "get_transaction_summary":
		return getTransactionSummary(ctx, store, args)
	case "search_transactions":
		return searchTransactions(ctx, store, args)
	default:
		return "", fmt.Errorf("%w: unknown tool: %s", errBadArguments, name)
	}
}

func getProfile(ctx context.Context, store *Store, args map[string]any) (string, error) {
	userID, ok := argString(args, "user_id")
	if !ok {
		return "", fmt.Errorf("%w: user_id is required", errBadArguments)
	}

	profile, err := store.Profile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Sprintf("No profile found for user ID: %s", userID), nil
	}
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("User Profile Details:\n")
	fmt.Fprintf(&sb, "- User ID: %s\n", profile.UserID)
	fmt.Fprintf(&sb, "- Name: %s\n", profile.UserName)
	fmt.Fprintf(&sb, "- Created Date: %s\n", profile.CreatedDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "- Phone: %s\n", profile.PhoneNumber)
	fmt.Fprintf(&sb, "- Business: %s\n", profile.BusinessName)
	fmt.Fprintf(&sb, "- Email: %s", profile.EmailID)
	return sb.String(), nil
}

func getTransactions(ctx context.Context, store *Store, args map[string]any) (string, error) {
	userID, ok := argString(args, "user_id")
	if !ok {
		return "", fmt.Errorf("%w: user_id is required", errBadArguments)
	}
	limit, _ := argInt(args, "limit")

	transactions, err := store.Transactions(ctx, userID, limit)
	if err != nil {
		return "", err
	}
	if len(transactions) == 0 {
		return fmt.Sprintf("No transactions found for user ID: %s", userID), nil
	}
	return formatTransactions(fmt.Sprintf("Transactions for %s:", userID), transactions), nil
}

func getTransactionSummary(ctx context.Context, store *Store, args map[string]any) (string, error) {
	userID, ok := argString(args, "user_id")
	if !ok {
		return "", fmt.Errorf("%w: user_id is required", errBadArguments)
	}

	summary, err := store.TransactionSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	if summary.Count == 0 {
		return fmt.Sprintf("No transactions found for user ID: %s", userID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transaction summary for %s:\n", userID)
	fmt.Fprintf(&sb, "- Transactions: %d\n", summary.Count)
	fmt.Fprintf(&sb, "- Total credit: %.2f\n", summary.TotalCredit)
	fmt.Fprintf(&sb, "- Total debit: %.2f\n", summary.TotalDebit)
	fmt.Fprintf(&sb, "- Net: %.2f", summary.TotalCredit-summary.TotalDebit)
	return sb.String(), nil
}

func searchTransactions(ctx context.Context, store *Store, args map[string]any) (string, error) {
	filter := SearchFilter{}
	filter.UserID, _ = argString(args, "user_id")
	filter.Category, _ = argString(args, "category")
	filter.MinAmount, filter.HasMin = argFloat(args, "min_amount")
	filter.MaxAmount, filter.HasMax = argFloat(args, "max_amount")
	filter.StartDate, _ = argString(args, "start_date")
	filter.EndDate, _ = argString(args, "end_date")
	filter.Type, _ = argString(args, "transaction_type")
	filter.Limit, _ = argInt(args, "limit")

	transactions, err := store.SearchTransactions(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(transactions) == 0 {
		return "No transactions matched the given filters.", nil
	}
	return formatTransactions("Matching transactions:", transactions), nil
}

func formatTransactions(header string, transactions []Transaction) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, t := range transactions {
		fmt.Fprintf(&sb, "\n- [%s] %s %.2f (%s) %s",
			t.Date.Format("2006-01-02"), t.Type, t.Amount, t.Category, t.Description)
	}
	return sb.String()
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// argInt accepts both JSON numbers (float64) and numeric strings.
func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func argFloat(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
