package system

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/keyring"
	"github.com/daybook-app/daybook/internal/utils"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := checkStoreReachable(ctx, appCtx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: keyring (server mode only)
	if appCtx.Remote != nil {
		if !keyring.IsAvailable() {
			fmt.Printf("⚠ OS keyring: WARNING\n")
			fmt.Printf("   Keyring unavailable; login won't persist between runs.\n")
		} else {
			fmt.Printf("✓ OS keyring: OK\n")
		}
	} else {
		fmt.Printf("⊘ OS keyring: SKIPPED (local mode)\n")
	}

	// Check 3: session valid (only if store is reachable)
	sessionOK := false
	if storeReachable {
		if _, err := appCtx.RequireUser(ctx); err != nil {
			fmt.Printf("❌ Session: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Session: OK\n")
			sessionOK = true
		}
	} else {
		fmt.Printf("⊘ Session: SKIPPED (store not reachable)\n")
	}

	// Check 4: clock sanity
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   System time appears incorrect: %s\n", now.Format(time.RFC3339))
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	// Check 5: duplicate entries this month (repairs them when found)
	if sessionOK {
		if err := checkDuplicateEntries(ctx, appCtx); err != nil {
			fmt.Printf("❌ Duplicate entries: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Duplicate entries: OK\n")
		}
	} else {
		fmt.Printf("⊘ Duplicate entries: SKIPPED (no session)\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx context.Context, appCtx *cli.Context) error {
	if appCtx.Remote != nil {
		return appCtx.Remote.Health(ctx)
	}
	return appCtx.Local.Load()
}

// checkDuplicateEntries scans the active profile's current month and
// merges any days that ended up with more than one entry.
func checkDuplicateEntries(ctx context.Context, appCtx *cli.Context) error {
	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	entries, err := appCtx.Journal.EntriesForMonth(ctx, profile.ID, now.Year(), now.Month())
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	var days []string
	for _, e := range entries {
		day := utils.DayOf(e.Date)
		if counts[day] == 0 {
			days = append(days, day)
		}
		counts[day]++
	}
	var dupDays []string
	for _, day := range days {
		if counts[day] > 1 {
			dupDays = append(dupDays, day)
		}
	}

	repaired := 0
	for _, day := range dupDays {
		n, err := appCtx.Journal.ReconcileEntries(ctx, profile.ID, day)
		if err != nil {
			return fmt.Errorf("failed to reconcile %s: %w", day, err)
		}
		repaired += n
	}
	if repaired > 0 {
		fmt.Printf("   Merged %d duplicate entr%s.\n", repaired, pluralY(repaired))
	}
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
