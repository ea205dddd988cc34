package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
)

type rootOptions struct {
	baseURL string
	timeout time.Duration
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet CLI tool",
		Long:          `A command line interface for interacting with the GoWallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newWalletCmd(opts),
		newTxCmd(opts),
		newOwnerCmd(opts),
		newBillingCmd(opts),
		newConfigCmd(opts),
		newLedgerCmd(opts),
		newMigrateCmd(),
	)

	return rootCmd
}

// request runs an API call and prints the JSON response.
func request(cmd *cobra.Command, opts *rootOptions, method, path string, body any, headers map[string]string) error {
	raw, err := opts.client().do(cmd.Context(), method, path, body, headers)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			_ = printJSON(cmd.ErrOrStderr(), raw)
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), raw)
}

func newWalletCmd(opts *rootOptions) *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var ownerID, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"owner_id": ownerID}
			if currency != "" {
				body["currency"] = currency
			}
			return request(cmd, opts, http.MethodPost, "/api/v1/wallets", body, nil)
		},
	}
	createCmd.Flags().StringVar(&ownerID, "owner", "", "Owner ID (UUID)")
	createCmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	_ = createCmd.MarkFlagRequired("owner")

	getCmd := &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/wallets/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	var at string
	balanceCmd := &cobra.Command{
		Use:   "balance <wallet-id>",
		Short: "Show a wallet balance, optionally at a past time (RFC 3339)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/wallets/" + url.PathEscape(args[0]) + "/balance"
			if at != "" {
				if _, err := time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				path += "/history?at=" + url.QueryEscape(at)
			}
			return request(cmd, opts, http.MethodGet, path, nil, nil)
		},
	}
	balanceCmd.Flags().StringVar(&at, "at", "", "Point in time (RFC 3339)")

	findCmd := &cobra.Command{
		Use:   "find <owner-id>",
		Short: "Find the wallet of an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/owners/"+url.PathEscape(args[0])+"/wallet", nil, nil)
		},
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/wallets"+pageQuery(limit, offset), nil, nil)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	walletCmd.AddCommand(createCmd, getCmd, balanceCmd, findCmd, listCmd)
	return walletCmd
}

func newTxCmd(opts *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction log operations",
	}

	var amount, kind, detail, billingRef, idempotencyKey string
	applyCmd := &cobra.Command{
		Use:   "apply <wallet-id>",
		Short: "Apply a signed entry to a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"amount": amount,
				"kind":   kind,
			}
			if detail != "" {
				body["detail"] = detail
			}
			if billingRef != "" {
				body["billing_ref"] = billingRef
			}

			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{"Idempotency-Key": idempotencyKey}
			}
			return request(cmd, opts, http.MethodPost, "/api/v1/wallets/"+url.PathEscape(args[0])+"/transactions", body, headers)
		},
	}
	applyCmd.Flags().StringVar(&amount, "amount", "", "Signed amount, e.g. 10.00 or -7.00")
	applyCmd.Flags().StringVar(&kind, "kind", "", "initial_credit, usage_charge, top_up or refund")
	applyCmd.Flags().StringVar(&detail, "detail", "", "Free-form detail")
	applyCmd.Flags().StringVar(&billingRef, "billing-ref", "", "Billing record ID")
	applyCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key")
	_ = applyCmd.MarkFlagRequired("amount")
	_ = applyCmd.MarkFlagRequired("kind")

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list <wallet-id>",
		Short: "List a wallet's entries in the order they were applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/wallets/" + url.PathEscape(args[0]) + "/transactions" + pageQuery(limit, offset)
			return request(cmd, opts, http.MethodGet, path, nil, nil)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	getCmd := &cobra.Command{
		Use:   "get <transaction-id>",
		Short: "Show a single entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/transactions/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	txCmd.AddCommand(applyCmd, listCmd, getCmd)
	return txCmd
}

func newOwnerCmd(opts *rootOptions) *cobra.Command {
	ownerCmd := &cobra.Command{
		Use:   "owner",
		Short: "Owner lifecycle notifications",
	}

	registeredCmd := &cobra.Command{
		Use:   "registered <owner-id>",
		Short: "Provision the owner's wallet and credit any signup bonus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodPost, "/api/v1/owners/"+url.PathEscape(args[0])+"/registered", nil, nil)
		},
	}

	ownerCmd.AddCommand(registeredCmd)
	return ownerCmd
}

func newBillingCmd(opts *rootOptions) *cobra.Command {
	billingCmd := &cobra.Command{
		Use:   "billing",
		Short: "Usage charges",
	}

	var (
		recordID, ownerID, deploymentID string
		costPerHour, hoursUsed          string
		cpu, memory                     int32
	)
	chargeCmd := &cobra.Command{
		Use:   "charge",
		Short: "Charge a billing record to its owner's wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"id":             recordID,
				"owner_id":       ownerID,
				"cpu_millicores": cpu,
				"memory_mb":      memory,
				"cost_per_hour":  costPerHour,
				"hours_used":     hoursUsed,
			}
			if deploymentID != "" {
				body["deployment_id"] = deploymentID
			}
			return request(cmd, opts, http.MethodPost, "/api/v1/billing/charges", body, nil)
		},
	}
	chargeCmd.Flags().StringVar(&recordID, "id", "", "Billing record ID (UUID)")
	chargeCmd.Flags().StringVar(&ownerID, "owner", "", "Owner ID (UUID)")
	chargeCmd.Flags().StringVar(&deploymentID, "deployment", "", "Deployment ID")
	chargeCmd.Flags().StringVar(&costPerHour, "cost-per-hour", "0", "Cost per hour")
	chargeCmd.Flags().StringVar(&hoursUsed, "hours", "0", "Hours used")
	chargeCmd.Flags().Int32Var(&cpu, "cpu", 0, "CPU millicores")
	chargeCmd.Flags().Int32Var(&memory, "memory", 0, "Memory in MB")
	_ = chargeCmd.MarkFlagRequired("id")
	_ = chargeCmd.MarkFlagRequired("owner")

	statusCmd := &cobra.Command{
		Use:   "status <record-id>",
		Short: "Show whether a billing record was charged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/billing/charges/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	billingCmd.AddCommand(chargeCmd, statusCmd)
	return billingCmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "System configuration",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the system configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/system/config", nil, nil)
		},
	}

	var (
		bonusEnabled bool
		bonusAmount  string
		bonusDetail  string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the system configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"bonus_enabled": bonusEnabled,
				"bonus_amount":  bonusAmount,
				"bonus_detail":  bonusDetail,
			}
			return request(cmd, opts, http.MethodPut, "/api/v1/system/config", body, nil)
		},
	}
	setCmd.Flags().BoolVar(&bonusEnabled, "bonus-enabled", false, "Credit new owners with a signup bonus")
	setCmd.Flags().StringVar(&bonusAmount, "bonus-amount", "0", "Signup bonus amount")
	setCmd.Flags().StringVar(&bonusDetail, "bonus-detail", "Signup bonus", "Signup bonus detail")

	configCmd.AddCommand(getCmd, setCmd)
	return configCmd
}

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Consistency check FAILED")
				_ = printJSON(cmd.OutOrStdout(), raw)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <wallet-id>",
		Short: "Compare a wallet balance with the sum of its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(cmd, opts, http.MethodGet, "/api/v1/wallets/"+url.PathEscape(args[0])+"/reconciliation", nil, nil)
		},
	}

	ledgerCmd.AddCommand(consistencyCmd, reconcileCmd)
	return ledgerCmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL connection URL")
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory")

	newMigrator := func() (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, errors.New("--database-url or DATABASE_URL is required")
		}
		log := logger.New(logger.Config{Level: "info", Format: "console"})
		return postgres.NewMigrator(databaseURL, migrationsPath, log), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}

func pageQuery(limit, offset int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return "?" + q.Encode()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
