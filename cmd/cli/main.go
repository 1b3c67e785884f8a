package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/auth"
	"github.com/cofundable/cofundable/internal/infrastructure/config"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cofundable-cli",
		Short:         "Cofundable CLI tool",
		Long:          `A command line interface for operating the Cofundable share ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the Cofundable API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("COFUNDABLE_TOKEN"), "Bearer token for admin endpoints")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		healthCmd(opts),
		consistencyCmd(opts),
		reconcileCmd(opts),
		reportCmd(opts),
		grantCmd(opts),
		tokenCmd(),
	)

	return rootCmd
}

func healthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API and its dependencies are ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var body map[string]string
			if err := opts.do(cmd.Context(), http.MethodGet, "/ready", nil, &body); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func consistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that balances net to zero and every transaction is paired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report map[string]any
			err := opts.do(cmd.Context(), http.MethodGet, "/api/v1/admin/ledger/consistency", nil, &report)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.status == http.StatusConflict {
				_ = printJSON(cmd.OutOrStdout(), json.RawMessage(apiErr.body))
				return errors.New("consistency check FAILED")
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Compare an account's balance with the sum of its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				IsReconciled bool `json:"is_reconciled"`
			}
			var raw json.RawMessage
			if err := opts.do(cmd.Context(), http.MethodGet, "/api/v1/admin/accounts/"+args[0]+"/reconcile", nil, &raw); err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), raw); err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &result); err != nil {
				return err
			}
			if !result.IsReconciled {
				return fmt.Errorf("account %s is not reconciled", args[0])
			}
			return nil
		},
	}
}

func reportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Reconcile every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if err := opts.do(cmd.Context(), http.MethodGet, "/api/v1/admin/reconciliation", nil, &raw); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func grantCmd(opts *options) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "grant <account-id> <amount>",
		Short: "Issue shares from the treasury to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			if err := domain.ValidateAmount(amount); err != nil {
				return err
			}

			body := map[string]any{"to_account_id": args[0], "amount": amount.String()}
			if note != "" {
				body["note"] = note
			}

			var raw json.RawMessage
			if err := opts.do(cmd.Context(), http.MethodPost, "/api/v1/admin/grants", body, &raw); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Note recorded on both transactions")

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return config.ErrJWTSecretRequired
			}
			if ttl <= 0 {
				ttl = cfg.JWTTTL
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, ttl).Generate(args[0], domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "Role claim: member or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")

	return cmd
}

// apiError is a non-2xx API response.
type apiError struct {
	status int
	body   []byte
}

func (e *apiError) Error() string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.body, &body); err == nil && body.Error != "" {
		if body.Message != "" {
			return fmt.Sprintf("%d %s: %s", e.status, body.Error, body.Message)
		}
		return fmt.Sprintf("%d %s", e.status, body.Error)
	}
	return fmt.Sprintf("%d %s", e.status, strings.TrimSpace(string(e.body)))
}

func (o *options) do(ctx context.Context, method, path string, in, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(o.baseURL, "/")+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{status: resp.StatusCode, body: body}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
