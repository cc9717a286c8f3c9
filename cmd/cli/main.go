package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	walletCmd.AddCommand(
		createWalletCmd(),
		getWalletCmd(),
		listWalletsCmd(),
		operationCmd("deposit", "DEPOSIT"),
		operationCmd("withdraw", "WITHDRAW"),
	)
	rootCmd.AddCommand(walletCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createWalletCmd() *cobra.Command {
	var initialBalance string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if initialBalance != "" {
				body["initial_balance"] = initialBalance
			}

			return doRequest(http.MethodPost, "/api/v1/wallets", body)
		},
	}

	cmd.Flags().StringVar(&initialBalance, "balance", "", "Initial balance (defaults to 0)")

	return cmd
}

func getWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Get a wallet by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/wallets/"+args[0], nil)
		},
	}
}

func listWalletsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/wallets?limit=%d&offset=%d", limit, offset)
			return doRequest(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum wallets to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of wallets to skip")

	return cmd
}

func operationCmd(use, operationType string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <wallet-id> <amount>",
		Short: use + " funds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"operation_type": operationType,
				"amount":         args[1],
			}

			return doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/operation", body)
		},
	}
}

func doRequest(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
	} else {
		printJSON(parsed)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}

	fmt.Println(string(raw))
}
