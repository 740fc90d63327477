// Package commands implements the vmplane CLI commands
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmplane/vmplane/internal/api/v1/routes"
	"github.com/vmplane/vmplane/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagToken         = "token"
)

// environment variable names
const (
	envServerAddress = "VMPLANE_SERVER_ADDRESS"
	envToken         = "VMPLANE_TOKEN"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// authToken holds the bearer token for authenticated endpoints.
	authToken string
)

// initClient initializes the API client
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	var err error
	apiClient, err = client.NewClient(opts)
	if err != nil {
		return err
	}
	if authToken != "" {
		apiClient.SetAuthToken(authToken)
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the vmplane API server (env: VMPLANE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&authToken, flagToken, "t", "",
		"Bearer token for authenticated endpoints (env: VMPLANE_TOKEN)")

	RootCmd.AddCommand(GetLoginCmd())
	RootCmd.AddCommand(GetVMsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vmplane",
	Short: "vmplane CLI - a command line interface for the vmplane API",
	Long:  `vmplane CLI is a command line tool for submitting and inspecting VM provisioning jobs through the vmplane API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default, for both the address and the token.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagToken) {
			if envTok := os.Getenv(envToken); envTok != "" {
				authToken = envTok
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
