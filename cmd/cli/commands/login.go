package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and print a bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		token, err := apiClient.Login(context.Background(), username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		// Print the raw token so it can be exported as VMPLANE_TOKEN
		fmt.Println(token)
		return nil
	},
}

// GetLoginCmd returns the login command
func GetLoginCmd() *cobra.Command {
	return loginCmd
}
