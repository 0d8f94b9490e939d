package main

import (
	"errors"
	"fmt"

	"aruth-api/config"
	"aruth-api/utils"

	"github.com/spf13/cobra"
)

var tokenEmail string

// aruth-api token --email: print an access token, as /access-token does.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the access token of an email",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenEmail == "" {
			return errors.New("--email is required")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		token, err := utils.NewTokenService(cfg.AccessToken, cfg.TokenTTL).Issue(tokenEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email carried by the token")
}
