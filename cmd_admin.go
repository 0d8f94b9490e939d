package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"aruth-api/config"
	"aruth-api/logger"
	"aruth-api/models"
	"aruth-api/store"

	"github.com/spf13/cobra"
)

// aruth-api admin: manage admin accounts without going through the API.
// The first admin of a fresh database can only be created this way.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var promoteEmail string

var adminPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant the admin role to a registered user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if promoteEmail == "" {
			return errors.New("--email is required")
		}
		return withUsers(cmd.Context(), func(ctx context.Context, users store.Users) error {
			if err := users.SetRole(ctx, promoteEmail, models.RoleAdmin); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no user registered as %s", promoteEmail)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", promoteEmail)
			return nil
		})
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the admins",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users store.Users) error {
			admins, err := users.ByRole(ctx, models.RoleAdmin)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tNAME\tSINCE")
			for _, u := range admins {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Email, u.Name, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		})
	},
}

func init() {
	adminPromoteCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the user to promote")
	adminCmd.AddCommand(adminPromoteCmd)
	adminCmd.AddCommand(adminListCmd)
}

func withUsers(ctx context.Context, fn func(context.Context, store.Users) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Production())

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return fn(ctx, st.Users)
}
