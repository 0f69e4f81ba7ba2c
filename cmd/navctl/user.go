package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/service"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var username, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account, reading the password from stdin",
		Long: "add creates an account directly in the store. It is the way to create\n" +
			"the first admin, since the HTTP API only lets admins grant that role.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return errors.New("password must be supplied on stdin")
			}
			password := strings.TrimRight(scanner.Text(), "\r")

			ctx := cmd.Context()
			c, err := openCampus(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			users := service.NewUserService(c.store, nil, c.logger)
			user, err := users.Provision(ctx, service.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return fmt.Errorf("create user %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q with id %d\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&role, "role", domain.RoleUser, "user or admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
