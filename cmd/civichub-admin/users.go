package main

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create a password user",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")

		return withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database) error {
			u, err := addUser(ctx, db, email, name, role, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", u.Email, u.Role, u.ID.Hex())
			return nil
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "setrole",
	Short: "Change a user's role",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		return withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database) error {
			from, err := setRole(ctx, db, email, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", email, from, normalize.Role(role))
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "resetpassword",
	Short: "Set a new password for a password user",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		return withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database) error {
			if err := resetPassword(ctx, db, email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
			return nil
		})
	},
}

func init() {
	addUserCmd.Flags().String("email", "", "email address (also the login id)")
	addUserCmd.Flags().String("name", "", "full name")
	addUserCmd.Flags().String("role", models.RoleUser, "admin, worker or user")
	addUserCmd.Flags().String("password", "", "initial password")
	_ = addUserCmd.MarkFlagRequired("email")
	_ = addUserCmd.MarkFlagRequired("password")

	setRoleCmd.Flags().String("email", "", "email address")
	setRoleCmd.Flags().String("role", "", "admin, worker or user")
	_ = setRoleCmd.MarkFlagRequired("email")
	_ = setRoleCmd.MarkFlagRequired("role")

	resetPasswordCmd.Flags().String("email", "", "email address")
	resetPasswordCmd.Flags().String("password", "", "new password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(addUserCmd, setRoleCmd, resetPasswordCmd)
}

func addUser(ctx context.Context, db *mongo.Database, email, name, role, password string) (models.User, error) {
	if err := authutil.ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return userstore.New(db).Create(ctx, models.User{
		FullName:     name,
		Email:        email,
		AuthMethod:   models.AuthPassword,
		PasswordHash: hash,
		Role:         role,
	})
}

func setRole(ctx context.Context, db *mongo.Database, email, role string) (from string, err error) {
	users := userstore.New(db)
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return "", lookupErr(email, err)
	}
	if err := users.SetRole(ctx, u.ID, role); err != nil {
		return "", err
	}
	return u.Role, nil
}

func resetPassword(ctx context.Context, db *mongo.Database, email, password string) error {
	users := userstore.New(db)
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return lookupErr(email, err)
	}
	if normalize.AuthMethod(u.AuthMethod) != models.AuthPassword {
		return fmt.Errorf("%s signs in with %s; no password to reset", email, u.AuthMethod)
	}
	if err := authutil.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}
	return users.SetPassword(ctx, u.ID, hash)
}

func lookupErr(email string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("no user with email %s", email)
	}
	return err
}
