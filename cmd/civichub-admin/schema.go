package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dalemusser/civichub/internal/app/system/indexes"
	"github.com/dalemusser/civichub/internal/app/system/validators"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var genKeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Print a random session key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := generateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Apply collection validators and reconcile indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database) error {
			if err := validators.EnsureAll(ctx, db); err != nil {
				return err
			}
			if err := indexes.EnsureAll(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(genKeyCmd, ensureIndexesCmd)
}

// generateKey returns 64 random bytes, base64url encoded for env files.
func generateKey() (string, error) {
	b := securecookie.GenerateRandomKey(64)
	if b == nil {
		return "", fmt.Errorf("random source unavailable")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
