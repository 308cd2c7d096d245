package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatrelay/internal/auth"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		userID    string
		email     string
		ttl       time.Duration
		secret    string
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		Long: `Mint a signed bearer token accepted by the server.

The token is signed with SECRET_KEY and ALGORITHM unless overridden.

Examples:
  chatctl token --user u1 --email u1@example.com
  chatctl token --user u1 --ttl 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = opts.cfg.JWTSecretKey
			}
			if algorithm == "" {
				algorithm = opts.cfg.JWTAlgorithm
			}
			if secret == "" {
				return errors.New("no signing secret: set SECRET_KEY or pass --secret")
			}

			token, err := auth.GenerateToken(auth.TokenClaims{UserID: userID, Email: email}, secret, algorithm, ttl)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id to put in the token (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret, defaults to SECRET_KEY")
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "signing algorithm, defaults to ALGORITHM")
	cmd.MarkFlagRequired("user")
	return cmd
}
