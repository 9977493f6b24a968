package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	infrajwt "github.com/jonesrussell/trendboard/infrastructure/jwt"
)

const defaultTokenTTL = 24 * time.Hour

func newTokenCommand(opts *options) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin API routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.setup()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}

			token, err := infrajwt.NewToken(cfg.Auth.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "token lifetime (0 for no expiry)")
	return cmd
}
