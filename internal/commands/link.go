package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/link"
	"github.com/dailyspend/dailyspend/internal/logging"
)

func newLinkCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Serve the one-time form that links a bank account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())
			cfg, err := opts.loadConfig(false)
			if err != nil {
				return err
			}
			client, err := opts.plaidClient(cfg, logger, false)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s := &link.Server{
				Plaid:       client,
				TokenPath:   opts.tokenPath,
				Environment: cfg.Plaid.Environment,
				Logger:      logging.Component(logger, "link"),
				Done:        cancel,
			}
			srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			fmt.Fprintf(cmd.OutOrStdout(), "Open http://localhost%s to link your account\n", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving link page: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("stopping link server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
