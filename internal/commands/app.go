package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/config"
	"github.com/dailyspend/dailyspend/internal/gitops"
	"github.com/dailyspend/dailyspend/internal/importer"
	"github.com/dailyspend/dailyspend/internal/logging"
	"github.com/dailyspend/dailyspend/internal/notify"
	"github.com/dailyspend/dailyspend/internal/plaid"
	"github.com/dailyspend/dailyspend/internal/report"
	"github.com/dailyspend/dailyspend/internal/snapshot"
)

// Transaction sources selectable with --source.
const (
	sourcePlaid = "plaid"
	sourceCSV   = "csv"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	tokenPath  string
	dataDir    string
	verbose    bool
}

// sourceOptions selects where transactions come from.
type sourceOptions struct {
	source    string
	csvFormat string
}

func (s *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.source, "source", sourcePlaid, "transaction source: plaid or csv (exports in <data>/import)")
	cmd.Flags().StringVar(&s.csvFormat, "csv-format", "chase", "bank export format for --source csv")
}

func (o *globalOptions) logger(w io.Writer) *log.Logger {
	return logging.New(w, o.verbose)
}

// loadConfig reads the credentials file. Offline runs may do without one.
func (o *globalOptions) loadConfig(optional bool) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// plaidClient builds a provider client; withToken also reads the access token file.
func (o *globalOptions) plaidClient(cfg *config.Config, logger *log.Logger, withToken bool) (*plaid.Client, error) {
	if err := cfg.Validate(config.NeedPlaid); err != nil {
		return nil, err
	}
	var token string
	if withToken {
		var err error
		token, err = config.LoadToken(o.tokenPath)
		if err != nil {
			return nil, err
		}
	}
	return plaid.NewClient(plaid.Options{
		Environment: cfg.Plaid.Environment,
		BaseURL:     cfg.Plaid.BaseURL,
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.Plaid.Secret,
		AccessToken: token,
		Logger:      logging.Component(logger, "plaid"),
	})
}

// newDriver wires a report driver for one invocation. Only the collaborators
// the target needs are built, so a print run never requires SMS credentials.
func (o *globalOptions) newDriver(cmd *cobra.Command, src sourceOptions, target report.Target) (*report.Driver, error) {
	logger := o.logger(cmd.ErrOrStderr())

	cfg, err := o.loadConfig(src.source == sourceCSV)
	if err != nil {
		return nil, err
	}

	d := &report.Driver{
		AccountIDs: cfg.AccountIDs(),
		Notifiers:  map[report.Target]notify.Notifier{},
		Snapshots:  snapshot.NewStore(o.dataDir),
		DataDir:    o.dataDir,
		Out:        cmd.OutOrStdout(),
		Logger:     logging.Component(logger, "report"),
	}

	switch src.source {
	case sourcePlaid:
		client, err := o.plaidClient(cfg, logger, true)
		if err != nil {
			return nil, err
		}
		d.Source = client
		d.Balances = client
	case sourceCSV:
		csvSrc, err := importer.NewCSVSource(o.dataDir, src.csvFormat)
		if err != nil {
			return nil, err
		}
		d.Source = csvSrc
	default:
		return nil, fmt.Errorf("unknown source %q (want %q or %q)", src.source, sourcePlaid, sourceCSV)
	}

	switch target {
	case report.TargetSMS:
		if err := cfg.Validate(config.NeedSMS); err != nil {
			return nil, err
		}
		d.Notifiers[target] = &notify.SMS{
			SID:       cfg.Twilio.SID,
			AuthToken: cfg.Twilio.AuthToken,
			From:      cfg.Twilio.PhoneNumber,
			To:        cfg.Twilio.MyNumber,
		}
	case report.TargetEmail:
		if err := cfg.Validate(config.NeedEmail); err != nil {
			return nil, err
		}
		d.Notifiers[target] = &notify.Email{
			Host:        cfg.Email.Host,
			Port:        cfg.Email.Port,
			Account:     cfg.Email.Account,
			AppPassword: cfg.Email.AppPassword,
			To:          cfg.Email.To,
		}
	case report.TargetPersist:
		if cfg.Git.AutoCommit && gitops.IsRepo(o.dataDir) {
			author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
			d.Commit = func(path, message string) error {
				hash, err := gitops.CommitPaths(o.dataDir, []string{path}, message, author)
				if err == nil && hash != "" {
					logger.Debug("snapshot committed", "hash", hash)
				}
				return err
			}
		}
	}

	return d, nil
}
