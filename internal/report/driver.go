// Package report resolves a date range, fetches transactions, aggregates them
// and routes the ledger to one output target.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/aggregate"
	"github.com/dailyspend/dailyspend/internal/daterange"
	"github.com/dailyspend/dailyspend/internal/fetch"
	"github.com/dailyspend/dailyspend/internal/logging"
	"github.com/dailyspend/dailyspend/internal/model"
	"github.com/dailyspend/dailyspend/internal/notify"
	"github.com/dailyspend/dailyspend/internal/runlog"
	"github.com/dailyspend/dailyspend/internal/snapshot"
)

// Target is where a report is delivered.
type Target string

const (
	TargetPrint   Target = "print"
	TargetPersist Target = "persist"
	TargetSMS     Target = "sms"
	TargetEmail   Target = "email"
)

// ParseTarget converts a CLI value into a Target.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetPrint, TargetPersist, TargetSMS, TargetEmail:
		return t, nil
	default:
		return "", fmt.Errorf("unknown output target %q", s)
	}
}

// Request describes one report run.
type Request struct {
	Start   *time.Time
	End     *time.Time
	Default daterange.Default
	Mode    model.Mode
	Target  Target
	Rolling bool // merge into the month's snapshot instead of replacing it
}

// Result is a completed report.
type Result struct {
	Range  model.Range
	Ledger model.Ledger
}

// Driver holds the collaborators of a report run.
type Driver struct {
	Source     fetch.Pager
	Balances   fetch.BalanceFetcher
	AccountIDs []string
	Notifiers  map[Target]notify.Notifier
	Snapshots  *snapshot.Store
	Commit     func(path, message string) error // optional, called after persisting
	DataDir    string                           // run log location; empty disables it
	Out        io.Writer
	Logger     *log.Logger
	Now        func() time.Time
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

// Run produces one report. The range and target are checked before any
// remote call; any failure aborts the run without partial output.
func (d *Driver) Run(ctx context.Context, req Request) (Result, error) {
	rng, err := daterange.Resolve(req.Start, req.End, d.now(), req.Default)
	if err != nil {
		return Result{}, err
	}
	if err := d.checkTarget(req.Target); err != nil {
		return Result{}, err
	}

	l, err := d.ledger(ctx, rng, req.Mode)
	if err != nil {
		return Result{}, err
	}
	res := Result{Range: rng, Ledger: l}

	if err := d.deliver(ctx, req, res); err != nil {
		return Result{}, err
	}
	d.logger().Info("report delivered",
		logging.FieldStart, daterange.Format(rng.Start),
		logging.FieldEnd, daterange.Format(rng.End),
		logging.FieldTarget, req.Target,
		"groups", len(l.Groups))
	d.record("report", rng, req.Target, l.NetTotal)
	return res, nil
}

func (d *Driver) checkTarget(t Target) error {
	switch t {
	case TargetPrint:
		return nil
	case TargetPersist:
		if d.Snapshots == nil {
			return fmt.Errorf("no snapshot directory configured")
		}
		return nil
	case TargetSMS, TargetEmail:
		if d.Notifiers[t] == nil {
			return fmt.Errorf("%s notifications are not configured", t)
		}
		return nil
	default:
		return fmt.Errorf("unknown output target %q", t)
	}
}

func (d *Driver) ledger(ctx context.Context, rng model.Range, mode model.Mode) (model.Ledger, error) {
	txns, err := fetch.All(ctx, d.Source, rng, d.AccountIDs)
	if err != nil {
		return model.Ledger{}, err
	}
	d.logger().Debug("fetched transactions",
		logging.FieldStart, daterange.Format(rng.Start),
		logging.FieldEnd, daterange.Format(rng.End),
		logging.FieldCount, len(txns))
	return aggregate.Aggregate(txns, mode), nil
}

func (d *Driver) deliver(ctx context.Context, req Request, res Result) error {
	switch req.Target {
	case TargetPrint:
		return PrintLedger(d.Out, res.Range, res.Ledger)
	case TargetPersist:
		return d.persist(res, req.Rolling)
	default:
		msg := notify.Message{Subject: notify.Subject, Body: notify.Body(res.Ledger)}
		if err := d.Notifiers[req.Target].Notify(ctx, msg); err != nil {
			return fmt.Errorf("delivering %s report: %w", req.Target, err)
		}
		return nil
	}
}

func (d *Driver) persist(res Result, rolling bool) error {
	day := res.Range.End
	if _, err := d.Snapshots.Persist(day, res.Ledger, rolling); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}
	path := d.Snapshots.Path(day.Year(), day.Month())
	d.logger().Info("snapshot written", logging.FieldPath, path)

	if d.Commit != nil {
		msg := fmt.Sprintf("snapshot: %s %d through %s", day.Month(), day.Year(), daterange.Format(day))
		if err := d.Commit(path, msg); err != nil {
			return fmt.Errorf("committing snapshot: %w", err)
		}
	}
	return nil
}

// record appends to the run log. Failures are logged, not returned: the
// report itself has already been delivered.
func (d *Driver) record(command string, rng model.Range, target Target, net decimal.Decimal) {
	if d.DataDir == "" {
		return
	}
	err := runlog.Append(d.DataDir, runlog.Entry{
		Timestamp: d.now(),
		Command:   command,
		Start:     daterange.Format(rng.Start),
		End:       daterange.Format(rng.End),
		Target:    string(target),
		NetTotal:  net,
	})
	if err != nil {
		d.logger().Warn("failed to write run log", "err", err)
	}
}
