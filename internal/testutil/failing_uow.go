package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/inbox/internal/db"
)

// FailOnNthExecUoW is a unit of work whose Nth write (counting from 1)
// returns Err, so a test can break a decision between entity creation and
// the draft status update. When Match is set only writes whose SQL contains
// it are counted. Reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	wrap := func(tx db.DBTX) db.DBTX {
		return &failingTx{DBTX: tx, uow: u}
	}
	return db.RunInTx(ctx, u.DB, wrap, fn)
}

type failingTx struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	count atomic.Int32
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.Match == "" || strings.Contains(query, f.uow.Match) {
		if f.count.Add(1) == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
