package data

import (
	"context"
	"fmt"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/data/pgxutil"
	errs "github.com/officeplus/faq-api/internal/errors"
)

var _ core.StatusRepository = (*StatusRepo)(nil)

// StatusRepo reports database connectivity.
type StatusRepo struct {
	DB pgxutil.DB
	// MaskedDSN is echoed back in the status; it must not carry the password.
	MaskedDSN string
}

// Status queries the server for its database name and clock.
func (r *StatusRepo) Status(ctx context.Context) (core.DBStatus, error) {
	st := core.DBStatus{DSN: r.MaskedDSN}
	if err := r.DB.QueryRow(ctx, `SELECT current_database(), now()`).Scan(&st.Database, &st.CurrentTime); err != nil {
		return st, fmt.Errorf("db status: %w", errs.MapDBError(err))
	}
	return st, nil
}
