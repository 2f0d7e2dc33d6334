package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readQuery = "SELECT data, created_at FROM session WHERE id = $1"

func TestStore_ReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     error
		notFound bool
	}{
		{"no rows", sql.ErrNoRows, domain.ErrSessionNotFound, true},
		{"statement timeout", errors.New("pq: canceling statement due to statement timeout"), domain.ErrReadFailed, false},
		{"bad connection", sql.ErrConnDone, domain.ErrConnection, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(readQuery).WithArgs("live").WillReturnError(tt.err)

			_, err = sqlstore.New(db, sqlstore.Postgres).Read(context.Background(), "live")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.notFound, errors.Is(err, domain.ErrSessionNotFound))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_ReadScanFailureIsNotMissing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"data", "created_at"}).AddRow([]byte{0x01}, "not a date")
	mock.ExpectQuery(readQuery).WithArgs("live").WillReturnRows(rows)

	_, err = sqlstore.New(db, sqlstore.Postgres).Read(context.Background(), "live")
	assert.ErrorIs(t, err, domain.ErrReadFailed)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
