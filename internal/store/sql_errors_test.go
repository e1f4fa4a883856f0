package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name      string
		err       error
		want      ErrorClassification
		wantUnique bool
	}{
		{"unique", pgError(pgerrcode.UniqueViolation), NonRetryable, true},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), Retryable, false},
		{"serialization wrapped", fmt.Errorf("tx: %w", pgError(pgerrcode.SerializationFailure)), Retryable, false},
		{"cannot connect", pgError(pgerrcode.CannotConnectNow), Retryable, false},
		{"syntax", pgError(pgerrcode.SyntaxError), NonRetryable, false},
		{"plain", errors.New("x"), NonRetryable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.wantUnique, c.IsUniqueViolation(tt.err))
		})
	}
}

func TestMySQLErrorClassifier(t *testing.T) {
	c := NewMySQLErrorClassifier()

	assert.True(t, c.IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, c.IsUniqueViolation(&mysql.MySQLError{Number: 1213}))
	assert.Equal(t, Retryable, c.Classify(&mysql.MySQLError{Number: 1213}))
	assert.Equal(t, Retryable, c.Classify(&mysql.MySQLError{Number: 1205}))
	assert.Equal(t, Retryable, c.Classify(fmt.Errorf("q: %w", mysql.ErrInvalidConn)))
	assert.Equal(t, NonRetryable, c.Classify(&mysql.MySQLError{Number: 1064}))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("x")))
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	assert.True(t, c.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.True(t, c.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}))
	assert.False(t, c.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.Equal(t, NonRetryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, c.IsUniqueViolation(errors.New("x")))
}
