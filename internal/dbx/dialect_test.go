package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "pgx", want: Postgres},
		{in: "postgres", want: Postgres},
		{in: "sqlite", want: SQLite},
		{in: "sqlite3", want: SQLite},
		{in: "mysql", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	q := `UPDATE records SET owner = ? WHERE slot = ? AND owner = ?`

	assert.Equal(t, `UPDATE records SET owner = $1 WHERE slot = $2 AND owner = $3`, Postgres.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
}
