package mysqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatement(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		query string
		args  []any
		want  string
	}{
		{
			"no args",
			"SELECT * FROM `t`",
			nil,
			"SELECT * FROM `t`",
		},
		{
			"scalars",
			"SELECT * FROM `t` WHERE `a` = ? AND `b` = ?",
			[]any{7, "x"},
			"SELECT * FROM `t` WHERE `a` = 7 AND `b` = 'x'",
		},
		{
			"null and bool",
			"UPDATE `t` SET `a` = ?, `b` = ?",
			[]any{nil, true},
			"UPDATE `t` SET `a` = NULL, `b` = 1",
		},
		{
			"quote escaping",
			"SELECT * FROM `t` WHERE `a` = ?",
			[]any{"O'Brien"},
			"SELECT * FROM `t` WHERE `a` = 'O''Brien'",
		},
		{
			"time",
			"SELECT * FROM `t` WHERE `a` > ?",
			[]any{when},
			"SELECT * FROM `t` WHERE `a` > '2024-05-01 12:30:00'",
		},
		{
			"bytes",
			"SELECT * FROM `t` WHERE `a` = ?",
			[]any{[]byte("blob")},
			"SELECT * FROM `t` WHERE `a` = 'blob'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStatement(tt.query, tt.args))
		})
	}
}

func TestFormatStatement_MorePlaceholdersThanArgs(t *testing.T) {
	// A short arg list leaves the trailing placeholders visible instead of
	// panicking; the rendering is debug-only.
	got := formatStatement("`a` = ? AND `b` = ?", []any{1})
	assert.Equal(t, "`a` = 1 AND `b` = ?", got)
}
