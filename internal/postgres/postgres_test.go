package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	type testcase struct {
		name     string
		config   Config
		expected string
	}
	testcases := []testcase{
		{
			name:     "defaults",
			config:   Config{},
			expected: "host=127.0.0.1 dbname=postgres port=5432 sslmode=prefer",
		},
		{
			name: "credentials",
			config: Config{
				Host:     "db",
				Port:     "6432",
				User:     "scanner",
				Password: "secret",
				DBName:   "ledger",
				SSLMode:  "disable",
			},
			expected: "host=db dbname=ledger port=6432 sslmode=disable user=scanner password=secret",
		},
		{
			name: "url wins",
			config: Config{
				Host: "db",
				URL:  "postgres://scanner@db:5432/ledger",
			},
			expected: "postgres://scanner@db:5432/ledger",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.config.String())
		})
	}
}
