package dbmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM appointments":           "select",
		"  insert into business_hours_overrides": "insert",
		"UPDATE x SET y = 1":                    "update",
		"DELETE FROM x":                         "delete",
		"WITH cte AS (SELECT 1) SELECT * FROM cte": "with",
		"VACUUM":                                "other",
		"":                                      "unknown",
	}

	for query, want := range tests {
		assert.Equal(t, want, Operation(query), query)
	}
}
