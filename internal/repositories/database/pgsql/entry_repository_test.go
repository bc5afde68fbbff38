package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/utils/pagination"
)

// keysetBefore reports whether (date1, created1) sorts strictly after
// (date2, created2) in the DESC scan, i.e. would be returned by the
// (entry_date, created_at) < (token) predicate.
func keysetBefore(date1, created1, date2, created2 time.Time) bool {
	if !date1.Equal(date2) {
		return date1.Before(date2)
	}
	return created1.Before(created2)
}

func TestTrimLinesPageTokensLastReturnedRow(t *testing.T) {
	d3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Insert order does not follow entry-date order: the oldest-dated line
	// was created last, so its created_at is the largest of the three.
	lines := []domain.JournalLine{
		{LineID: "l3", AccountCode: "1.1.1.10.1", AuditFields: domain.AuditFields{CreatedAt: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)}},
		{LineID: "l2", AccountCode: "1.1.1.10.1", AuditFields: domain.AuditFields{CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}},
		{LineID: "l1", AccountCode: "1.1.1.10.1", AuditFields: domain.AuditFields{CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)}},
	}
	entryDates := []time.Time{d3, d2, d1}

	page, token := trimLinesPage(lines, entryDates, 2)
	require.Len(t, page, 2)
	assert.Equal(t, "l3", page[0].LineID)
	assert.Equal(t, "l2", page[1].LineID)
	require.NotNil(t, token)

	tokenDate, tokenCreated, err := pagination.DecodeToken(*token)
	require.NoError(t, err)
	// The cursor is the sort key of the last returned row, not a mix of the
	// discarded row's date and the returned row's created_at.
	assert.True(t, tokenDate.Equal(d2))
	assert.True(t, tokenCreated.Equal(lines[1].CreatedAt))

	// The discarded row must fall strictly behind the cursor so the next page
	// starts with it instead of skipping it.
	assert.True(t, keysetBefore(d1, lines[2].CreatedAt, tokenDate, tokenCreated))
}

func TestTrimLinesPageWithoutOverflow(t *testing.T) {
	lines := []domain.JournalLine{
		{LineID: "l1", AuditFields: domain.AuditFields{CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}},
	}
	entryDates := []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	page, token := trimLinesPage(lines, entryDates, 50)
	assert.Len(t, page, 1)
	assert.Nil(t, token)
}
