package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFilter(status StatusFilter) Filter {
	return Filter{
		UserID: 1,
		Start:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		Status: status,
		Today:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildWhere_All(t *testing.T) {
	where, args := testFilter(StatusFilterAll).BuildWhere()

	assert.Equal(t, "b.user_id = $1 AND b.due_date >= $2 AND b.due_date < $3", where)
	assert.Len(t, args, 3)
}

func TestBuildWhere_Open(t *testing.T) {
	where, args := testFilter(StatusFilterOpen).BuildWhere()

	assert.Contains(t, where, "b.status = 'OPEN'")
	assert.NotContains(t, where, "due_date = $")
	assert.Len(t, args, 3)
}

func TestBuildWhere_Paid(t *testing.T) {
	where, args := testFilter(StatusFilterPaid).BuildWhere()

	assert.Contains(t, where, "b.status = 'PAID'")
	assert.Len(t, args, 3)
}

func TestBuildWhere_Today(t *testing.T) {
	f := testFilter(StatusFilterToday)
	where, args := f.BuildWhere()

	assert.Contains(t, where, "b.status = 'OPEN' AND b.due_date = $4")
	require.Len(t, args, 4)
	assert.Equal(t, f.Today, args[3])
}

func TestBuildWhere_Overdue(t *testing.T) {
	f := testFilter(StatusFilterOverdue)
	where, args := f.BuildWhere()

	assert.Contains(t, where, "b.status = 'OPEN' AND b.due_date < $4")
	require.Len(t, args, 4)
	assert.Equal(t, f.Today, args[3])
}

func TestBuildWhere_CategoryAndSearch(t *testing.T) {
	categoryID := 7
	f := testFilter(StatusFilterOpen)
	f.CategoryID = &categoryID
	f.Search = "rent"

	where, args := f.BuildWhere()

	assert.Contains(t, where, "b.category_id = $4")
	assert.Contains(t, where, "(b.title ILIKE $5 OR b.notes ILIKE $6)")
	require.Len(t, args, 6)
	assert.Equal(t, 7, args[3])
	assert.Equal(t, "%rent%", args[4])
	assert.Equal(t, "%rent%", args[5])
}

func TestBuildWhere_SearchWildcardsBothSides(t *testing.T) {
	f := testFilter(StatusFilterAll)
	f.Search = "ene"

	_, args := f.BuildWhere()

	require.Len(t, args, 5)
	assert.Equal(t, "%ene%", args[3])
}

func TestParseStatusFilter(t *testing.T) {
	for _, s := range []string{"", "all", "open", "paid", "today", "overdue"} {
		_, err := ParseStatusFilter(s)
		assert.NoError(t, err, "expected %q to be accepted", s)
	}

	_, err := ParseStatusFilter("OPEN")
	assert.Error(t, err)

	_, err = ParseStatusFilter("bogus")
	assert.Error(t, err)
}

func TestParseStatusFilter_EmptyMeansAll(t *testing.T) {
	sf, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusFilterAll, sf)
}
