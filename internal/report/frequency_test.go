package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washboardhq/washboard/internal/testutil"
	"github.com/washboardhq/washboard/pkg/models"
)

func Test_CustomerFrequencies(t *testing.T) {
	jane := testutil.NewCustomer()
	john := testutil.NewCustomer(testutil.WithCustomerID(2), testutil.WithCustomerName("John", "Smith"))
	mary := testutil.NewCustomer(testutil.WithCustomerID(3), testutil.WithCustomerName("Mary", "Lee"))

	t.Run("Should aggregate visits, spend, and items per customer", func(t *testing.T) {
		txs := []models.Transaction{
			testutil.NewTransaction(testutil.WithCustomer(jane), testutil.WithTotal(10)),
			testutil.NewTransaction(testutil.WithCustomer(jane), testutil.WithTotal(25),
				testutil.WithCreatedAt(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))),
			testutil.NewTransaction(testutil.WithCustomer(john), testutil.WithTotal(40)),
		}

		rows := CustomerFrequencies(txs)
		require.Len(t, rows, 2)

		assert.Equal(t, jane.ID, rows[0].Customer.ID)
		assert.Equal(t, 2, rows[0].Visits)
		assert.Equal(t, 35.0, rows[0].TotalSpent)
		assert.Equal(t, 4.0, rows[0].TotalItems)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rows[0].LastVisit)

		assert.Equal(t, john.ID, rows[1].Customer.ID)
		assert.Equal(t, 1, rows[1].Visits)
	})

	t.Run("Should not count cancelled orders as visits", func(t *testing.T) {
		txs := []models.Transaction{
			testutil.NewTransaction(testutil.WithCustomer(jane)),
			testutil.NewTransaction(testutil.WithCustomer(jane), testutil.WithStatus(models.StatusCancelled)),
			testutil.NewTransaction(testutil.WithCustomer(john), testutil.WithStatus(models.StatusCancelled)),
		}

		rows := CustomerFrequencies(txs)
		require.Len(t, rows, 1)
		assert.Equal(t, jane.ID, rows[0].Customer.ID)
		assert.Equal(t, 1, rows[0].Visits)
	})

	t.Run("Should break visit ties by spend, then items", func(t *testing.T) {
		txs := []models.Transaction{
			testutil.NewTransaction(testutil.WithCustomer(jane), testutil.WithTotal(10)),
			testutil.NewTransaction(testutil.WithCustomer(john), testutil.WithTotal(50)),
			testutil.NewTransaction(testutil.WithCustomer(mary), testutil.WithTotal(50)),
			testutil.NewTransaction(testutil.WithCustomer(mary), testutil.WithTotal(0)),
			testutil.NewTransaction(testutil.WithCustomer(john), testutil.WithTotal(0)),
		}
		// Mary and John tie on visits and spend; Mary appeared later but
		// has the same items too, so input order decides.
		rows := CustomerFrequencies(txs)
		require.Len(t, rows, 3)
		assert.Equal(t, john.ID, rows[0].Customer.ID)
		assert.Equal(t, mary.ID, rows[1].Customer.ID)
		assert.Equal(t, jane.ID, rows[2].Customer.ID)
	})

	t.Run("Should return no rows for an empty input", func(t *testing.T) {
		assert.Empty(t, CustomerFrequencies(nil))
	})
}
