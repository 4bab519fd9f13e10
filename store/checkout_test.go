package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanish431/CC-BackProj-3/models"
)

func TestNormalizeLines(t *testing.T) {
	t.Run("empty is rejected", func(t *testing.T) {
		_, err := normalizeLines(nil)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		_, err := normalizeLines([]models.OrderLineRequest{{ItemID: 7, Quantity: 0}})
		var badQty *InvalidQuantityError
		require.ErrorAs(t, err, &badQty)
		assert.Equal(t, 7, badQty.ItemID)

		_, err = normalizeLines([]models.OrderLineRequest{{ItemID: 7, Quantity: -2}})
		assert.ErrorAs(t, err, &badQty)
	})

	t.Run("duplicates merge and output sorts ascending", func(t *testing.T) {
		out, err := normalizeLines([]models.OrderLineRequest{
			{ItemID: 9, Quantity: 1},
			{ItemID: 3, Quantity: 2},
			{ItemID: 9, Quantity: 4},
		})
		require.NoError(t, err)
		assert.Equal(t, []models.OrderLineRequest{
			{ItemID: 3, Quantity: 2},
			{ItemID: 9, Quantity: 5},
		}, out)
	})
}

func TestRetryOnConflict(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	receipt := &Receipt{OrderID: 8, TotalPrice: 12.5}

	t.Run("success on first attempt is not retried", func(t *testing.T) {
		calls := 0
		got, err := retryOnConflict(func() (*Receipt, error) {
			calls++
			return receipt, nil
		})
		require.NoError(t, err)
		assert.Equal(t, receipt, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("one conflict retries with a fresh attempt", func(t *testing.T) {
		calls := 0
		got, err := retryOnConflict(func() (*Receipt, error) {
			calls++
			if calls == 1 {
				return nil, conflict
			}
			return receipt, nil
		})
		require.NoError(t, err)
		assert.Equal(t, receipt, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("second conflict exhausts the retry", func(t *testing.T) {
		calls := 0
		got, err := retryOnConflict(func() (*Receipt, error) {
			calls++
			return nil, persistence("commit checkout", conflict)
		})
		assert.ErrorIs(t, err, ErrConflictRetryExhausted)
		assert.Nil(t, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("business failures pass through unretried", func(t *testing.T) {
		calls := 0
		_, err := retryOnConflict(func() (*Receipt, error) {
			calls++
			return nil, &InsufficientStockError{ItemID: 1, Requested: 2, Available: 0}
		})
		var insufficient *InsufficientStockError
		assert.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 1, calls)
	})

	t.Run("retry failing on a business rule reports that failure", func(t *testing.T) {
		calls := 0
		_, err := retryOnConflict(func() (*Receipt, error) {
			calls++
			if calls == 1 {
				return nil, conflict
			}
			return nil, ErrEmptyOrder
		})
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.Equal(t, 2, calls)
	})
}

func TestCheckoutRetriesConflictedAttempt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := testUser(t, s, "hana")
	item := testItem(t, s, "retried", 5, 3)

	// The first attempt aborts with a serialization conflict before touching
	// stock; the engine must run a second attempt with fresh reads and
	// place the order.
	calls := 0
	source := func(context.Context, *sql.Tx) ([]models.OrderLineRequest, error) {
		calls++
		if calls == 1 {
			return nil, &pq.Error{Code: "40001"}
		}
		return []models.OrderLineRequest{{ItemID: item.ID, Quantity: 2}}, nil
	}

	receipt, err := s.checkout(ctx, userID, source, false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 10.0, receipt.TotalPrice)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 30.0, roundCents(10.0*3))
	assert.Equal(t, 0.3, roundCents(0.1+0.2))
	assert.Equal(t, 19.99, roundCents(19.987))
}

func TestPlaceOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := testUser(t, s, "alice")

	t.Run("success freezes price and decrements stock", func(t *testing.T) {
		item := testItem(t, s, "gadget", 10, 5)

		receipt, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
			{ItemID: item.ID, Quantity: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 30.0, receipt.TotalPrice)

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Quantity)

		orders, err := s.PastOrders(ctx, userID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.Len(t, orders[0].Items, 1)
		assert.Equal(t, 3, orders[0].Items[0].Quantity)
		assert.Equal(t, 10.0, orders[0].Items[0].UnitPrice)
		assert.Equal(t, "created", orders[0].Status)
	})

	t.Run("insufficient stock leaves quantity unchanged", func(t *testing.T) {
		item := testItem(t, s, "scarce", 4, 2)

		_, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
			{ItemID: item.ID, Quantity: 5},
		})
		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, item.ID, insufficient.ItemID)
		assert.Equal(t, 5, insufficient.Requested)
		assert.Equal(t, 2, insufficient.Available)

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Quantity)
	})

	t.Run("empty order writes nothing", func(t *testing.T) {
		before, err := s.PastOrders(ctx, userID)
		require.NoError(t, err)

		_, err = s.PlaceOrder(ctx, userID, nil)
		assert.ErrorIs(t, err, ErrEmptyOrder)

		after, err := s.PastOrders(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("unknown item aborts before any mutation", func(t *testing.T) {
		item := testItem(t, s, "known", 5, 10)

		_, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
			{ItemID: item.ID, Quantity: 1},
			{ItemID: 999999, Quantity: 1},
		})
		var notFound *ItemNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, 999999, notFound.ItemID)

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)
	})

	t.Run("duplicate item ids merge into one line", func(t *testing.T) {
		item := testItem(t, s, "dupes", 2, 10)

		receipt, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
			{ItemID: item.ID, Quantity: 1},
			{ItemID: item.ID, Quantity: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, 6.0, receipt.TotalPrice)

		orders, err := s.PastOrders(ctx, userID)
		require.NoError(t, err)
		require.NotEmpty(t, orders)
		last := orders[0]
		require.Len(t, last.Items, 1)
		assert.Equal(t, 3, last.Items[0].Quantity)
	})
}

func TestPlaceOrderAtomicity(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := testUser(t, s, "bob")

	plenty := testItem(t, s, "plenty", 1, 100)
	scarce := testItem(t, s, "scarce", 1, 1)

	// plenty has the lower item id, so its decrement happens first and must
	// be rolled back when scarce fails.
	_, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
		{ItemID: plenty.ID, Quantity: 10},
		{ItemID: scarce.ID, Quantity: 5},
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, scarce.ID, insufficient.ItemID)

	got, err := s.GetItem(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Quantity, "earlier line's decrement must not survive a failed later line")

	orders, err := s.PastOrders(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders, "no order rows may exist for a failed attempt")
}

func TestPriceFreeze(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := testUser(t, s, "carol")
	item := testItem(t, s, "volatile", 10, 5)

	_, err := s.PlaceOrder(ctx, userID, []models.OrderLineRequest{{ItemID: item.ID, Quantity: 2}})
	require.NoError(t, err)

	newPrice := 99.0
	_, err = s.UpdateItem(ctx, item.ID, models.UpdateItemRequest{Price: &newPrice})
	require.NoError(t, err)

	orders, err := s.PastOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 10.0, orders[0].Items[0].UnitPrice,
		"order lines must keep the price charged, not the current price")
	assert.Equal(t, 20.0, orders[0].TotalPrice)

	revenue, err := s.Revenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, revenue)
}

func TestCartCheckout(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := testUser(t, s, "dave")

	t.Run("empty cart", func(t *testing.T) {
		_, err := s.CheckoutCart(ctx, userID)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("failure leaves cart entries unchanged", func(t *testing.T) {
		item := testItem(t, s, "thin", 3, 1)
		require.NoError(t, s.AddToCart(ctx, userID, item.ID, 2))

		_, err := s.CheckoutCart(ctx, userID)
		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)

		view, err := s.CartInfo(ctx, userID)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 2, view.Items[0].Quantity)

		require.NoError(t, s.RemoveFromCart(ctx, userID, item.ID))
	})

	t.Run("success clears the cart", func(t *testing.T) {
		first := testItem(t, s, "first", 2.50, 10)
		second := testItem(t, s, "second", 4, 10)
		require.NoError(t, s.AddToCart(ctx, userID, first.ID, 2))
		require.NoError(t, s.AddToCart(ctx, userID, second.ID, 1))

		receipt, err := s.CheckoutCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 9.0, receipt.TotalPrice)

		view, err := s.CartInfo(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, view.Items)

		gotFirst, err := s.GetItem(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, gotFirst.Quantity)
		gotSecond, err := s.GetItem(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, gotSecond.Quantity)
	})
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	t.Run("two buyers, one unit", func(t *testing.T) {
		item := testItem(t, s, "unique", 50, 1)
		buyers := []int{testUser(t, s, "eve"), testUser(t, s, "frank")}

		errs := make([]error, len(buyers))
		var wg sync.WaitGroup
		for i, uid := range buyers {
			wg.Add(1)
			go func(i, uid int) {
				defer wg.Done()
				_, errs[i] = s.PlaceOrder(ctx, uid, []models.OrderLineRequest{
					{ItemID: item.ID, Quantity: 1},
				})
			}(i, uid)
		}
		wg.Wait()

		var successes, stockFailures int
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			var insufficient *InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			stockFailures++
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, stockFailures)

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("many buyers drain stock to exactly zero", func(t *testing.T) {
		const initial = 5
		const attempts = 12
		item := testItem(t, s, "contended", 1, initial)
		userID := testUser(t, s, "grace")

		errs := make([]error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.PlaceOrder(ctx, userID, []models.OrderLineRequest{
					{ItemID: item.ID, Quantity: 1},
				})
			}(i)
		}
		wg.Wait()

		var successes int
		for _, err := range errs {
			if err == nil {
				successes++
			}
		}
		assert.Equal(t, initial, successes)

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
		assert.GreaterOrEqual(t, got.Quantity, 0)
	})
}
