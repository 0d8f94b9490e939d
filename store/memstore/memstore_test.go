package memstore

import (
	"context"
	"testing"

	"aruth-api/models"
	"aruth-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProducts_NewestFirst(t *testing.T) {
	st := New().Store()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		typ := models.ProductPopular
		if name == "c" {
			typ = models.ProductOther
		}
		p := models.Product{Name: name, Type: typ, Categories: []string{"men"}}
		require.NoError(t, st.Products.Insert(ctx, &p))
		require.False(t, p.ID.IsZero())
	}

	popular, err := st.Products.LatestByType(ctx, models.ProductPopular, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "d", popular[0].Name)
	assert.Equal(t, "b", popular[1].Name)

	all, err := st.Products.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := st.Products.ByCategory(ctx, "women", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProducts_UpdateAndNotFound(t *testing.T) {
	st := New().Store()
	ctx := context.Background()

	p := models.Product{Name: "Shirt", Price: 20}
	require.NoError(t, st.Products.Insert(ctx, &p))

	price := 15.0
	require.NoError(t, st.Products.Update(ctx, p.ID, models.ProductPatch{Price: &price}))

	got, err := st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Price)
	assert.Equal(t, "Shirt", got.Name)

	_, err = st.Products.ByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.Products.Update(ctx, primitive.NewObjectID(), models.ProductPatch{Price: &price}), store.ErrNotFound)
}

func TestProducts_SetRatingRevision(t *testing.T) {
	st := New().Store()
	ctx := context.Background()

	p := models.Product{Name: "Shirt"}
	require.NoError(t, st.Products.Insert(ctx, &p))

	four, five := 4.0, 5.0
	written, err := st.Products.SetRating(ctx, p.ID, &five, 20)
	require.NoError(t, err)
	assert.True(t, written)

	// An older recompute lands late and must not win.
	written, err = st.Products.SetRating(ctx, p.ID, &four, 10)
	require.NoError(t, err)
	assert.False(t, written)

	got, err := st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.Equal(t, 5.0, *got.Ratings)

	written, err = st.Products.SetRating(ctx, p.ID, nil, 30)
	require.NoError(t, err)
	assert.True(t, written)
	got, err = st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Ratings)
}

func TestSequence(t *testing.T) {
	st := New().Store()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := st.Sequence.Next(ctx, store.OrderSequence)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := st.Sequence.Next(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHealth(t *testing.T) {
	assert.NoError(t, New().Store().Health.Ping(context.Background()))
}

func TestReviews_UpsertByOrderNum(t *testing.T) {
	st := New().Store()
	ctx := context.Background()
	productID := primitive.NewObjectID().Hex()

	first := models.Review{OrderNum: "AR0001C1", ProductID: productID, Ratings: 2, Email: "ada@example.com"}
	require.NoError(t, st.Reviews.Upsert(ctx, &first))

	again := models.Review{OrderNum: "AR0001C1", ProductID: productID, Ratings: 5, Email: "ada@example.com"}
	require.NoError(t, st.Reviews.Upsert(ctx, &again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.CreatedAt, again.CreatedAt)

	other := models.Review{OrderNum: "AR0002C2", ProductID: productID, Ratings: 3, Email: "bob@example.com"}
	require.NoError(t, st.Reviews.Upsert(ctx, &other))

	ratings, err := st.Reviews.Ratings(ctx, productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{5, 3}, ratings)

	mine, err := st.Reviews.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 5.0, mine[0].Ratings)

	require.NoError(t, st.Reviews.Delete(ctx, first.ID))
	_, err = st.Reviews.ByOrderNum(ctx, "AR0001C1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.Reviews.Delete(ctx, first.ID), store.ErrNotFound)
}

func TestUsers(t *testing.T) {
	st := New().Store()
	ctx := context.Background()

	name := "Ada"
	require.NoError(t, st.Users.Register(ctx, "ada@example.com", models.Profile{Name: &name}))
	require.NoError(t, st.Users.Register(ctx, "ada@example.com", models.Profile{}))

	u, err := st.Users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, models.RoleCustomer, u.Role)

	require.NoError(t, st.Users.UpdateContact(ctx, "ada@example.com", models.Contact{Address: "1 Main St", Mob: "555"}))
	u, err = st.Users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", u.Address)

	assert.ErrorIs(t, st.Users.SetRole(ctx, "ghost@example.com", models.RoleAdmin), store.ErrNotFound)
	require.NoError(t, st.Users.SetRole(ctx, "ada@example.com", models.RoleAdmin))

	admins, err := st.Users.ByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "ada@example.com", admins[0].Email)

	all, err := st.Users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
