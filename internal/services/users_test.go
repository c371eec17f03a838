package services_test

import (
	"context"
	"testing"

	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	created, err := services.CreateUser(ctx, db, services.UserInput{
		Name:    "Ann",
		Address: "1 Main St",
		Email:   "ann@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.ID)

	got, err := services.GetUser(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	input := services.UserInput{Name: "Ann", Address: "1 Main St", Email: "ann@example.com"}
	_, err := services.CreateUser(ctx, db, input)
	require.NoError(t, err)

	input.Name = "Another Ann"
	_, err = services.CreateUser(ctx, db, input)

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Fields, 1)
	assert.Equal(t, "email", validationErr.Fields[0].Field)
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.User{}))
}

func TestCreateUserInvalidInput(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	_, err := services.CreateUser(context.Background(), db, services.UserInput{
		Address: "1 Main St",
		Email:   "not-an-email",
	})

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := map[string]string{}
	for _, f := range validationErr.Fields {
		fields[f.Field] = f.Error
	}
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Zero(t, testhelpers.CountRows(t, db, &models.User{}))
}

func TestListUsers(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	users, err := services.ListUsers(ctx, db)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	testhelpers.CreateTestUser(t, db, "ann")
	testhelpers.CreateTestUser(t, db, "bob")

	users, err = services.ListUsers(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ann", users[0].Name)
	assert.Equal(t, "bob", users[1].Name)
}

func TestGetUserNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	_, err := services.GetUser(context.Background(), db, 42)

	var notFoundErr *services.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "User 42 not found", err.Error())
}

func TestUpdateUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, "ann")

	updated, err := services.UpdateUser(ctx, db, user.ID, services.UserUpdate{
		Name:  "Ann B",
		Email: "annb@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, "annb@example.com", updated.Email)
	assert.Equal(t, user.Address, updated.Address)

	got, err := services.GetUser(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)
}

func TestUpdateUserKeepsOwnEmail(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "ann")

	_, err := services.UpdateUser(context.Background(), db, user.ID, services.UserUpdate{
		Name:  "Renamed",
		Email: user.Email,
	})
	assert.NoError(t, err)
}

func TestUpdateUserEmailTaken(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ann := testhelpers.CreateTestUser(t, db, "ann")
	bob := testhelpers.CreateTestUser(t, db, "bob")

	_, err := services.UpdateUser(context.Background(), db, bob.ID, services.UserUpdate{
		Name:  "Bob",
		Email: ann.Email,
	})

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)

	got, err := services.GetUser(context.Background(), db, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.Email, got.Email)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	existing := testhelpers.CreateTestUser(t, db, "ann")

	_, err := services.UpdateUser(context.Background(), db, 99, services.UserUpdate{
		Name:  "Ghost",
		Email: "ghost@example.com",
	})

	var notFoundErr *services.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	users, err := services.ListUsers(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []models.User{existing}, users)
}

func TestDeleteUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, "ann")

	require.NoError(t, services.DeleteUser(ctx, db, user.ID, false))

	_, err := services.GetUser(ctx, db, user.ID)
	var notFoundErr *services.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	err = services.DeleteUser(ctx, db, user.ID, false)
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteUserWithOrders(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, "ann")
	product := testhelpers.CreateTestProduct(t, db, "Widget", 9.99)
	testhelpers.CreateTestOrder(t, db, user.ID, product.ID)

	err := services.DeleteUser(ctx, db, user.ID, false)
	var conflictErr *services.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.User{}))
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.Order{}))

	require.NoError(t, services.DeleteUser(ctx, db, user.ID, true))
	assert.Zero(t, testhelpers.CountRows(t, db, &models.User{}))
	assert.Zero(t, testhelpers.CountRows(t, db, &models.Order{}))
	assert.Zero(t, testhelpers.CountRows(t, db, &models.OrderProduct{}))
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.Product{}))
}
