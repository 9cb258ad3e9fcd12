package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

var (
	seller      = identity.Identity{Email: "seller@example.com", Role: identity.RoleSeller}
	otherSeller = identity.Identity{Email: "other@example.com", Role: identity.RoleSeller}
	buyer       = identity.Identity{Email: "buyer@example.com", Role: identity.RoleBuyer}
)

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return "p-" + string(rune('0'+next))
	}
}

func newTestService() *Service {
	return NewService(memory.NewRepository(), WithIDGenerator(sequentialIDs()))
}

func validInput(name, category, price string, stock int) ports.ProductInput {
	return ports.ProductInput{
		Name:        name,
		Description: "A perfectly fine item",
		Price:       price,
		Stock:       stock,
		Category:    category,
	}
}

func TestCreateProduct_DefaultsToActiveAndOwnership(t *testing.T) {
	svc := newTestService()

	created, err := svc.CreateProduct(context.Background(), seller, validInput("Mug", "Kitchen", "12.50", 3))
	require.NoError(t, err)
	require.Equal(t, "p-1", created.Entity.ID)
	require.Equal(t, seller.Email, created.Entity.SellerEmail)
	require.Equal(t, domain.StatusActive, created.Entity.Status)
	require.Equal(t, "12.5", created.Entity.Price.String())
}

func TestCreateProduct_RejectsBuyers(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateProduct(context.Background(), buyer, validInput("Mug", "Kitchen", "12.50", 3))
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateProduct_ValidationMapsToInvalidInput(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "abc", 3))
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "10.005", 3))
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	short := validInput("Mug", "Kitchen", "1", 3)
	short.Description = "tiny"
	_, err = svc.CreateProduct(ctx, seller, short)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrShortDescription)

	_, err = svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "1", -1))
	require.ErrorIs(t, err, domain.ErrNegativeStock)
}

func TestUpdateProduct_OnlyOwnerMayEdit(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "12.50", 3))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, otherSeller, created.Entity.ID, validInput("Stolen", "Kitchen", "1", 1))
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	inactive := int(domain.StatusInactive)
	input := validInput("Mug XL", "Kitchen", "14.00", 7)
	input.Status = &inactive
	updated, err := svc.UpdateProduct(ctx, seller, created.Entity.ID, input)
	require.NoError(t, err)
	require.Equal(t, "Mug XL", updated.Entity.Name)
	require.Equal(t, 7, updated.Entity.Stock)
	require.Equal(t, domain.StatusInactive, updated.Entity.Status)

	again, err := svc.UpdateProduct(ctx, seller, created.Entity.ID, validInput("Mug XL", "Kitchen", "14.00", 2))
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, again.Entity.Status, "nil status keeps the stored value")
}

func TestUpdateProduct_RejectsStaleVersion(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo, WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "12.50", 5))
	require.NoError(t, err)
	seen := ports.VersionTag(created)

	_, err = repo.DecrementStock(ctx, created.Entity.ID, 2)
	require.NoError(t, err)

	edit := validInput("Mug", "Kitchen", "11.00", 5)
	edit.IfMatch = seen
	_, err = svc.UpdateProduct(ctx, seller, created.Entity.ID, edit)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.ErrorIs(t, err, ports.ErrStale)

	current, err := svc.GetProduct(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, 3, current.Entity.Stock, "the sold units stay sold")

	edit = validInput("Mug", "Kitchen", "11.00", current.Entity.Stock)
	edit.IfMatch = ports.VersionTag(current)
	updated, err := svc.UpdateProduct(ctx, seller, created.Entity.ID, edit)
	require.NoError(t, err)
	require.Equal(t, "11.00", updated.Entity.Price.StringFixed(2))
	require.NotEqual(t, edit.IfMatch, ports.VersionTag(updated))
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, seller, validInput("Mug", "Kitchen", "12.50", 3))
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteProduct(ctx, otherSeller, created.Entity.ID), apperrors.ErrForbidden)
	require.NoError(t, svc.DeleteProduct(ctx, seller, created.Entity.ID))

	_, err = svc.GetProduct(ctx, created.Entity.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.ErrorIs(t, svc.DeleteProduct(ctx, seller, created.Entity.ID), apperrors.ErrNotFound)
}

func TestListSellerProducts_IncludesInactive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inactive := int(domain.StatusInactive)
	hidden := validInput("Hidden", "Kitchen", "5", 1)
	hidden.Status = &inactive
	_, err := svc.CreateProduct(ctx, seller, hidden)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, seller, validInput("Shown", "Kitchen", "5", 1))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, otherSeller, validInput("Elsewhere", "Kitchen", "5", 1))
	require.NoError(t, err)

	mine, err := svc.ListSellerProducts(ctx, seller)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	_, err = svc.ListSellerProducts(ctx, buyer)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestBrowse_FiltersAndReportsCategories(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, seller, validInput("Chair", "Furniture", "150", 2))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, seller, validInput("Spoon", "Kitchen", "50", 10))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, seller, validInput("Sold out", "Garden", "10", 0))
	require.NoError(t, err)

	all, err := svc.Browse(ctx, ports.BrowseInput{})
	require.NoError(t, err)
	require.Len(t, all.Products, 2)
	require.Equal(t, []string{"Furniture", "Kitchen", "Garden"}, all.Categories)

	cheap, err := svc.Browse(ctx, ports.BrowseInput{PriceBracket: "0-50"})
	require.NoError(t, err)
	require.Len(t, cheap.Products, 1)
	require.Equal(t, "Spoon", cheap.Products[0].Entity.Name)

	_, err = svc.Browse(ctx, ports.BrowseInput{PriceBracket: "cheap"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
