//go:build integration

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/mining-consultancy/internal/migrations"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("mining"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, dsn)
	require.NoError(t, err)

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, filepath.Join(root, "migrations")))

	t.Cleanup(func() {
		_ = s.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return s
}

func newTestAccount(email string, tier models.Tier, end time.Time) *models.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$12$hash",
		Name:         "Test Miner",
		Role:         models.RoleUser,
		Subscription: models.Subscription{
			Tier:      tier,
			Status:    models.StatusActive,
			StartDate: now,
			EndDate:   end,
		},
		CreatedAt: now,
	}
}

func TestStorage_Accounts(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	end := time.Now().UTC().AddDate(0, 0, 30).Truncate(time.Microsecond)
	acc := newTestAccount("Miner@Example.com", models.TierFree, end)
	require.NoError(t, s.CreateAccount(ctx, acc))

	t.Run("duplicate email", func(t *testing.T) {
		dup := newTestAccount("miner@example.com", models.TierFree, end)
		err := s.CreateAccount(ctx, dup)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetAccount(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "miner@example.com", got.Email)
		assert.Equal(t, models.TierFree, got.Subscription.Tier)
		assert.True(t, end.Equal(got.Subscription.EndDate))
	})

	t.Run("get by email ignores case", func(t *testing.T) {
		got, err := s.GetAccountByEmail(ctx, "MINER@example.com")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := s.GetAccount(ctx, uuid.NewString())
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetAccount(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("status update", func(t *testing.T) {
		require.NoError(t, s.UpdateSubscriptionStatus(ctx, acc.ID, models.StatusExpired))
		got, err := s.GetAccount(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusExpired, got.Subscription.Status)

		err = s.UpdateSubscriptionStatus(ctx, uuid.NewString(), models.StatusExpired)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStorage_RecordPayment(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	acc := newTestAccount("payer@example.com", models.TierFree, time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, s.CreateAccount(ctx, acc))

	start := time.Now().UTC().Truncate(time.Microsecond)
	payment := models.Payment{
		ID:        uuid.NewString(),
		AccountID: acc.ID,
		Plan:      models.TierPremium,
		Amount:    2999,
		OrderID:   "order_1",
		PaymentID: "pay_1",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 30),
		CreatedAt: start,
	}
	require.NoError(t, s.RecordPayment(ctx, payment))

	got, err := s.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, got.Subscription.Tier)
	assert.Equal(t, models.StatusActive, got.Subscription.Status)
	assert.True(t, payment.EndDate.Equal(got.Subscription.EndDate))

	payment.ID = uuid.NewString()
	assert.ErrorIs(t, s.RecordPayment(ctx, payment), storage.ErrAlreadyExists)

	payments, err := s.ListPayments(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "pay_1", payments[0].PaymentID)
}

func TestStorage_Ebooks(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	reader := newTestAccount("reader@example.com", models.TierBasic, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, s.CreateAccount(ctx, reader))

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, level := range []models.Tier{models.TierFree, models.TierBasic, models.TierPremium} {
		require.NoError(t, s.CreateEbook(ctx, &models.Ebook{
			ID:          uuid.NewString(),
			Title:       string(level) + " handbook",
			Description: "desc",
			Author:      "author",
			Category:    models.EbookCategorySafetyGuidelines,
			FileURL:     "https://files.example.com/" + string(level) + ".pdf",
			AccessLevel: level,
			FileFormat:  "pdf",
			Tags:        []string{"safety", string(level)},
			PublishDate: base.Add(time.Duration(i) * time.Hour),
			LastUpdated: base,
		}))
	}

	list, err := s.ListEbooks(ctx, models.LevelsFor(models.TierBasic))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.TierBasic, list[0].AccessLevel, "newest first")
	assert.Equal(t, []string{"safety", "basic"}, list[0].Tags)

	id := list[0].ID
	require.NoError(t, s.RecordDownload(ctx, id, reader.ID))
	require.NoError(t, s.UpsertRating(ctx, id, models.Rating{AccountID: reader.ID, Rating: 2, Date: base}))
	require.NoError(t, s.UpsertRating(ctx, id, models.Rating{AccountID: reader.ID, Rating: 5, Review: "great", Date: base}))

	book, err := s.GetEbook(ctx, id)
	require.NoError(t, err)
	require.Len(t, book.Ratings, 1)
	assert.Equal(t, 5, book.Ratings[0].Rating)
	assert.Equal(t, "great", book.Ratings[0].Review)

	_, err = s.GetEbook(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_MiningPlans(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	owner := newTestAccount("owner@example.com", models.TierBasic, time.Now().UTC().AddDate(0, 0, 30))
	other := newTestAccount("other@example.com", models.TierBasic, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, s.CreateAccount(ctx, owner))
	require.NoError(t, s.CreateAccount(ctx, other))

	now := time.Now().UTC().Truncate(time.Microsecond)
	plan := &models.MiningPlan{
		ID:                  uuid.NewString(),
		AccountID:           owner.ID,
		Title:               "Bauxite block 7",
		Description:         "Phase one",
		Location:            "Odisha",
		MineType:            "opencast",
		MineralType:         "bauxite",
		EstimatedProduction: models.Production{Value: 1200, Unit: "tons"},
		Status:              models.PlanStatusDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	require.NoError(t, s.CreateMiningPlan(ctx, plan))

	_, err := s.GetMiningPlan(ctx, plan.ID, other.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	plan.Status = models.PlanStatusSubmitted
	require.NoError(t, s.UpdateMiningPlan(ctx, plan))

	got, err := s.GetMiningPlan(ctx, plan.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusSubmitted, got.Status)
	assert.True(t, got.Timeline.StartDate.IsZero())

	list, err := s.ListMiningPlans(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, s.DeleteMiningPlan(ctx, plan.ID, other.ID), storage.ErrNotFound)
	require.NoError(t, s.DeleteMiningPlan(ctx, plan.ID, owner.ID))
}

func TestStorage_LegalAdvice(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	owner := newTestAccount("client@example.com", models.TierBasic, time.Now().UTC().AddDate(0, 0, 30))
	admin := newTestAccount("lawyer@example.com", models.TierPremium, time.Now().UTC().AddDate(0, 0, 30))
	admin.Role = models.RoleAdmin
	admin.Name = "Legal Desk"
	require.NoError(t, s.CreateAccount(ctx, owner))
	require.NoError(t, s.CreateAccount(ctx, admin))

	now := time.Now().UTC().Truncate(time.Microsecond)
	advice := &models.LegalAdvice{
		ID:          uuid.NewString(),
		AccountID:   owner.ID,
		Title:       "Lease renewal",
		Description: "Mining lease expires next year",
		Category:    "licensing",
		Priority:    models.AdvicePriorityMedium,
		Status:      models.AdviceStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateLegalAdvice(ctx, advice))

	require.NoError(t, s.AddAdviceResponse(ctx, advice.ID, models.AdviceResponse{
		ResponderID: admin.ID,
		Content:     "Please file form B",
		CreatedAt:   now.Add(time.Minute),
	}, models.AdviceStatusInProgress))

	got, err := s.GetLegalAdvice(ctx, advice.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdviceStatusInProgress, got.Status)
	assert.Equal(t, admin.ID, got.AssignedTo)
	require.Len(t, got.Responses, 1)
	assert.Equal(t, "Legal Desk", got.Responses[0].ResponderName)

	_, err = s.GetLegalAdvice(ctx, advice.ID, admin.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetLegalAdvice(ctx, advice.ID, "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteLegalAdvice(ctx, advice.ID, owner.ID))
	list, err := s.ListLegalAdvice(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
