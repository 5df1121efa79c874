package service

import (
	"context"
	"testing"
	"time"

	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) clerkService() *ClerkService {
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	return NewClerkService(fakeTx{}, f.clerks, f.counters, f.receipts, jwt)
}

func (f *fixture) newCounter(identifier string) *entity.Counter {
	counter := &entity.Counter{Identifier: identifier, Name: identifier}
	_ = f.counters.Create(context.Background(), counter)
	return counter
}

func TestCreateClerkAndLogin(t *testing.T) {
	f := newFixture()
	f.newCounter("main")
	svc := f.clerkService()
	ctx := context.Background()

	created, err := svc.CreateClerk(ctx, "Anna", false)
	require.NoError(t, err)
	assert.NotEmpty(t, created.AccessCode)
	assert.NotEmpty(t, created.Clerk.AccessKeyHash)

	result, err := svc.Login(ctx, created.AccessCode, "main")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, created.Clerk.ID, result.Clerk.ID)
	assert.Empty(t, result.Receipts)
}

func TestLoginWrongSecret(t *testing.T) {
	f := newFixture()
	f.newCounter("main")
	svc := f.clerkService()
	ctx := context.Background()

	created, err := svc.CreateClerk(ctx, "Anna", false)
	require.NoError(t, err)

	code := utils.FormatAccessCode(created.Clerk.Number, "00000000")
	_, err = svc.Login(ctx, code, "main")
	assert.EqualError(t, err, "No such clerk")
}

func TestLoginUnknownClerk(t *testing.T) {
	f := newFixture()
	f.newCounter("main")
	svc := f.clerkService()

	_, err := svc.Login(context.Background(), "999-12345678", "main")
	assert.EqualError(t, err, "No such clerk")
}

func TestLoginUnknownCounter(t *testing.T) {
	f := newFixture()
	svc := f.clerkService()

	_, err := svc.Login(context.Background(), "1-12345678", "nowhere")
	assert.EqualError(t, err, "Counter has gone missing")
}

func TestLoginCounterCaseInsensitive(t *testing.T) {
	f := newFixture()
	f.newCounter("Main")
	svc := f.clerkService()
	ctx := context.Background()

	created, err := svc.CreateClerk(ctx, "Anna", false)
	require.NoError(t, err)

	_, err = svc.Login(ctx, created.AccessCode, "mAiN")
	assert.NoError(t, err)
}

func TestLoginReturnsPendingReceipts(t *testing.T) {
	f := newFixture()
	f.newCounter("main")
	clerkSvc := f.clerkService()
	receiptSvc := f.receiptService()
	ctx := context.Background()

	created, err := clerkSvc.CreateClerk(ctx, "Anna", false)
	require.NoError(t, err)

	counter := f.newCounter("second")
	actor := Actor{ClerkID: created.Clerk.ID, CounterID: counter.ID}
	receipt, err := receiptSvc.Start(ctx, actor)
	require.NoError(t, err)

	result, err := clerkSvc.Login(ctx, created.AccessCode, "main")
	require.NoError(t, err)
	require.Len(t, result.Receipts, 1)
	assert.Equal(t, receipt.ID, result.Receipts[0].ID)
}

func TestCreateClerkNumberRetry(t *testing.T) {
	f := newFixture()
	svc := f.clerkService()
	ctx := context.Background()

	first, err := svc.CreateClerk(ctx, "Anna", false)
	require.NoError(t, err)
	second, err := svc.CreateClerk(ctx, "Bert", true)
	require.NoError(t, err)

	assert.NotEqual(t, first.Clerk.Number, second.Clerk.Number)
	assert.True(t, second.Clerk.Overseer)
}

func TestSessionTokenCarriesClaims(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	f := newFixture()
	counter := f.newCounter("main")
	svc := NewClerkService(fakeTx{}, f.clerks, f.counters, f.receipts, jwt)
	ctx := context.Background()

	created, err := svc.CreateClerk(ctx, "Anna", true)
	require.NoError(t, err)
	result, err := svc.Login(ctx, created.AccessCode, "main")
	require.NoError(t, err)

	claims, err := jwt.ValidateSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.Clerk.ID, claims.ClerkID)
	assert.Equal(t, counter.ID, claims.CounterID)
	assert.True(t, claims.Overseer)
}
