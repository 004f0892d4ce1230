package bid

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/apperr"
	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/services/project"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Bid{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		IsVerified: true,
		UserType:   role,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedProject(t *testing.T, db *gorm.DB, owner *models.User) *models.Project {
	t.Helper()
	p := models.Project{
		Title:   "a title long enough",
		Details: strings.Repeat("d", 30),
		Amount:  "5000",
		OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestPlaceValidation(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	owner := seedUser(t, svc.DB, "alice", models.RoleClient)
	bidder := seedUser(t, svc.DB, "bob", models.RoleFreelancer)
	p := seedProject(t, svc.DB, owner)
	ctx := context.Background()

	_, err := svc.Place(ctx, p.ID, bidder.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Place(ctx, p.ID, bidder.ID, "abcd")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Place(ctx, uuid.New(), bidder.ID, "a valid bid text")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPlaceSnapshotsUsername(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	owner := seedUser(t, svc.DB, "alice", models.RoleClient)
	bidder := seedUser(t, svc.DB, "bob", models.RoleFreelancer)
	p := seedProject(t, svc.DB, owner)
	ctx := context.Background()

	b, err := svc.Place(ctx, p.ID, bidder.ID, "I can deliver in 2 weeks")
	require.NoError(t, err)
	assert.Equal(t, "bob", b.Username)

	// The snapshot survives a later handle change.
	require.NoError(t, svc.DB.Model(bidder).Update("username", "robert").Error)

	var stored models.Bid
	require.NoError(t, svc.DB.First(&stored, "id = ?", b.ID).Error)
	assert.Equal(t, "bob", stored.Username)
}

func TestPlaceDuplicateConflict(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	owner := seedUser(t, svc.DB, "alice", models.RoleClient)
	bidder := seedUser(t, svc.DB, "bob", models.RoleFreelancer)
	other := seedUser(t, svc.DB, "carol", models.RoleFreelancer)
	p := seedProject(t, svc.DB, owner)
	ctx := context.Background()

	_, err := svc.Place(ctx, p.ID, bidder.ID, "first offer text")
	require.NoError(t, err)

	_, err = svc.Place(ctx, p.ID, bidder.ID, "second offer text")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A different bidder is still welcome.
	_, err = svc.Place(ctx, p.ID, other.ID, "another offer text")
	require.NoError(t, err)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Bid{}).Where("project_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestPlaceConcurrentSameBidder(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	owner := seedUser(t, svc.DB, "alice", models.RoleClient)
	bidder := seedUser(t, svc.DB, "bob", models.RoleFreelancer)
	p := seedProject(t, svc.DB, owner)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Place(ctx, p.ID, bidder.ID, fmt.Sprintf("concurrent offer %d", i))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Bid{}).
		Where("project_id = ? AND bidder_id = ?", p.ID, bidder.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestOwnerMayBidOnOwnProject(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	owner := seedUser(t, svc.DB, "alice", models.RoleClient)
	p := seedProject(t, svc.DB, owner)

	_, err := svc.Place(context.Background(), p.ID, owner.ID, "bidding on my own work")
	require.NoError(t, err)
}

func TestEndToEndScenario(t *testing.T) {
	db := newTestDB(t)
	projects := project.NewService(db, nil)
	bids := NewService(db, nil)
	ctx := context.Background()

	clientA := seedUser(t, db, "alice", models.RoleClient)
	freelancerB := seedUser(t, db, "bob", models.RoleFreelancer)

	p, err := projects.Create(ctx, clientA.ID, "Redesign company website", strings.Repeat("a", 30), "5000")
	require.NoError(t, err)

	_, err = bids.Place(ctx, p.ID, freelancerB.ID, "I can deliver in 2 weeks")
	require.NoError(t, err)

	got, err := projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Bids, 1)

	_, err = bids.Place(ctx, p.ID, freelancerB.ID, "Changed my mind, 1 week")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	require.NoError(t, projects.Delete(ctx, p.ID, clientA.ID))

	_, err = projects.Get(ctx, p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Bids die with the project.
	var orphaned int64
	require.NoError(t, db.Model(&models.Bid{}).Where("project_id = ?", p.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}
