package services

import (
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggleAlternates(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)

	user := seedUser(t, db, models.RoleUser)
	img := seedImage(t, db, user, time.Now())

	// odd toggle counts leave a like, even counts leave none
	for i := 0; i < 6; i++ {
		liked, err := svc.Toggle(user.ID, img.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, liked, "toggle %d", i+1)

		var count int64
		require.NoError(t, db.Model(&models.Like{}).Where("image_id = ?", img.ID).Count(&count).Error)
		if i%2 == 0 {
			assert.EqualValues(t, 1, count)
		} else {
			assert.EqualValues(t, 0, count)
		}
	}
}

func TestTogglePerUserIndependence(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)

	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	img := seedImage(t, db, owner, time.Now())

	liked, err := svc.Toggle(owner.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.Toggle(other.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("image_id = ?", img.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// one user unliking leaves the other's like alone
	liked, err = svc.Toggle(owner.ID, img.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.Model(&models.Like{}).Where("image_id = ?", img.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestToggleUnknownImage(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)

	user := seedUser(t, db, models.RoleUser)

	_, err := svc.Toggle(user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDuplicateLikeRejectedByStore(t *testing.T) {
	db := newTestDB(t)

	user := seedUser(t, db, models.RoleUser)
	img := seedImage(t, db, user, time.Now())

	seedLike(t, db, user, img)

	err := db.Create(&models.Like{
		ID:      uuid.New(),
		UserID:  user.ID,
		ImageID: img.ID,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConcurrentTogglesKeepAtMostOneLike(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)

	user := seedUser(t, db, models.RoleUser)
	img := seedImage(t, db, user, time.Now())

	const workers = 8
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Toggle(user.ID, img.ID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	var count int64
	require.NoError(t, db.Model(&models.Like{}).
		Where("user_id = ? AND image_id = ?", user.ID, img.ID).
		Count(&count).Error)
	assert.LessOrEqual(t, count, int64(1))
}
