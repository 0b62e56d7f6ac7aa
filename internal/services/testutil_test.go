package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection keeps the shared in-memory DB alive and serializes
	// writers, sidestepping SQLITE_BUSY in concurrent tests
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}, &models.Like{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: 168 * time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Name:  "Test " + role,
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.User{
		ID:       uuid.New(),
		Name:     "Admin",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func seedImage(t *testing.T, db *gorm.DB, owner *models.User, createdAt time.Time) *models.Image {
	t.Helper()
	img := &models.Image{
		ID:           uuid.New(),
		URL:          "https://cdn.test/image-gallery/" + uuid.NewString() + ".png",
		StorageKey:   "image-gallery/" + uuid.NewString() + ".png",
		UploadedByID: owner.ID,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(img).Error)
	return img
}

func seedLike(t *testing.T, db *gorm.DB, user *models.User, img *models.Image) {
	t.Helper()
	require.NoError(t, db.Create(&models.Like{
		ID:      uuid.New(),
		UserID:  user.ID,
		ImageID: img.ID,
	}).Error)
}

// fakeStore is an in-memory ObjectStorage for tests.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// stubVerifier returns canned federated claims.
type stubVerifier struct {
	claims *GoogleClaims
	err    error
}

func (s *stubVerifier) Verify(string) (*GoogleClaims, error) {
	return s.claims, s.err
}
