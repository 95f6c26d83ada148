package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupGormStorage(t *testing.T) *GormStorage {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewGormStorage(db)
}

func exerciseStorage(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key should be absent, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "session.token", "tok-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "session.token", "tok-2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, ok, err := store.Get(ctx, "session.token")
	if err != nil || !ok || value != "tok-2" {
		t.Fatalf("unexpected get result: %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Delete(ctx, "session.token"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, "session.token"); err != nil {
		t.Fatalf("delete missing key should succeed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "session.token"); ok {
		t.Fatalf("key should be gone after delete")
	}
	if err := store.Set(ctx, "  ", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected empty key error, got %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestGormStorage(t *testing.T) {
	exerciseStorage(t, setupGormStorage(t))
}

func TestSealedStorage(t *testing.T) {
	inner := NewMemoryStorage()
	sealed, err := NewSealed(inner, "correct horse battery staple")
	if err != nil {
		t.Fatalf("new sealed failed: %v", err)
	}
	exerciseStorage(t, sealed)

	ctx := context.Background()
	if err := sealed.Set(ctx, "session.user", `{"id":"1"}`); err != nil {
		t.Fatalf("sealed set failed: %v", err)
	}
	raw, _, _ := inner.Get(ctx, "session.user")
	if strings.Contains(raw, `"id"`) || !strings.HasPrefix(raw, sealedPrefix) {
		t.Fatalf("value should be encrypted at rest, got %q", raw)
	}
	plain, ok, err := sealed.Get(ctx, "session.user")
	if err != nil || !ok || plain != `{"id":"1"}` {
		t.Fatalf("sealed roundtrip failed: %q ok=%v err=%v", plain, ok, err)
	}
}

func TestSealedStorageRejectsTampering(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStorage()
	sealed, err := NewSealed(inner, "secret")
	if err != nil {
		t.Fatalf("new sealed failed: %v", err)
	}
	if err := sealed.Set(ctx, "session.token", "tok"); err != nil {
		t.Fatalf("sealed set failed: %v", err)
	}
	raw, _, _ := inner.Get(ctx, "session.token")

	// 换到其他键下无法解密
	if err := inner.Set(ctx, "session.user", raw); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if _, _, err := sealed.Get(ctx, "session.user"); !errors.Is(err, ErrSealedCorrupt) {
		t.Fatalf("expected corrupt error for moved value, got %v", err)
	}

	other, _ := NewSealed(inner, "another secret")
	if _, _, err := other.Get(ctx, "session.token"); !errors.Is(err, ErrSealedCorrupt) {
		t.Fatalf("expected corrupt error for wrong secret, got %v", err)
	}

	if err := inner.Set(ctx, "session.token", "plain"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, _, err := sealed.Get(ctx, "session.token"); !errors.Is(err, ErrSealedCorrupt) {
		t.Fatalf("expected corrupt error for plaintext, got %v", err)
	}

	if _, err := NewSealed(inner, " "); !errors.Is(err, ErrSecretEmpty) {
		t.Fatalf("expected secret empty error, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	store, closer, err := Open(config.StorageConfig{Driver: "memory", Secret: "s"}, nil, "")
	if err != nil {
		t.Fatalf("open memory failed: %v", err)
	}
	defer closer()
	if _, ok := store.(*Sealed); !ok {
		t.Fatalf("secret should enable sealed storage, got %T", store)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	store, closeDB, err := Open(config.StorageConfig{Driver: "sqlite", DSN: dsn}, nil, "")
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if _, ok := store.(*GormStorage); !ok {
		t.Fatalf("expected gorm storage, got %T", store)
	}
	if err := closeDB(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, _, err := Open(config.StorageConfig{Driver: "redis"}, nil, ""); !errors.Is(err, ErrRedisNotEnabled) {
		t.Fatalf("expected redis not enabled, got %v", err)
	}
	if _, _, err := Open(config.StorageConfig{Driver: "etcd"}, nil, ""); !errors.Is(err, ErrDriverInvalid) {
		t.Fatalf("expected invalid driver, got %v", err)
	}
}
