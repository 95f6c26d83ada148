package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/storage"
)

var errDiskFull = errors.New("disk full")

type faultyStorage struct {
	*storage.MemoryStorage
	mu         sync.Mutex
	failSet    map[string]bool
	failDelete map[string]bool
	failGet    map[string]bool
}

func newFaultyStorage() *faultyStorage {
	return &faultyStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		failSet:       map[string]bool{},
		failDelete:    map[string]bool{},
		failGet:       map[string]bool{},
	}
}

func (f *faultyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet[key]
	f.mu.Unlock()
	if fail {
		return "", false, errDiskFull
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *faultyStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failSet[key]
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *faultyStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failDelete[key]
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryStorage.Delete(ctx, key)
}

func sampleUser() models.User {
	return models.User{
		ID:       "42",
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Phone:    "+44 20 0000 0000",
		Photo:    "https://cdn.example.com/ada.png",
	}
}

func TestLoginThenLogoutRestoresUnauthenticated(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	store := NewStore(backend)
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate failed: %v", err)
	}
	before := store.Snapshot()

	if err := store.Login(ctx, sampleUser(), "tok-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !store.IsAuthenticated() || store.Token() != "tok-1" || store.UserID() != "42" {
		t.Fatalf("unexpected state after login: %+v token=%s", store.Snapshot(), store.Token())
	}
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	after := store.Snapshot()
	if after.State != before.State || after.User != nil || after.Image != before.Image || store.Token() != "" {
		t.Fatalf("logout should restore pre-login state, before=%+v after=%+v", before, after)
	}
	if backend.Len() != 0 {
		t.Fatalf("expected all persisted keys cleared, got %d", backend.Len())
	}
}

func TestLoginPersistFailureKeepsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	backend := newFaultyStorage()
	backend.failSet[constants.StorageKeyToken] = true
	store := NewStore(backend)
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate failed: %v", err)
	}

	err := store.Login(ctx, sampleUser(), "tok-1")
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	var perr *apperr.PersistenceError
	if !errors.As(err, &perr) || perr.Key != constants.StorageKeyToken {
		t.Fatalf("expected failing key in error, got %v", err)
	}
	if store.IsAuthenticated() || store.CurrentUser() != nil {
		t.Fatalf("login must not commit on persist failure")
	}
	if _, ok, _ := backend.MemoryStorage.Get(ctx, constants.StorageKeyUser); ok {
		t.Fatalf("partial user write should be rolled back")
	}
}

func TestLoginPersistFailureRestoresPreviousSession(t *testing.T) {
	ctx := context.Background()
	backend := newFaultyStorage()
	store := NewStore(backend)
	if err := store.Login(ctx, sampleUser(), "tok-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	backend.failSet[constants.StorageKeyUserID] = true
	other := models.User{ID: "7", Name: "Grace"}
	if err := store.Login(ctx, other, "tok-2"); err == nil {
		t.Fatalf("expected login failure")
	}
	if store.UserID() != "42" || store.Token() != "tok-1" {
		t.Fatalf("in-memory session should be unchanged, got id=%s token=%s", store.UserID(), store.Token())
	}
	token, _, _ := backend.MemoryStorage.Get(ctx, constants.StorageKeyToken)
	if token != "tok-1" {
		t.Fatalf("persisted token should be restored, got %q", token)
	}
}

func TestUpdateProfileChangesOnlyEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStorage())
	user := sampleUser()
	if err := store.Login(ctx, user, "tok-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	email := "new@x.com"
	updated, err := store.UpdateProfile(ctx, models.ProfilePatch{Email: &email})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	want := user
	want.Email = email
	if updated != want || *store.CurrentUser() != want {
		t.Fatalf("unexpected user after update: %+v", updated)
	}
	if store.Token() != "tok-1" {
		t.Fatalf("token should be preserved, got %s", store.Token())
	}

	// 重新加载后依旧一致
	reloaded := NewStore(store.storage)
	if err := reloaded.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate failed: %v", err)
	}
	if *reloaded.CurrentUser() != want {
		t.Fatalf("persisted user mismatch: %+v", reloaded.CurrentUser())
	}
}

func TestUpdateProfileRequiresAuthentication(t *testing.T) {
	store := NewStore(storage.NewMemoryStorage())
	name := "x"
	_, err := store.UpdateProfile(context.Background(), models.ProfilePatch{Name: &name})
	if !errors.Is(err, ErrNotAuthenticated) || !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
}

func TestUpdateProfilePersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	backend := newFaultyStorage()
	store := NewStore(backend)
	if err := store.Login(ctx, sampleUser(), "tok-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	backend.failSet[constants.StorageKeyUser] = true
	name := "Changed"
	if _, err := store.UpdateProfile(ctx, models.ProfilePatch{Name: &name}); !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if store.CurrentUser().Name != "Ada Lovelace" {
		t.Fatalf("name should be unchanged, got %s", store.CurrentUser().Name)
	}
}

func TestLogoutFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	backend := newFaultyStorage()
	store := NewStore(backend)
	if err := store.Login(ctx, sampleUser(), "tok-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	backend.failDelete[constants.StorageKeyToken] = true

	if err := store.Logout(ctx); !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("session should stay authenticated when clear fails")
	}
}

func TestHydrateStates(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		values map[string]string
		want   State
	}{
		{name: "empty", values: nil, want: StateUnauthenticated},
		{name: "user only", values: map[string]string{constants.StorageKeyUser: `{"id":"1"}`}, want: StateUnauthenticated},
		{name: "token only", values: map[string]string{constants.StorageKeyToken: "tok"}, want: StateUnauthenticated},
		{name: "corrupt user", values: map[string]string{constants.StorageKeyUser: "{", constants.StorageKeyToken: "tok"}, want: StateUnauthenticated},
		{name: "user without id", values: map[string]string{constants.StorageKeyUser: `{}`, constants.StorageKeyToken: "tok"}, want: StateUnauthenticated},
		{name: "blank id", values: map[string]string{constants.StorageKeyUser: `{"id":"  ","name":"A"}`, constants.StorageKeyToken: "tok"}, want: StateUnauthenticated},
		{name: "both", values: map[string]string{constants.StorageKeyUser: `{"id":1,"name":"A"}`, constants.StorageKeyToken: "tok"}, want: StateAuthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := storage.NewMemoryStorage()
			for k, v := range tc.values {
				if err := backend.Set(ctx, k, v); err != nil {
					t.Fatalf("seed failed: %v", err)
				}
			}
			store := NewStore(backend)
			if store.State() != StateHydrating {
				t.Fatalf("initial state should be hydrating, got %s", store.State())
			}
			if err := store.Hydrate(ctx); err != nil {
				t.Fatalf("hydrate failed: %v", err)
			}
			if store.State() != tc.want {
				t.Fatalf("want %s, got %s", tc.want, store.State())
			}
			if tc.want == StateUnauthenticated && (!store.UserID().IsZero() || store.Token() != "") {
				t.Fatalf("unauthenticated session should not expose identity, got %q %q", store.UserID(), store.Token())
			}
		})
	}
}

func TestHydrateReadFailure(t *testing.T) {
	backend := newFaultyStorage()
	backend.failGet[constants.StorageKeyUser] = true
	store := NewStore(backend)
	if err := store.Hydrate(context.Background()); !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if store.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", store.State())
	}
}

func TestWaitHydrated(t *testing.T) {
	store := NewStore(storage.NewMemoryStorage())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := store.WaitHydrated(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded before hydrate, got %v", err)
	}

	go func() {
		_ = store.Hydrate(context.Background())
	}()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := store.WaitHydrated(waitCtx); err != nil {
		t.Fatalf("wait hydrated failed: %v", err)
	}
	if store.State() == StateHydrating {
		t.Fatalf("state should be resolved after hydration")
	}
}

func TestUserImageFallback(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStorage())
	if store.UserImage() != constants.DefaultUserImage {
		t.Fatalf("expected default image, got %s", store.UserImage())
	}
	user := sampleUser()
	user.Photo = ""
	if err := store.Login(ctx, user, "tok"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if store.UserImage() != constants.DefaultUserImage {
		t.Fatalf("expected default image for empty photo, got %s", store.UserImage())
	}
}

func TestConcurrentMutationsStayConsistent(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	store := NewStore(backend)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%3 == 0 {
				_ = store.Logout(ctx)
				return
			}
			_ = store.Login(ctx, models.User{ID: models.ID("u" + string(rune('a'+i)))}, "tok")
		}(i)
	}
	wg.Wait()

	persistedID, ok, err := backend.Get(ctx, constants.StorageKeyUserID)
	if err != nil {
		t.Fatalf("read user id failed: %v", err)
	}
	if store.IsAuthenticated() != ok {
		t.Fatalf("memory and storage disagree: authenticated=%v persisted=%v", store.IsAuthenticated(), ok)
	}
	if ok && persistedID != store.UserID().String() {
		t.Fatalf("persisted id %s != memory id %s", persistedID, store.UserID())
	}
}
