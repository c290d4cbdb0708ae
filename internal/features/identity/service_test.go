package identity

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"go-portal/internal/common/apperr"
	"go-portal/pkg/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type fakeIdentityRepo struct {
	users     map[string]*User // keyed by email
	agencies  map[string]*Agency
	nextID    int
	createErr error
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		users:    make(map[string]*User),
		agencies: make(map[string]*Agency),
	}
}

func (f *fakeIdentityRepo) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u := &User{ID: fmt.Sprintf("user-%d", f.nextID), Name: name, Email: email, PasswordHash: passwordHash}
	f.users[email] = u
	return u, nil
}

func (f *fakeIdentityRepo) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeIdentityRepo) FindUserByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeIdentityRepo) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := f.FindUserByID(ctx, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeIdentityRepo) CreateAgency(ctx context.Context, userID, name string) (*Agency, error) {
	a := &Agency{ID: "agency-" + userID, UserID: userID, Name: name}
	f.agencies[userID] = a
	return a, nil
}

func (f *fakeIdentityRepo) FindAgencyByUser(ctx context.Context, userID string) (*Agency, error) {
	a, ok := f.agencies[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeIdentityRepo) EnsureSchema(ctx context.Context) error { return nil }

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return sql.ErrNoRows
	}
	return nil
}

func newIdentityService(repo IdentityRepository) IdentityService {
	utils.SetSecret("test-secret")
	return &IdentityServiceImpl{Repo: repo, Hasher: plainHasher{}, Logger: zap.NewNop()}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newIdentityService(repo)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "Jordan", "jordan@example.com", "longenough", "Jordan Studio")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Error("register should issue a token")
	}
	if u.PasswordHash == "longenough" {
		t.Error("password stored unhashed")
	}
	if repo.agencies[u.ID] == nil || repo.agencies[u.ID].Name != "Jordan Studio" {
		t.Error("agency not created at registration")
	}

	loginToken, err := svc.Login(ctx, "jordan@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := utils.ValidateToken(loginToken)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("token user = %q, want %q", claims.UserID, u.ID)
	}
}

func TestRegisterDefaultsAgencyName(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newIdentityService(repo)

	u, _, err := svc.Register(context.Background(), "Sam", "sam@example.com", "longenough", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.agencies[u.ID].Name != "Sam's Agency" {
		t.Errorf("agency name = %q", repo.agencies[u.ID].Name)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newIdentityService(newFakeIdentityRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		uname    string
		email    string
		password string
	}{
		{"missing name", "", "a@example.com", "longenough"},
		{"bad email", "A", "not-an-email", "longenough"},
		{"short password", "A", "a@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.uname, tt.email, tt.password, "")
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := newIdentityService(repo)

	_, _, err := svc.Register(context.Background(), "Jordan", "jordan@example.com", "longenough", "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate email: got %v, want conflict", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newIdentityService(repo)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Jordan", "jordan@example.com", "longenough", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown email and wrong password produce the same error kind, so a
	// caller cannot tell which accounts exist.
	if _, err := svc.Login(ctx, "nobody@example.com", "longenough"); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := svc.Login(ctx, "jordan@example.com", "wrongpass"); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("wrong password: got %v", err)
	}
}

func TestCurrentUserWithoutAgency(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newIdentityService(repo)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "Jordan", "jordan@example.com", "longenough", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	delete(repo.agencies, u.ID)

	got, agency, err := svc.CurrentUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user = %+v", got)
	}
	if agency != nil {
		t.Error("missing agency should come back nil, not an error")
	}

	if _, _, err := svc.CurrentUser(ctx, "ghost"); apperr.KindOf(err) != apperr.KindInvalidUser {
		t.Errorf("unknown session user: got %v", err)
	}
}
