package auth_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	auth "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/auth"
	jwt "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/jwt"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	auth_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/auth"
	interfaces "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Interfaces"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth_models.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*auth_models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth_models.User) (*auth_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Email]; exists {
		return nil, interfaces.ErrDuplicateEmail
	}
	user.UserID = fmt.Sprintf("user-%d", len(f.users)+1)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, interfaces.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (*auth_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func newAuthService() (*auth.AuthService, *jwt.Service) {
	jwtSvc := jwt.NewService(api_models.Config{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Issuer:        "test",
	})
	return auth.NewAuthService(newFakeUserRepo(), jwtSvc), jwtSvc
}

func TestSignupHonorsRequestedRole(t *testing.T) {
	svc, jwtSvc := newAuthService()
	ctx := context.Background()

	for _, role := range []string{"admin", "user"} {
		data, err := svc.Signup(ctx, auth.SignupRequest{
			Name:     "Alice",
			Email:    role + "@example.com",
			Password: "password123",
			Role:     role,
		})
		if err != nil {
			t.Fatalf("Signup(%s) failed: %v", role, err)
		}
		if data.Role != role {
			t.Errorf("returned role = %q, want %q", data.Role, role)
		}

		claims, err := jwtSvc.Verify(data.Token)
		if err != nil {
			t.Fatalf("token from Signup(%s) invalid: %v", role, err)
		}
		if claims.Role != role {
			t.Errorf("token role = %q, want %q", claims.Role, role)
		}
	}
}

func TestSignupDefaultsRoleToUser(t *testing.T) {
	svc, _ := newAuthService()

	data, err := svc.Signup(context.Background(), auth.SignupRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if data.Role != auth_models.RoleUser {
		t.Errorf("role = %q, want %q", data.Role, auth_models.RoleUser)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := auth.SignupRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"}
	if _, err := svc.Signup(ctx, req); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}

	_, err := svc.Signup(ctx, req)
	if !errors.Is(err, interfaces.ErrDuplicateEmail) {
		t.Errorf("second Signup = %v, want ErrDuplicateEmail", err)
	}
}

func TestSignupRejectsMissingFields(t *testing.T) {
	svc, _ := newAuthService()

	cases := []auth.SignupRequest{
		{Email: "a@example.com", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@example.com"},
	}
	for _, req := range cases {
		if _, err := svc.Signup(context.Background(), req); !errors.Is(err, auth.ErrMissingFields) {
			t.Errorf("Signup(%+v) = %v, want ErrMissingFields", req, err)
		}
	}
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Signup(context.Background(), auth.SignupRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "password123",
		Role:     "superuser",
	})
	if !errors.Is(err, auth.ErrInvalidRole) {
		t.Errorf("Signup(superuser) = %v, want ErrInvalidRole", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	signupData, err := svc.Signup(ctx, auth.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	data, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if data.ID != signupData.ID {
		t.Errorf("Login ID = %q, want %q", data.ID, signupData.ID)
	}
	if data.Role != "admin" {
		t.Errorf("Login role = %q, want admin", data.Role)
	}

	// Wrong password and unknown email are indistinguishable
	if _, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login(unknown email) = %v, want ErrInvalidCredentials", err)
	}
}
