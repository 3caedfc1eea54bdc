package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	jwt "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/jwt"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	auth_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/auth"
	interfaces "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Interfaces"
)

var (
	// ErrInvalidCredentials is returned on unknown email or password
	// mismatch; the two cases are indistinguishable to the caller
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingFields is returned when a signup request is incomplete
	ErrMissingFields = errors.New("please provide name, email and password")

	// ErrInvalidRole is returned when a signup requests an unknown role
	ErrInvalidRole = errors.New("invalid role")
)

// AuthService aggregates auth operations
type AuthService struct {
	userRepo   interfaces.UserRepository
	jwtService *jwt.Service
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo interfaces.UserRepository, jwtService *jwt.Service) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup registers a new account and issues a session token for it.
// The caller-supplied role is honored as-is; an empty role defaults to
// "user". Returns interfaces.ErrDuplicateEmail when the email is taken.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*api_models.AuthData, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	if req.Role == "" {
		req.Role = auth_models.RoleUser
	}
	if !auth_models.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, auth_models.NewUser(req.Name, req.Email, string(hashedPassword), req.Role))
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	return authData(user, token), nil
}

// Login authenticates an account and issues a session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*api_models.AuthData, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Burn a hash comparison so an unknown email costs the
			// same as a wrong password.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	return authData(user, token), nil
}

// GetUserByID retrieves an account by identifier
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth_models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// dummyHash is a bcrypt hash of an unused password, compared against
// when the email is unknown to keep login timing uniform
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

func authData(user *auth_models.User, token string) *api_models.AuthData {
	return &api_models.AuthData{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
