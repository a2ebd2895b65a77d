package service

import (
	"context"
	"testing"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

func newUserService(env *testEnv) UserService {
	return NewUserService(repository.NewUserRepository(env.db), repository.NewBarangayRepository(env.db))
}

func TestBootstrapOnlyOnEmptyTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)

	// The env helper already seeded an admin, so bootstrap must refuse.
	if _, err := users.Bootstrap(ctx, CreateUserRequest{
		Email:    "root@province.gov.ph",
		Name:     "Root",
		Password: "secret123",
		Role:     model.RoleAdmin,
	}); err == nil {
		t.Fatal("bootstrap succeeded on a non-empty user table")
	}

	if err := env.db.Unscoped().Where("1 = 1").Delete(&model.User{}).Error; err != nil {
		t.Fatalf("failed to clear users: %v", err)
	}

	created, err := users.Bootstrap(ctx, CreateUserRequest{
		Email:    "root@province.gov.ph",
		Name:     "Root",
		Password: "secret123",
		Role:     model.RoleAdmin, // forced to superadmin regardless
	})
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if created.Role != model.RoleSuperadmin {
		t.Errorf("bootstrap role = %q, want superadmin", created.Role)
	}
}

func TestCreateUserRequiresBarangayForAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)

	if _, err := users.CreateUser(ctx, CreateUserRequest{
		Email:    "clerk2@sanisidro.gov.ph",
		Name:     "Second Clerk",
		Password: "secret123",
		Role:     model.RoleAdmin,
	}); err == nil {
		t.Error("admin account created without a barangay")
	}

	if _, err := users.CreateUser(ctx, CreateUserRequest{
		Email:    "clerk2@sanisidro.gov.ph",
		Name:     "Second Clerk",
		Password: "secret123",
		Role:     "viewer",
	}); err == nil {
		t.Error("account created with an unknown role")
	}

	created, err := users.CreateUser(ctx, CreateUserRequest{
		Email:      "clerk2@sanisidro.gov.ph",
		Name:       "Second Clerk",
		Password:   "secret123",
		Role:       model.RoleAdmin,
		BarangayID: env.barangay.ID.String(),
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.BarangayID != env.barangay.ID.String() {
		t.Errorf("barangay id = %q, want %q", created.BarangayID, env.barangay.ID)
	}
}

func TestLoginEmbedsActorClaims(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)

	if _, err := users.CreateUser(ctx, CreateUserRequest{
		Email:      "clerk2@sanisidro.gov.ph",
		Name:       "Second Clerk",
		Password:   "secret123",
		Role:       model.RoleAdmin,
		BarangayID: env.barangay.ID.String(),
	}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := users.Login(ctx, LoginUserRequest{Email: "clerk2@sanisidro.gov.ph", Password: "wrong"}); err == nil {
		t.Error("login succeeded with a wrong password")
	}

	tokens, err := users.Login(ctx, LoginUserRequest{Email: "clerk2@sanisidro.gov.ph", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokens.Token == "" || tokens.RefreshToken == "" {
		t.Fatal("login returned empty tokens")
	}

	parsed, err := jwt.Parse(tokens.Token, func(tk *jwt.Token) (interface{}, error) {
		return middleware.GetJWTSecret(), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["role"] != model.RoleAdmin {
		t.Errorf("role claim = %v, want admin", claims["role"])
	}
	if claims["barangay_id"] != env.barangay.ID.String() {
		t.Errorf("barangay_id claim = %v, want %q", claims["barangay_id"], env.barangay.ID)
	}
	if claims["email"] != "clerk2@sanisidro.gov.ph" {
		t.Errorf("email claim = %v", claims["email"])
	}

	// The refresh token round-trips into a fresh access token.
	refreshed, err := users.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.Token == "" {
		t.Error("refresh returned an empty access token")
	}

	// Logout revokes the refresh token.
	if err := users.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := users.Refresh(ctx, tokens.RefreshToken); err == nil {
		t.Error("refresh succeeded after logout")
	}
}
