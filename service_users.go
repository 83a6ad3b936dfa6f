package recordkit

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// USER OPERATIONS
// ============================================================================

// GetUser returns the user with role and permissions loaded.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	u := new(User)
	err := s.db.NewSelect().
		Model(u).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrUserNotFound, "no user with this id").WithResource("user", id)
		}
		return nil, dbkit.WithErr1(err, "GetUser").Err()
	}
	if err := s.loadUserRole(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail returns the user with role and permissions loaded.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := new(User)
	err := s.db.NewSelect().
		Model(u).
		Where("u.email = ?", email).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrUserNotFound, "no user with this email").WithEmail(email)
		}
		return nil, dbkit.WithErr1(err, "GetUserByEmail").Err()
	}
	if err := s.loadUserRole(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns one page of users ordered and searched per req.
// Searchable fields: name, email. Roles are loaded per returned user.
func (s *Service) ListUsers(ctx context.Context, req PageRequest) (*Page[*User], error) {
	q := s.db.NewSelect().Model((*User)(nil))
	page, err := Paginate[*User](ctx, q, qualifySort(req, "u"), []string{"u.name", "u.email"})
	if err != nil {
		return nil, err
	}
	for _, u := range page.Items {
		if err := s.loadUserRole(ctx, u); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// UserPageConfig returns the pagination policy for user listings.
func UserPageConfig() PageConfig {
	return PageConfig{
		DefaultSortField:  "created_at",
		AllowedSortFields: []string{"id", "name", "email", "created_at"},
	}
}

// CreateUser creates a user with a bcrypt-hashed password and the role named
// by roleSlug. Emails are unique.
func (s *Service) CreateUser(ctx context.Context, name, email, password, roleSlug string) (*User, error) {
	role, err := s.FindRoleBySlug(ctx, roleSlug)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to hash password")
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
	}
	result, err := s.db.NewInsert().Model(u).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateUser").Err(); err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "email already registered").WithEmail(email)
		}
		return nil, err
	}
	u.Role = role
	return u, nil
}

// SetUserRole changes the user's role. In-flight requests holding the old
// role keep it until they reload the user; there is no cross-process
// invalidation.
func (s *Service) SetUserRole(ctx context.Context, u *User, roleSlug string) error {
	role, err := s.FindRoleBySlug(ctx, roleSlug)
	if err != nil {
		return err
	}

	result, err := s.db.NewUpdate().
		Model(u).
		Set("role_id = ?", role.ID).
		Set("updated_at = now()").
		Where("id = ?", u.ID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "SetUserRole").Err(); err != nil {
		return err
	}

	u.RoleID = role.ID
	u.Role = role
	return nil
}

// Authenticate verifies email+password and returns the user with role and
// permissions loaded. Unknown email and wrong password both come back as
// ErrInvalidCredentials; callers cannot tell them apart.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, NewError(ErrInvalidCredentials, "email or password incorrect")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, NewError(ErrInvalidCredentials, "email or password incorrect")
	}
	return u, nil
}

// GetChecker loads the user and returns a permission snapshot for context
// storage.
func (s *Service) GetChecker(ctx context.Context, userID int64) (*Checker, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewChecker(u), nil
}
