package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"milsabores/internal/clock"
	"milsabores/internal/domain"
	"milsabores/internal/eligibility"
	sessionrepo "milsabores/internal/repository/session"
	userrepo "milsabores/internal/repository/user"
	"milsabores/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided session token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNationalIDTaken indicates the national id is already registered.
	ErrNationalIDTaken = errors.New("national id already registered")
)

// ValidationError reports which registration field failed validation. It is
// user-facing and recoverable; handlers surface it as a 4xx with the
// message.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

const (
	permPlaceOrders       = "place_orders"
	permViewProducts      = "view_products"
	permStudentDiscount   = "student_discount"
	permPermanentDiscount = "permanent_discount"
)

// Service handles registration, login and account administration.
type Service struct {
	repo       userrepo.Repository
	sessions   *tokenManager
	clock      clock.Clock
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, sessions sessionrepo.Repository, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		repo:       repo,
		sessions:   newTokenManager(sessions),
		clock:      clk,
		accessTTL:  48 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// RegisterInput captures the registration form fields.
type RegisterInput struct {
	NationalID   string `json:"nationalId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Birthdate    string `json:"birthdate"`
	Region       string `json:"region"`
	Commune      string `json:"commune"`
	Address      string `json:"address"`
	DiscountCode string `json:"discountCode"`
}

// Register validates the input, derives the account role from the email
// domain and creates the user. Supplying the FELICES50 code grants the
// permanent discount at registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	switch {
	case !validate.NationalID(in.NationalID):
		return nil, &ValidationError{Field: "nationalId"}
	case !validate.Text(in.FirstName, 50):
		return nil, &ValidationError{Field: "firstName"}
	case !validate.Text(in.LastName, 100):
		return nil, &ValidationError{Field: "lastName"}
	case !validate.Email(email):
		return nil, &ValidationError{Field: "email"}
	case !validate.Password(in.Password):
		return nil, &ValidationError{Field: "password"}
	case !validate.Phone(in.Phone):
		return nil, &ValidationError{Field: "phone"}
	case !validate.Date(in.Birthdate):
		return nil, &ValidationError{Field: "birthdate"}
	case !validate.Text(in.Address, 300):
		return nil, &ValidationError{Field: "address"}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByNationalID(ctx, in.NationalID); err == nil {
		return nil, ErrNationalIDTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleCustomer
	if eligibility.IsInstitutionalEmail(email) {
		role = domain.RoleStudent
	}

	age := 0
	if birth, ok := validate.ParseDate(in.Birthdate); ok {
		age = validate.Age(birth, s.clock.Now())
	}

	u := domain.User{
		ID:                     uuid.NewString(),
		NationalID:             in.NationalID,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		Email:                  email,
		PasswordHash:           string(hashed),
		Phone:                  in.Phone,
		Birthdate:              in.Birthdate,
		Age:                    age,
		Role:                   role,
		Region:                 in.Region,
		Commune:                in.Commune,
		Address:                in.Address,
		DiscountCode:           in.DiscountCode,
		IsInstitutionalStudent: role == domain.RoleStudent,
		Permissions:            defaultPermissions(role),
	}
	if in.DiscountCode == eligibility.PermanentDiscountCode {
		u.HasPermanentDiscount = true
		u.Permissions = append(u.Permissions, permPermanentDiscount)
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func defaultPermissions(role domain.Role) []string {
	base := []string{permPlaceOrders, permViewProducts}
	switch role {
	case domain.RoleStudent:
		return append(base, permStudentDiscount)
	case domain.RoleAdmin:
		return []string{domain.PermissionAll}
	default:
		return base
	}
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.sessions.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.sessions.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.sessions.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the given token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) {
	s.sessions.Revoke(ctx, token)
}

// UpdateProfileInput carries the mutable profile fields. Empty strings
// leave the stored value unchanged except for Address, which is validated
// when supplied.
type UpdateProfileInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Birthdate    string `json:"birthdate"`
	Region       string `json:"region"`
	Commune      string `json:"commune"`
	Address      string `json:"address"`
	DiscountCode string `json:"discountCode"`
}

// UpdateProfile applies the changes to the stored user and refreshes the
// cached age from the (possibly new) birthdate.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		if !validate.Text(in.FirstName, 50) {
			return nil, &ValidationError{Field: "firstName"}
		}
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		if !validate.Text(in.LastName, 100) {
			return nil, &ValidationError{Field: "lastName"}
		}
		u.LastName = in.LastName
	}
	if in.Phone != "" {
		if !validate.Phone(in.Phone) {
			return nil, &ValidationError{Field: "phone"}
		}
		u.Phone = in.Phone
	}
	if in.Birthdate != "" {
		if !validate.Date(in.Birthdate) {
			return nil, &ValidationError{Field: "birthdate"}
		}
		u.Birthdate = in.Birthdate
	}
	if in.Address != "" {
		if !validate.Text(in.Address, 300) {
			return nil, &ValidationError{Field: "address"}
		}
		u.Address = in.Address
	}
	if in.Region != "" {
		u.Region = in.Region
	}
	if in.Commune != "" {
		u.Commune = in.Commune
	}
	if in.DiscountCode != "" {
		u.DiscountCode = in.DiscountCode
		if in.DiscountCode == eligibility.PermanentDiscountCode {
			u.HasPermanentDiscount = true
			if !u.HasPermission(permPermanentDiscount) {
				u.Permissions = append(u.Permissions, permPermanentDiscount)
			}
		}
	}

	// Age and student status are caches; re-derive them from the current
	// birthdate and email.
	if birth, ok := validate.ParseDate(u.Birthdate); ok {
		u.Age = validate.Age(birth, s.clock.Now())
	}
	u.IsInstitutionalStudent = u.Role == domain.RoleStudent || eligibility.IsInstitutionalEmail(u.Email)

	return s.repo.Update(ctx, *u)
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users, for administration.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Delete removes the user and every session referencing it, so an active
// login of the deleted account is invalidated immediately.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
