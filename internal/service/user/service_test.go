package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"milsabores/internal/clock"
	"milsabores/internal/domain"
	sessionrepo "milsabores/internal/repository/session"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	byEmail      map[string]*domain.User
	byNationalID map[string]*domain.User
	byID         map[string]*domain.User
	created      *domain.User
	createErr    error
	updated      *domain.User
	deletedID    string
	deleteErr    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:      map[string]*domain.User{},
		byNationalID: map[string]*domain.User{},
		byID:         map[string]*domain.User{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &u
	return &u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByNationalID(_ context.Context, nid string) (*domain.User, error) {
	if u, ok := s.byNationalID[nid]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(_ context.Context, u domain.User) (*domain.User, error) {
	s.updated = &u
	return &u, nil
}

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

type stubSessionRepo struct {
	sessions      map[string]sessionrepo.Session
	deletedUserID string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]sessionrepo.Session{}}
}

func (s *stubSessionRepo) Create(_ context.Context, sess sessionrepo.Session) error {
	if _, ok := s.sessions[sess.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.sessions[sess.Token] = sess
	return nil
}

func (s *stubSessionRepo) Get(_ context.Context, token string) (*sessionrepo.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		return &sess, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubSessionRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.sessions[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	s.deletedUserID = userID
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

var testClock = clock.Fixed(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

func validInput() RegisterInput {
	return RegisterInput{
		NationalID: "12345678-5",
		FirstName:  "Amanda",
		LastName:   "Rojas",
		Email:      "amanda@gmail.com",
		Password:   "secret1",
		Phone:      "+56912345678",
		Birthdate:  "1990-04-12",
		Region:     "Metropolitana",
		Commune:    "Providencia",
		Address:    "Av. Siempre Viva 123",
	}
}

func TestRegisterHappyPath(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, newStubSessionRepo(), testClock)

	u, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleCustomer {
		t.Errorf("role = %s, want customer", u.Role)
	}
	if u.Age != 36 {
		t.Errorf("age = %d, want 36", u.Age)
	}
	if u.ID == "" {
		t.Error("id not assigned")
	}
	if u.PasswordHash == "secret1" || u.PasswordHash == "" {
		t.Error("password must be hashed")
	}
	if !u.HasPermission("place_orders") || !u.HasPermission("view_products") {
		t.Errorf("missing base permissions: %v", u.Permissions)
	}
	if u.HasPermission("student_discount") {
		t.Error("customer should not get student permissions")
	}
}

func TestRegisterFieldValidation(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, newStubSessionRepo(), testClock)

	cases := []struct {
		field  string
		mutate func(*RegisterInput)
	}{
		{"nationalId", func(in *RegisterInput) { in.NationalID = "12345678-6" }},
		{"firstName", func(in *RegisterInput) { in.FirstName = "" }},
		{"email", func(in *RegisterInput) { in.Email = "amanda@hotmail.com" }},
		{"password", func(in *RegisterInput) { in.Password = "abc" }},
		{"phone", func(in *RegisterInput) { in.Phone = "123" }},
		{"birthdate", func(in *RegisterInput) { in.Birthdate = "garbage" }},
		{"address", func(in *RegisterInput) { in.Address = "" }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		_, err := svc.Register(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Errorf("field %s: got %v", tc.field, err)
		}
	}
}

func TestRegisterInstitutionalEmailMakesStudent(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, newStubSessionRepo(), testClock)

	in := validInput()
	in.Email = "amanda@duoc.cl"
	u, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleStudent {
		t.Errorf("role = %s, want student", u.Role)
	}
	if !u.IsInstitutionalStudent {
		t.Error("institutional flag should be set")
	}
	if !u.HasPermission("student_discount") {
		t.Errorf("missing student permission: %v", u.Permissions)
	}
}

func TestRegisterFelices50GrantsPermanentDiscount(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, newStubSessionRepo(), testClock)

	in := validInput()
	in.DiscountCode = "FELICES50"
	u, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !u.HasPermanentDiscount {
		t.Error("FELICES50 should grant the permanent discount")
	}
	if !u.HasPermission("permanent_discount") {
		t.Errorf("missing permission: %v", u.Permissions)
	}

	in = validInput()
	in.NationalID = "11111111-1"
	in.Email = "otra@gmail.com"
	in.DiscountCode = "felices50"
	u, err = svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.HasPermanentDiscount {
		t.Error("lowercase code must not grant the discount")
	}
}

func TestRegisterDuplicates(t *testing.T) {
	repo := newStubUserRepo()
	repo.byEmail["amanda@gmail.com"] = &domain.User{ID: "u1"}
	svc := New(repo, newStubSessionRepo(), testClock)
	if _, err := svc.Register(context.Background(), validInput()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	repo = newStubUserRepo()
	repo.byNationalID["12345678-5"] = &domain.User{ID: "u1"}
	svc = New(repo, newStubSessionRepo(), testClock)
	if _, err := svc.Register(context.Background(), validInput()); !errors.Is(err, ErrNationalIDTaken) {
		t.Fatalf("want ErrNationalIDTaken, got %v", err)
	}
}

func registeredUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{ID: "u1", Email: "amanda@gmail.com", PasswordHash: string(hash)}
}

func TestLoginHappyPath(t *testing.T) {
	repo := newStubUserRepo()
	u := registeredUser(t, "secret1")
	repo.byEmail[u.Email] = u
	repo.byID[u.ID] = u
	sessions := newStubSessionRepo()
	svc := New(repo, sessions, testClock)

	got, access, refresh, err := svc.Login(context.Background(), "amanda@gmail.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != "u1" || access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected login result: %v %q %q", got, access, refresh)
	}

	// The access token resolves back to the user.
	back, err := svc.LookupByToken(context.Background(), access)
	if err != nil || back.ID != "u1" {
		t.Fatalf("lookup: %v %v", back, err)
	}
	// The refresh token is not an access token.
	if _, err := svc.LookupByToken(context.Background(), refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not grant access, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	u := registeredUser(t, "secret1")
	repo.byEmail[u.Email] = u
	svc := New(repo, newStubSessionRepo(), testClock)

	if _, _, _, err := svc.Login(context.Background(), "amanda@gmail.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ghost@gmail.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should be invalid credentials, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newStubUserRepo()
	u := registeredUser(t, "secret1")
	repo.byEmail[u.Email] = u
	repo.byID[u.ID] = u
	svc := New(repo, newStubSessionRepo(), testClock)

	_, access, _, err := svc.Login(context.Background(), u.Email, "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.Logout(context.Background(), access)
	if _, err := svc.LookupByToken(context.Background(), access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token should be revoked, got %v", err)
	}
}

func TestDeleteInvalidatesSessions(t *testing.T) {
	repo := newStubUserRepo()
	u := registeredUser(t, "secret1")
	repo.byEmail[u.Email] = u
	repo.byID[u.ID] = u
	sessions := newStubSessionRepo()
	svc := New(repo, sessions, testClock)

	_, access, _, err := svc.Login(context.Background(), u.Email, "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deletedID != "u1" || sessions.deletedUserID != "u1" {
		t.Fatalf("delete not propagated: %q %q", repo.deletedID, sessions.deletedUserID)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("sessions should be gone")
	}
	_ = access
}

func TestUpdateProfileRecomputesAge(t *testing.T) {
	repo := newStubUserRepo()
	repo.byID["u1"] = &domain.User{ID: "u1", Email: "amanda@gmail.com", Birthdate: "1990-04-12", Age: 36}
	svc := New(repo, newStubSessionRepo(), testClock)

	got, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Birthdate: "1970-04-12"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Age != 56 {
		t.Errorf("age = %d, want 56", got.Age)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newStubUserRepo()
	repo.byID["u1"] = &domain.User{ID: "u1", Email: "amanda@gmail.com"}
	svc := New(repo, newStubSessionRepo(), testClock)

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Phone: "abc"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "phone" {
		t.Fatalf("want phone validation error, got %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
