package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/config"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/repository"
	"github.com/citizen-voice/feedback-service/internal/repository/memory"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

const testPassword = "secret"

// recorder captures every dispatched event.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) ofType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	ctx         context.Context
	store       *repository.Store
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	recorder    *recorder

	auth        *AuthService
	directory   *DirectoryService
	submissions *SubmissionService
	query       *QueryService
	responses   *ResponseService

	admin    auth.Actor
	citizen  auth.Actor
	citizen2 auth.Actor
	staffG1  auth.Actor
	staffG2  auth.Actor

	g1, g2 *domain.Agency
	c1, c2 *domain.Category
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func newTestEnv(t *testing.T, transitions domain.TransitionPolicy) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(nil)
	rec := &recorder{}
	events.SubscribeAll(dispatcher, rec.handle)

	cfg := testConfig()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	revocations := auth.NewMemoryRevocationStore()

	env := &testEnv{ctx: ctx, store: store, tokens: tokens, revocations: revocations, recorder: rec}
	env.auth = NewAuthService(cfg, AuthDependencies{
		UserRepo:    store.Users,
		AgencyRepo:  store.Agencies,
		Tokens:      tokens,
		Revocations: revocations,
	})
	env.directory = NewDirectoryService(DirectoryDependencies{
		AgencyRepo:     store.Agencies,
		CategoryRepo:   store.Categories,
		SubmissionRepo: store.Submissions,
	})
	env.submissions = NewSubmissionService(SubmissionDependencies{
		SubmissionRepo: store.Submissions,
		UserRepo:       store.Users,
		CategoryRepo:   store.Categories,
		AgencyRepo:     store.Agencies,
		HistoryRepo:    store.History,
		Dispatcher:     dispatcher,
		Transitions:    transitions,
	})
	env.query = NewQueryService(QueryDependencies{
		SubmissionRepo: store.Submissions,
		ResponseRepo:   store.Responses,
		UserRepo:       store.Users,
		CategoryRepo:   store.Categories,
		AgencyRepo:     store.Agencies,
	})
	env.responses = NewResponseService(ResponseDependencies{
		ResponseRepo:   store.Responses,
		SubmissionRepo: store.Submissions,
		UserRepo:       store.Users,
		Query:          env.query,
		Dispatcher:     dispatcher,
	})

	require.NoError(t, env.auth.EnsureAdmin(ctx, "admin@example.com", testPassword))
	adminUser, err := store.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	env.admin = actorOf(adminUser)

	env.g1 = env.mustAgency(t, "Roads Authority")
	env.g2 = env.mustAgency(t, "Water Board")
	env.c1 = env.mustCategory(t, "Potholes", env.g1.ID)
	env.c2 = env.mustCategory(t, "Leaks", env.g2.ID)

	env.citizen = actorOf(env.mustRegister(t, "citizen@example.com", "0781234567"))
	env.citizen2 = actorOf(env.mustRegister(t, "neighbour@example.com", "0791234567"))
	env.staffG1 = actorOf(env.mustStaff(t, "staff1@example.com", env.g1.ID))
	env.staffG2 = actorOf(env.mustStaff(t, "staff2@example.com", env.g2.ID))
	return env
}

func actorOf(u *domain.User) auth.Actor {
	return auth.Actor{ID: u.ID, Role: u.Role, AgencyID: u.AgencyID}
}

func ptr[T any](v T) *T { return &v }

func registerInput(email, phone string) RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Citizen",
		Email:     email,
		Password:  testPassword,
		Phone:     phone,
		City:      "Kigali",
	}
}

func (e *testEnv) mustAgency(t *testing.T, name string) *domain.Agency {
	t.Helper()
	agency, err := e.directory.CreateAgency(e.ctx, e.admin, AgencyInput{Name: ptr(name)})
	require.NoError(t, err)
	return agency
}

func (e *testEnv) mustCategory(t *testing.T, name, agencyID string) *domain.Category {
	t.Helper()
	view, err := e.directory.CreateCategory(e.ctx, e.admin, name, agencyID)
	require.NoError(t, err)
	return &view.Category
}

func (e *testEnv) mustRegister(t *testing.T, email, phone string) *domain.User {
	t.Helper()
	user, err := e.auth.Register(e.ctx, registerInput(email, phone))
	require.NoError(t, err)
	return user
}

func (e *testEnv) mustStaff(t *testing.T, email, agencyID string) *domain.User {
	t.Helper()
	user, err := e.auth.CreateUser(e.ctx, e.admin, CreateUserInput{
		RegisterInput: registerInput(email, "0721234567"),
		Role:          domain.RoleAgencyStaff,
		AgencyID:      ptr(agencyID),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) mustSubmission(t *testing.T, actor auth.Actor, title, submissionType string) *domain.Submission {
	t.Helper()
	submission, err := e.submissions.Create(e.ctx, actor, CreateSubmissionInput{
		UserID:      actor.ID,
		CategoryID:  e.c1.ID,
		AgencyID:    e.g1.ID,
		Title:       title,
		Description: "Deep hole on Main Street",
		Type:        submissionType,
	})
	require.NoError(t, err)
	return submission
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.CodeOf(err), "unexpected error: %v", err)
}
