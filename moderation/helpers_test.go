package moderation_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils/database/infractions"
)

const (
	guildID  = "1"
	userID   = "42"
	modID    = "7"
	muteRole = "muted"
)

// fakePlatform is an in-memory guild: roles that exist and the roles each
// member holds. It records every role change.
type fakePlatform struct {
	mu        sync.Mutex
	roles     map[string]bool
	members   map[string]map[string]bool
	added     []roleCall
	removed   []roleCall
	kicked    []string
	banned    []string
	removeErr error
	addErr    error
	kickErr   error
}

type roleCall struct {
	UserID string
	RoleID string
	Reason string
	At     time.Time
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		roles:   map[string]bool{muteRole: true},
		members: map[string]map[string]bool{userID: {}},
	}
}

func (f *fakePlatform) addMember(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[id] = map[string]bool{}
}

func (f *fakePlatform) removeMember(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, id)
}

func (f *fakePlatform) deleteRole(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles, id)
}

func (f *fakePlatform) hasRole(user, role string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[user][role]
}

func (f *fakePlatform) removals() []roleCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]roleCall(nil), f.removed...)
}

func (f *fakePlatform) additions() []roleCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]roleCall(nil), f.added...)
}

func (f *fakePlatform) AddRole(_ context.Context, member *moderation.Member, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, roleCall{member.UserID, roleID, reason, time.Now()})
	if m, ok := f.members[member.UserID]; ok {
		m[roleID] = true
	}
	return nil
}

func (f *fakePlatform) RemoveRole(_ context.Context, member *moderation.Member, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, roleCall{member.UserID, roleID, reason, time.Now()})
	if m, ok := f.members[member.UserID]; ok {
		delete(m, roleID)
	}
	return nil
}

func (f *fakePlatform) ResolveMember(_ context.Context, guild, user string) (*moderation.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	held, ok := f.members[user]
	if !ok {
		return nil, moderation.ErrMemberNotFound
	}
	m := &moderation.Member{GuildID: guild, UserID: user}
	for r := range held {
		m.RoleIDs = append(m.RoleIDs, r)
	}
	return m, nil
}

func (f *fakePlatform) ResolveRole(_ context.Context, _, roleID string) (*moderation.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.roles[roleID] {
		return nil, moderation.ErrNotFound
	}
	return &moderation.Role{ID: roleID, Name: roleID}, nil
}

func (f *fakePlatform) Kick(_ context.Context, _, user, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicked = append(f.kicked, user)
	return nil
}

func (f *fakePlatform) Ban(_ context.Context, _, user, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned = append(f.banned, user)
	return nil
}

// mockRoles is a RoleManager whose calls are asserted with testify.
type mockRoles struct {
	mock.Mock
}

func (m *mockRoles) AddRole(ctx context.Context, member *moderation.Member, roleID, reason string) error {
	return m.Called(member.UserID, roleID, reason).Error(0)
}

func (m *mockRoles) RemoveRole(ctx context.Context, member *moderation.Member, roleID, reason string) error {
	return m.Called(member.UserID, roleID, reason).Error(0)
}

func (m *mockRoles) ResolveMember(ctx context.Context, guild, user string) (*moderation.Member, error) {
	args := m.Called(guild, user)
	member, _ := args.Get(0).(*moderation.Member)
	return member, args.Error(1)
}

func (m *mockRoles) ResolveRole(ctx context.Context, guild, roleID string) (*moderation.Role, error) {
	args := m.Called(guild, roleID)
	role, _ := args.Get(0).(*moderation.Role)
	return role, args.Error(1)
}

// recorder is an EventSink keeping everything it receives.
type recorder struct {
	mu     sync.Mutex
	events []moderation.Event
}

func (r *recorder) Publish(ev moderation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t moderation.EventType) []moderation.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []moderation.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// nopWaker satisfies moderation.Waker for components tested without a
// running scheduler.
type nopWaker struct{}

func (nopWaker) Notify() {}

type harness struct {
	store    *infractions.Store
	platform *fakePlatform
	svc      *moderation.Service
	events   *recorder
}

func newStore(t *testing.T) *infractions.Store {
	t.Helper()
	db, err := infractions.Init(filepath.Join(t.TempDir(), "moderation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return infractions.NewStore(db)
}

// newHarness wires a service over a fresh database with a configured mute
// role. The scheduler is not started.
func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newStore(t)
	platform := newFakePlatform()
	svc := moderation.NewService(store, platform, 50*time.Millisecond)
	events := &recorder{}
	svc.Events.Subscribe(events)
	require.NoError(t, store.SetMuteRole(context.Background(), guildID, muteRole))
	return &harness{store: store, platform: platform, svc: svc, events: events}
}

// startScheduler runs the scheduler until the test ends.
func (h *harness) startScheduler(t *testing.T) {
	t.Helper()
	h.svc.Scheduler.Start(context.Background())
	t.Cleanup(h.svc.Scheduler.Stop)
}

func (h *harness) mute(t *testing.T, user string, expiry time.Time) (*model.Infraction, *model.Mute) {
	t.Helper()
	inf, mute, err := h.svc.Muter.Mute(context.Background(), moderation.MuteRequest{
		GuildID:     guildID,
		UserID:      user,
		ModeratorID: modID,
		Reason:      "spam",
		Expiry:      expiry,
	})
	require.NoError(t, err)
	return inf, mute
}

func (h *harness) activeCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, h.store.DB().Get(&n, "SELECT COUNT(*) FROM mutes WHERE active = 1"))
	return n
}

var errPlatform = errors.New("discord: 50013 missing permissions")

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
