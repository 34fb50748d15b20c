// Package memstore provides an in-memory Store used by tests and by
// development setups that have no database at hand. Semantics mirror the
// document backend: embedded member arrays, denormalized team meeting
// copies, and push-style subscriptions fired synchronously on mutation.
package memstore

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// Store is a mutex-guarded map-backed Store. Safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	meetings      map[string]*entities.Meeting
	teams         map[string]*entities.Team
	tasks         map[string]*entities.Task
	notifications map[string]*entities.Notification
	profiles      map[string]*entities.UserProfile

	listenerSeq int
	listeners   map[int]func()
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		meetings:      make(map[string]*entities.Meeting),
		teams:         make(map[string]*entities.Team),
		tasks:         make(map[string]*entities.Task),
		notifications: make(map[string]*entities.Notification),
		profiles:      make(map[string]*entities.UserProfile),
		listeners:     make(map[int]func()),
	}
}

// Backend identifies this store as the in-memory engine.
func (s *Store) Backend() repositories.Backend { return repositories.BackendMemory }

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(_ context.Context) error { return nil }

// notify fires every subscription listener. Callers must not hold the lock.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// --- meetings ---

func (s *Store) SaveMeeting(_ context.Context, m *entities.Meeting) (string, error) {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	cp := cloneMeeting(m)

	s.mu.Lock()
	s.meetings[m.ID] = cp
	s.mu.Unlock()

	s.notify()
	return m.ID, nil
}

func (s *Store) GetUserMeetings(_ context.Context, userID string) ([]*entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Meeting, 0)
	for _, m := range s.meetings {
		if m.OwnerID == userID {
			out = append(out, cloneMeeting(m))
		}
	}
	sortMeetings(out)
	return out, nil
}

func (s *Store) GetMeetingByID(_ context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[meetingID]
	if !ok || m.OwnerID != ownerID {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	return cloneMeeting(m), nil
}

func (s *Store) UpdateMeeting(_ context.Context, m *entities.Meeting) error {
	m.Touch()
	cp := cloneMeeting(m)

	s.mu.Lock()
	existing, ok := s.meetings[m.ID]
	if !ok || existing.OwnerID != m.OwnerID {
		s.mu.Unlock()
		return usecaseErrors.ErrMeetingNotFound
	}
	s.meetings[m.ID] = cp
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) DeleteMeeting(_ context.Context, ownerID, meetingID string) error {
	s.mu.Lock()
	m, ok := s.meetings[meetingID]
	if !ok || m.OwnerID != ownerID {
		s.mu.Unlock()
		return usecaseErrors.ErrMeetingNotFound
	}
	delete(s.meetings, meetingID)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) GetTeamMeetings(_ context.Context, teamID string) ([]*entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Meeting, 0)
	for _, m := range s.meetings {
		if m.TeamID == teamID {
			out = append(out, cloneMeeting(m))
		}
	}
	sortMeetings(out)
	return out, nil
}

func (s *Store) ClearMeetingTeam(_ context.Context, ownerID, meetingID string) error {
	s.mu.Lock()
	m, ok := s.meetings[meetingID]
	if !ok || m.OwnerID != ownerID {
		s.mu.Unlock()
		return usecaseErrors.ErrMeetingNotFound
	}
	m.TeamID = ""
	m.Touch()
	s.mu.Unlock()

	s.notify()
	return nil
}

// --- teams ---

func (s *Store) CreateTeam(_ context.Context, t *entities.Team) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	s.mu.Lock()
	if _, exists := s.teams[t.ID]; exists {
		s.mu.Unlock()
		return "", usecaseErrors.ErrAlreadyExists
	}
	s.teams[t.ID] = cloneTeam(t)
	s.mu.Unlock()

	s.notify()
	return t.ID, nil
}

func (s *Store) GetTeamByID(_ context.Context, teamID string) (*entities.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, usecaseErrors.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (s *Store) GetUserTeams(_ context.Context, userID string) ([]*entities.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Team, 0)
	for _, t := range s.teams {
		if t.HasMember(userID) {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateTeam(_ context.Context, t *entities.Team) error {
	t.Touch()

	s.mu.Lock()
	if _, ok := s.teams[t.ID]; !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrTeamNotFound
	}
	s.teams[t.ID] = cloneTeam(t)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) DeleteTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	if _, ok := s.teams[teamID]; !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrTeamNotFound
	}
	delete(s.teams, teamID)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) AddTeamMember(_ context.Context, teamID string, m entities.TeamMember) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}

	s.mu.Lock()
	t, ok := s.teams[teamID]
	if !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrTeamNotFound
	}
	for i := range t.Members {
		if t.Members[i].UserID == m.UserID {
			s.mu.Unlock()
			return usecaseErrors.ErrAlreadyExists
		}
	}
	t.Members = append(t.Members, m)
	t.Touch()
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) UpdateTeamMember(_ context.Context, teamID string, m entities.TeamMember) error {
	s.mu.Lock()
	t, ok := s.teams[teamID]
	if !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrTeamNotFound
	}
	found := false
	for i := range t.Members {
		if t.Members[i].UserID == m.UserID {
			t.Members[i] = m
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return usecaseErrors.ErrMemberNotFound
	}
	t.Touch()
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) RemoveTeamMember(_ context.Context, teamID, userID string) error {
	s.mu.Lock()
	t, ok := s.teams[teamID]
	if !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrTeamNotFound
	}
	idx := -1
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return usecaseErrors.ErrMemberNotFound
	}
	t.Members = append(t.Members[:idx], t.Members[idx+1:]...)
	t.Touch()
	s.mu.Unlock()

	s.notify()
	return nil
}

// --- profiles ---

func (s *Store) SaveUserProfile(_ context.Context, p *entities.UserProfile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	s.mu.Lock()
	s.profiles[p.UserID] = cloneProfile(p)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) GetUserProfile(_ context.Context, userID string) (*entities.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, usecaseErrors.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (s *Store) SearchUserByEmail(_ context.Context, email string) (*entities.UserProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if strings.ToLower(strings.TrimSpace(p.Email)) == normalized {
			return cloneProfile(p), nil
		}
	}
	return nil, nil
}

// --- tasks ---

func (s *Store) SaveTask(_ context.Context, t *entities.Task) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	s.mu.Lock()
	s.tasks[t.ID] = cloneTask(t)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) GetUserTasks(_ context.Context, userID string) ([]*entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Task, 0)
	for _, t := range s.tasks {
		if t.AssigneeID == userID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetAssignedTasks(_ context.Context) ([]*entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Task, 0)
	for _, t := range s.tasks {
		if t.AssigneeID != "" {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteTasksForMeeting(_ context.Context, meetingID string) error {
	s.mu.Lock()
	for id, t := range s.tasks {
		if t.MeetingID == meetingID {
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// --- notifications ---

func (s *Store) CreateNotification(_ context.Context, n *entities.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.notifications[n.ID] = cloneNotification(n)
	s.mu.Unlock()

	s.notify()
	return n.ID, nil
}

func (s *Store) GetUserNotifications(_ context.Context, userID string) ([]*entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	n, ok := s.notifications[id]
	if !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrNotificationNotFound
	}
	n.Read = true
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.notifications[id]; !ok {
		s.mu.Unlock()
		return usecaseErrors.ErrNotificationNotFound
	}
	delete(s.notifications, id)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) DeleteTeamNotifications(_ context.Context, teamID string) error {
	s.mu.Lock()
	for id, n := range s.notifications {
		if n.TeamID() == teamID {
			delete(s.notifications, id)
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// --- subscriptions ---

// SubscribeUserMeetings delivers immediately and again after every mutation
// that changes the result set.
func (s *Store) SubscribeUserMeetings(ctx context.Context, userID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return addListener(s, ctx, func() ([]*entities.Meeting, error) {
		return s.GetUserMeetings(ctx, userID)
	}, fn)
}

func (s *Store) SubscribeTeamMeetings(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return addListener(s, ctx, func() ([]*entities.Meeting, error) {
		return s.GetTeamMeetings(ctx, teamID)
	}, fn)
}

func (s *Store) SubscribeUserNotifications(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe {
	return addListener(s, ctx, func() ([]*entities.Notification, error) {
		return s.GetUserNotifications(ctx, userID)
	}, fn)
}

func (s *Store) SubscribeUserTeams(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe {
	return addListener(s, ctx, func() ([]*entities.Team, error) {
		return s.GetUserTeams(ctx, userID)
	}, fn)
}

func addListener[T any](s *Store, ctx context.Context, fetch func() ([]T, error), fn func([]T)) repositories.Unsubscribe {
	var (
		mu        sync.Mutex
		last      []T
		delivered bool
	)
	deliver := func() {
		if ctx.Err() != nil {
			return
		}
		result, err := fetch()
		if err != nil {
			mu.Lock()
			first := !delivered
			delivered = true
			mu.Unlock()
			if first {
				fn(nil)
			}
			return
		}
		mu.Lock()
		if delivered && reflect.DeepEqual(result, last) {
			mu.Unlock()
			return
		}
		last = result
		delivered = true
		mu.Unlock()
		fn(result)
	}

	s.mu.Lock()
	s.listenerSeq++
	id := s.listenerSeq
	s.listeners[id] = deliver
	s.mu.Unlock()

	deliver()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func sortMeetings(ms []*entities.Meeting) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].CreatedAt.After(ms[j].CreatedAt) })
}

func cloneMeeting(m *entities.Meeting) *entities.Meeting {
	cp := *m
	cp.ActionItems = append([]entities.ActionItem(nil), m.ActionItems...)
	return &cp
}

func cloneTeam(t *entities.Team) *entities.Team {
	cp := *t
	cp.Members = append([]entities.TeamMember(nil), t.Members...)
	return &cp
}

func cloneTask(t *entities.Task) *entities.Task {
	cp := *t
	return &cp
}

func cloneNotification(n *entities.Notification) *entities.Notification {
	cp := *n
	if n.Data != nil {
		cp.Data = make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			cp.Data[k] = v
		}
	}
	return &cp
}

func cloneProfile(p *entities.UserProfile) *entities.UserProfile {
	cp := *p
	if p.Preferences != nil {
		cp.Preferences = make(map[string]bool, len(p.Preferences))
		for k, v := range p.Preferences {
			cp.Preferences[k] = v
		}
	}
	return &cp
}
