// Package repotest implementaciones en memoria de los puertos de persistencia, para tests.
// Reproducen las reglas de la base: login único y borrado en cascada de usuarios y solicitudes.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*Users)(nil)
	_ repository.RequestRepository = (*Requests)(nil)
	_ repository.CommentRepository = (*Comments)(nil)
)

// ErrInjected error configurable con Store.FailNext.
var ErrInjected = errors.New("repotest: error inyectado")

// Store estado compartido de los tres repositorios.
type Store struct {
	mu       sync.Mutex
	users    map[int64]*entity.User
	requests map[int64]*entity.Request
	comments map[int64]*entity.Comment
	nextID   map[string]int64
	failNext error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    map[int64]*entity.User{},
		requests: map[int64]*entity.Request{},
		comments: map[int64]*entity.Comment{},
		nextID:   map[string]int64{},
	}
}

// FailNext hace que la próxima operación devuelva err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Users repositorio de usuarios sobre el almacén.
func (s *Store) Users() *Users { return &Users{s} }

// Requests repositorio de solicitudes sobre el almacén.
func (s *Store) Requests() *Requests { return &Requests{s} }

// Comments repositorio de comentarios sobre el almacén.
func (s *Store) Comments() *Comments { return &Comments{s} }

// begin toma el mutex y consume el error inyectado. Sin error, el llamante libera con s.mu.Unlock.
func (s *Store) begin() error {
	s.mu.Lock()
	err := s.failNext
	s.failNext = nil
	if err != nil {
		s.mu.Unlock()
	}
	return err
}

// assign usa id si viene fijado (datos sembrados por el test) o el siguiente de la tabla.
func (s *Store) assign(table string, id int64) int64 {
	if id == 0 {
		s.nextID[table]++
		return s.nextID[table]
	}
	if id > s.nextID[table] {
		s.nextID[table] = id
	}
	return id
}

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ── Users ─────────────────────────────────────────────────────────────────────

// Users implementa repository.UserRepository.
type Users struct{ s *Store }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *Users) List(_ context.Context, offset, limit int) ([]*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		out = append(out, cloneUser(r.s.users[id]))
	}
	return page(out, offset, limit), nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *Users) GetByLogin(_ context.Context, login string) (*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Login == login {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *Users) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Login == user.Login {
			return nil, fmt.Errorf("%w: users_login_key", domain.ErrDuplicate)
		}
	}
	u := cloneUser(user)
	u.ID = r.s.assign("users", u.ID)
	if _, taken := r.s.users[u.ID]; taken {
		return nil, fmt.Errorf("%w: users_pkey", domain.ErrDuplicate)
	}
	r.s.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *Users) Update(_ context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	next := cloneUser(u)
	patch.Apply(next)
	for oid, o := range r.s.users {
		if oid != id && o.Login == next.Login {
			return nil, fmt.Errorf("%w: users_login_key", domain.ErrDuplicate)
		}
	}
	r.s.users[id] = next
	return cloneUser(next), nil
}

// Delete reproduce las FK: borra comentarios propios y solicitudes como cliente, anula master_id.
func (r *Users) Delete(_ context.Context, id int64) (*entity.User, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.users, id)
	for rid, req := range r.s.requests {
		switch {
		case req.ClientID == id:
			r.s.deleteRequestLocked(rid)
		case req.MasterID != nil && *req.MasterID == id:
			req.MasterID = nil
		}
	}
	for cid, c := range r.s.comments {
		if c.MasterID == id {
			delete(r.s.comments, cid)
		}
	}
	return u, nil
}

// ── Requests ──────────────────────────────────────────────────────────────────

// Requests implementa repository.RequestRepository.
type Requests struct{ s *Store }

func cloneRequest(r *entity.Request) *entity.Request {
	c := *r
	if r.CompletionDate != nil {
		d := *r.CompletionDate
		c.CompletionDate = &d
	}
	if r.RepairParts != nil {
		p := *r.RepairParts
		c.RepairParts = &p
	}
	if r.MasterID != nil {
		m := *r.MasterID
		c.MasterID = &m
	}
	return &c
}

func (s *Store) deleteRequestLocked(id int64) {
	delete(s.requests, id)
	for cid, c := range s.comments {
		if c.RequestID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) filterRequests(keep func(*entity.Request) bool) []*entity.Request {
	out := make([]*entity.Request, 0)
	for _, id := range sortedKeys(s.requests) {
		if r := s.requests[id]; keep(r) {
			out = append(out, cloneRequest(r))
		}
	}
	return out
}

func (s *Store) checkRequestRefs(r *entity.Request) error {
	if _, ok := s.users[r.ClientID]; !ok {
		return fmt.Errorf("%w: referencia inexistente (requests_client_id_fkey)", domain.ErrInvalidInput)
	}
	if r.MasterID != nil {
		if _, ok := s.users[*r.MasterID]; !ok {
			return fmt.Errorf("%w: referencia inexistente (requests_master_id_fkey)", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (r *Requests) List(_ context.Context, offset, limit int) ([]*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return page(r.s.filterRequests(func(*entity.Request) bool { return true }), offset, limit), nil
}

func (r *Requests) GetByID(_ context.Context, id int64) (*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if req, ok := r.s.requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, nil
}

func (r *Requests) Create(_ context.Context, req *entity.Request) (*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if err := r.s.checkRequestRefs(req); err != nil {
		return nil, err
	}
	out := cloneRequest(req)
	out.ID = r.s.assign("requests", out.ID)
	r.s.requests[out.ID] = out
	return cloneRequest(out), nil
}

func (r *Requests) Update(_ context.Context, id int64, patch entity.RequestPatch) (*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	next := cloneRequest(cur)
	patch.Apply(next)
	if err := r.s.checkRequestRefs(next); err != nil {
		return nil, err
	}
	r.s.requests[id] = next
	return cloneRequest(next), nil
}

func (r *Requests) Delete(_ context.Context, id int64) (*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	r.s.deleteRequestLocked(id)
	return cur, nil
}

func (r *Requests) ListByClient(_ context.Context, clientID int64, status entity.RequestStatus, offset, limit int) ([]*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return page(r.s.filterRequests(func(req *entity.Request) bool {
		return req.ClientID == clientID && (status == "" || req.Status == status)
	}), offset, limit), nil
}

func (r *Requests) GetForClient(_ context.Context, id, clientID int64) (*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if req, ok := r.s.requests[id]; ok && req.ClientID == clientID {
		return cloneRequest(req), nil
	}
	return nil, nil
}

func (r *Requests) Search(_ context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	contains := func(s, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	return page(r.s.filterRequests(func(req *entity.Request) bool {
		return (f.RequestID == 0 || req.ID == f.RequestID) &&
			(f.Status == "" || req.Status == f.Status) &&
			contains(req.TechType, f.TechType) &&
			contains(req.TechModel, f.TechModel) &&
			(f.ClientID == 0 || req.ClientID == f.ClientID) &&
			(f.MasterID == 0 || (req.MasterID != nil && *req.MasterID == f.MasterID)) &&
			contains(req.ProblemDescription, f.Text)
	}), f.Offset, f.Limit), nil
}

// ── Comments ──────────────────────────────────────────────────────────────────

// Comments implementa repository.CommentRepository.
type Comments struct{ s *Store }

func cloneComment(c *entity.Comment) *entity.Comment {
	x := *c
	return &x
}

func (s *Store) checkCommentRefs(c *entity.Comment) error {
	if _, ok := s.users[c.MasterID]; !ok {
		return fmt.Errorf("%w: referencia inexistente (comments_master_id_fkey)", domain.ErrInvalidInput)
	}
	if _, ok := s.requests[c.RequestID]; !ok {
		return fmt.Errorf("%w: referencia inexistente (comments_request_id_fkey)", domain.ErrInvalidInput)
	}
	return nil
}

func (r *Comments) List(_ context.Context, offset, limit int) ([]*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]*entity.Comment, 0, len(r.s.comments))
	for _, id := range sortedKeys(r.s.comments) {
		out = append(out, cloneComment(r.s.comments[id]))
	}
	return page(out, offset, limit), nil
}

func (r *Comments) GetByID(_ context.Context, id int64) (*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if c, ok := r.s.comments[id]; ok {
		return cloneComment(c), nil
	}
	return nil, nil
}

func (r *Comments) Create(_ context.Context, c *entity.Comment) (*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if err := r.s.checkCommentRefs(c); err != nil {
		return nil, err
	}
	out := cloneComment(c)
	out.ID = r.s.assign("comments", out.ID)
	r.s.comments[out.ID] = out
	return cloneComment(out), nil
}

func (r *Comments) Update(_ context.Context, id int64, patch entity.CommentPatch) (*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	next := cloneComment(cur)
	patch.Apply(next)
	if err := r.s.checkCommentRefs(next); err != nil {
		return nil, err
	}
	r.s.comments[id] = next
	return cloneComment(next), nil
}

func (r *Comments) Delete(_ context.Context, id int64) (*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.comments, id)
	return cur, nil
}

func (r *Comments) ListByRequest(_ context.Context, requestID int64) ([]*entity.Comment, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]*entity.Comment, 0)
	for _, id := range sortedKeys(r.s.comments) {
		if c := r.s.comments[id]; c.RequestID == requestID {
			out = append(out, cloneComment(c))
		}
	}
	return out, nil
}
