package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/validation"
)

// UserError carries a message that is shown to the buyer as is.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidCredentials   = &UserError{Message: "E-mail ou senha inválidos."}
	ErrCPFTaken             = &UserError{Message: "CPF já cadastrado."}
	ErrRegistrationRejected = &UserError{Message: "E-mail já cadastrado ou dados inválidos."}
	ErrPhoneUpdateFailed    = &UserError{Message: "Erro ao atualizar telefone."}
)

const uniqueCPFViolation = "UNIQUE constraint failed: users.cpf"

// API is the slice of the remote GraphQL API that identity needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.AuthPayload, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthPayload, error)
	Me(ctx context.Context) (*models.APIUser, error)
	UpdatePhone(ctx context.Context, in models.PhoneInput) (*models.APIUser, error)
	MyTickets(ctx context.Context) ([]models.APITicket, error)
}

// Store holds the identity of one storefront session: token, user and wallet.
type Store struct {
	id     string
	api    API
	tokens TokenStore
	logger *logger.Logger

	mu      sync.RWMutex
	token   string
	user    *models.User
	tickets []models.WalletTicket
}

func NewStore(id string, api API, tokens TokenStore, log *logger.Logger) *Store {
	return &Store{id: id, api: api, tokens: tokens, logger: log, tickets: []models.WalletTicket{}}
}

func (s *Store) ID() string {
	return s.id
}

func (s *Store) withToken(ctx context.Context) context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return auth.WithToken(ctx, s.token)
}

// Init restores a persisted token and loads the user. A token the API no longer
// accepts is cleared. It returns whether the session ended up authenticated.
func (s *Store) Init(ctx context.Context) bool {
	token, err := s.tokens.Get(ctx, s.id)
	if err != nil {
		s.logger.Warn("SESSION", fmt.Sprintf("Token lookup for %s failed: %v", s.id, err))
		return false
	}
	if token == "" {
		return false
	}

	me, err := s.api.Me(auth.WithToken(ctx, token))
	if err != nil || me == nil {
		s.logger.Debug("SESSION", fmt.Sprintf("Persisted token for %s rejected, clearing", s.id))
		_ = s.tokens.Delete(ctx, s.id)
		return false
	}

	user := me.ToUser()
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.RefreshTickets(ctx)
	return true
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	payload, err := s.api.Login(ctx, email, password)
	if err != nil || payload == nil || payload.Token == "" {
		if err != nil {
			s.logger.Debug("SESSION", fmt.Sprintf("Login failed: %v", err))
		}
		return ErrInvalidCredentials
	}

	if err := s.authenticate(ctx, payload); err != nil {
		return err
	}
	s.logger.Info("SESSION", fmt.Sprintf("User %s logged in", payload.User.ID))
	return nil
}

// Register validates CPF and phone locally before calling the API.
func (s *Store) Register(ctx context.Context, in models.RegisterInput) error {
	in.CPF = validation.SanitizeCPF(in.CPF)
	if err := validation.ValidateCPF(in.CPF); err != nil {
		return err
	}
	if err := validation.ValidatePhone(in.PhoneCountryCode, in.PhoneAreaCode, in.PhoneNumber); err != nil {
		return err
	}
	in.PhoneNumber = validation.SanitizePhone(in.PhoneNumber)

	payload, err := s.api.Register(ctx, in)
	if err != nil {
		if strings.Contains(err.Error(), uniqueCPFViolation) {
			return ErrCPFTaken
		}
		s.logger.Debug("SESSION", fmt.Sprintf("Register failed: %v", err))
		return ErrRegistrationRejected
	}
	if payload == nil || payload.Token == "" {
		return ErrRegistrationRejected
	}

	if err := s.authenticate(ctx, payload); err != nil {
		return err
	}
	s.logger.Info("SESSION", fmt.Sprintf("User %s registered", payload.User.ID))
	return nil
}

func (s *Store) authenticate(ctx context.Context, payload *models.AuthPayload) error {
	if err := s.tokens.Set(ctx, s.id, payload.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	user := payload.User.ToUser()
	s.mu.Lock()
	s.token = payload.Token
	s.user = &user
	s.mu.Unlock()

	s.RefreshTickets(ctx)
	return nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.tickets = []models.WalletTicket{}
	s.mu.Unlock()

	if err := s.tokens.Delete(ctx, s.id); err != nil {
		s.logger.Warn("SESSION", fmt.Sprintf("Failed to delete token for %s: %v", s.id, err))
	}
}

func (s *Store) UpdatePhone(ctx context.Context, in models.PhoneInput) error {
	if err := validation.ValidatePhone(in.PhoneCountryCode, in.PhoneAreaCode, in.PhoneNumber); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	in.PhoneNumber = validation.SanitizePhone(in.PhoneNumber)

	updated, err := s.api.UpdatePhone(s.withToken(ctx), in)
	if err != nil || updated == nil {
		if err != nil {
			s.logger.Debug("SESSION", fmt.Sprintf("UpdatePhone failed: %v", err))
		}
		return ErrPhoneUpdateFailed
	}

	user := updated.ToUser()
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// UpdateProfile merges the given fields into the local user only.
func (s *Store) UpdateProfile(update models.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	if update.Name != nil {
		s.user.Name = *update.Name
	}
	if update.BirthDate != nil {
		s.user.BirthDate = *update.BirthDate
	}
	if update.PhotoURL != nil {
		s.user.PhotoURL = *update.PhotoURL
	}
	return *s.user, nil
}

// RefreshUser is a no-op without a token. Request errors are swallowed.
func (s *Store) RefreshUser(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	me, err := s.api.Me(s.withToken(ctx))
	if err != nil || me == nil {
		return
	}
	user := me.ToUser()
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// RefreshTickets is a no-op without a token. Request errors are swallowed.
func (s *Store) RefreshTickets(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	list, err := s.api.MyTickets(s.withToken(ctx))
	if err != nil {
		s.logger.Debug("SESSION", fmt.Sprintf("Ticket refresh for %s failed: %v", s.id, err))
		return
	}

	tickets := make([]models.WalletTicket, 0, len(list))
	for _, t := range list {
		tickets = append(tickets, t.ToWalletTicket())
	}
	s.mu.Lock()
	s.tickets = tickets
	s.mu.Unlock()
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) Tickets() []models.WalletTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WalletTicket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
