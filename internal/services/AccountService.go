package services

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"strings"
	"sync"
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password required")
)

type AccountServiceInterface interface {
	SignUpUser(name, email, password string) (models.Account, error)
	SignUpCoach(name, email, password string) (models.CoachAccount, error)
	Authenticate(email, password string) (models.Session, error)
	GetUser(id string) (models.Account, bool)
	GetCoachAccount(id string) (models.CoachAccount, bool)
	LinkCoachProfile(accountID, profileID string) (bool, error)
}

// AccountService keeps reviewer and coach accounts in two separate slots.
// Email uniqueness is checked per slot at signup only.
type AccountService struct {
	users         *storage.Collection[[]models.Account]
	coachAccounts *storage.Collection[[]models.CoachAccount]
	logger        providers.Logger
	hashCost      int
	opsMu         sync.Mutex
}

func NewAccountService(kv storage.KeyValueStorage, logger providers.Logger) AccountServiceInterface {
	return NewAccountServiceWithCost(kv, logger, bcrypt.DefaultCost)
}

func NewAccountServiceWithCost(kv storage.KeyValueStorage, logger providers.Logger, cost int) *AccountService {
	return &AccountService{
		users: storage.NewCollection(kv, UsersKey, func() []models.Account {
			return []models.Account{}
		}, logger),
		coachAccounts: storage.NewCollection(kv, CoachAccountsKey, func() []models.CoachAccount {
			return []models.CoachAccount{}
		}, logger),
		logger:   logger,
		hashCost: cost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *AccountService) newAccount(prefix, name, email, password string) (models.Account, error) {
	if email == "" || password == "" {
		return models.Account{}, ErrMissingCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), as.hashCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}
	return models.Account{
		ID:       prefix + uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
	}, nil
}

func (as *AccountService) SignUpUser(name, email, password string) (models.Account, error) {
	as.opsMu.Lock()
	defer as.opsMu.Unlock()

	email = normalizeEmail(email)
	users := as.users.Load()
	for _, u := range users {
		if u.Email == email {
			return models.Account{}, ErrEmailTaken
		}
	}

	account, err := as.newAccount("u-", name, email, password)
	if err != nil {
		return models.Account{}, err
	}
	users = append(users, account)
	if err := as.users.Save(users); err != nil {
		return models.Account{}, err
	}
	as.logger.Infof(providers.TypeAuth, "User account %s created", account.ID)
	return account, nil
}

// SignUpCoach creates a coach account without a linked profile; the holder
// creates or claims one afterwards.
func (as *AccountService) SignUpCoach(name, email, password string) (models.CoachAccount, error) {
	as.opsMu.Lock()
	defer as.opsMu.Unlock()

	email = normalizeEmail(email)
	coaches := as.coachAccounts.Load()
	for _, c := range coaches {
		if c.Email == email {
			return models.CoachAccount{}, ErrEmailTaken
		}
	}

	account, err := as.newAccount("ca-", name, email, password)
	if err != nil {
		return models.CoachAccount{}, err
	}
	coachAccount := models.CoachAccount{Account: account}
	coaches = append(coaches, coachAccount)
	if err := as.coachAccounts.Save(coaches); err != nil {
		return models.CoachAccount{}, err
	}
	as.logger.Infof(providers.TypeAuth, "Coach account %s created", account.ID)
	return coachAccount, nil
}

// Authenticate checks reviewer accounts first, then coach accounts, and
// returns a session snapshot for the match.
func (as *AccountService) Authenticate(email, password string) (models.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.Session{}, ErrMissingCredentials
	}

	as.opsMu.Lock()
	users := as.users.Load()
	coaches := as.coachAccounts.Load()
	as.opsMu.Unlock()

	for _, u := range users {
		if u.Email == email && passwordMatches(u.Password, password) {
			return UserSession(u), nil
		}
	}
	for _, c := range coaches {
		if c.Email == email && passwordMatches(c.Password, password) {
			return CoachSession(c), nil
		}
	}
	as.logger.Warnf(providers.TypeAuth, "Failed login for %s", email)
	return models.Session{}, ErrInvalidCredentials
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (as *AccountService) GetUser(id string) (models.Account, bool) {
	as.opsMu.Lock()
	defer as.opsMu.Unlock()
	for _, u := range as.users.Load() {
		if u.ID == id {
			return u, true
		}
	}
	return models.Account{}, false
}

func (as *AccountService) GetCoachAccount(id string) (models.CoachAccount, bool) {
	as.opsMu.Lock()
	defer as.opsMu.Unlock()
	for _, c := range as.coachAccounts.Load() {
		if c.ID == id {
			return c, true
		}
	}
	return models.CoachAccount{}, false
}

// LinkCoachProfile points a coach account at its profile. An empty
// profileID unlinks it.
func (as *AccountService) LinkCoachProfile(accountID, profileID string) (bool, error) {
	as.opsMu.Lock()
	defer as.opsMu.Unlock()

	coaches := as.coachAccounts.Load()
	for i := range coaches {
		if coaches[i].ID != accountID {
			continue
		}
		if profileID == "" {
			coaches[i].LinkedCoachProfileID = nil
		} else {
			id := profileID
			coaches[i].LinkedCoachProfileID = &id
		}
		if err := as.coachAccounts.Save(coaches); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func UserSession(u models.Account) models.Session {
	snapshot := u.WithoutPassword()
	return models.Session{LoggedIn: true, Role: models.RoleUser, User: &snapshot}
}

func CoachSession(c models.CoachAccount) models.Session {
	snapshot := c.WithoutPassword()
	return models.Session{LoggedIn: true, Role: models.RoleCoach, Coach: &snapshot}
}
