package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/pkg/form"
	sessionpkg "github.com/blogicum/blogicum/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	cost int
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, cost: bcrypt.DefaultCost} }

// WithHashCost returns a copy hashing passwords with cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	return &Service{db: s.db, cost: cost}
}

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	return s.first("id = ?", id)
}

func (s *Service) GetByUsername(username string) (*models.UserModel, error) {
	return s.first("username = ?", username)
}

// Register creates an account. Usernames are unique ignoring case.
func (s *Service) Register(in RegisterInput) (*models.UserModel, error) {
	username := strings.TrimSpace(in.Username)
	if !form.IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	taken, err := s.usernameTaken(username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{
		Username: username,
		Email:    strings.TrimSpace(in.Email),
		Password: string(hash),
	}
	if err := s.db.Create(&u).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(username, password string) (*models.UserModel, error) {
	u, err := s.GetByUsername(strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a session, returning its signed token.
func (s *Service) Login(username, password, ip, ua string, ttl time.Duration) (string, *models.UserModel, error) {
	u, err := s.Authenticate(username, password)
	if err != nil {
		return "", nil, err
	}
	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, ttl)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout revokes one session. Unknown sessions are ignored.
func (s *Service) Logout(userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return nil
	}
	err := sessionpkg.Revoke(s.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// UpdateProfile rewrites the editable profile fields of user id.
func (s *Service) UpdateProfile(id string, in ProfileInput) (*models.UserModel, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if !form.IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	taken, err := s.usernameTaken(username, u.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	updates := map[string]interface{}{
		"first_name": strings.TrimSpace(in.FirstName),
		"last_name":  strings.TrimSpace(in.LastName),
		"username":   username,
		"email":      strings.TrimSpace(in.Email),
	}
	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

// ChangePassword swaps the password and signs out every other session.
func (s *Service) ChangePassword(id, keepSessionID, oldPwd, newPwd string) error {
	var u models.UserModel
	if err := s.db.Select("id, password").First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPwd)); err != nil {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(newPwd)); err == nil {
		return ErrPasswordSameAsOld
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), s.cost)
	if err != nil {
		return err
	}
	if err := s.db.Model(&u).Update("password", string(hash)).Error; err != nil {
		return err
	}
	return sessionpkg.RevokeAllExcept(s.db, u.ID, keepSessionID)
}

func (s *Service) first(query string, args ...interface{}) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) usernameTaken(username, exceptID string) (bool, error) {
	tx := s.db.Model(&models.UserModel{}).Where("LOWER(username) = ?", strings.ToLower(username))
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
