package services

import (
	"crypto/rand"
	"errors"
	"time"

	"quiz-platform-backend/internal/models"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db             *gorm.DB
	jwtSecret      []byte
	googleClientID string
}

func NewAuthService(db *gorm.DB, jwtSecret, googleClientID string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret), googleClientID: googleClientID}
}

func (s *AuthService) Register(email, username, password string) (string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}

	return s.GenerateToken(user.ID)
}

func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return s.GenerateToken(user.ID)
}

// GoogleLogin verifies a Google ID token and exchanges it for a local JWT,
// provisioning an account on first sign-in.
func (s *AuthService) GoogleLogin(idToken string) (string, error) {
	verifier := googleAuthIDTokenVerifier.Verifier{}
	if err := verifier.VerifyIDToken(idToken, []string{s.googleClientID}); err != nil {
		return "", errors.New("invalid google token")
	}

	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", errors.New("invalid google token")
	}

	var user models.User
	if err := s.db.Where("email = ?", claims.Email).First(&user).Error; err == nil {
		return s.GenerateToken(user.ID)
	}

	// First sign-in: create the account with an unusable random password so
	// password login stays closed until the user sets one.
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword(random, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	username := claims.Name
	if username == "" {
		username = claims.Email
	}
	user = models.User{
		Email:        claims.Email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}

	return s.GenerateToken(user.ID)
}

func (s *AuthService) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid user_id in token")
	}

	return uint(userIDFloat), nil
}
