package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/w2w/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtAlgorithm = jwt.SigningMethodHS256

// bcryptCost is a var so tests can lower it
var bcryptCost = 14

// TokenTTL is how long an operator token stays valid
const TokenTTL = 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator signs operator tokens and integration keys
type Authenticator struct {
	jwtSecret    []byte
	masterSecret []byte
}

// New creates an Authenticator from the JWT and API master secrets
func New(jwtSecret, masterSecret string) *Authenticator {
	return &Authenticator{
		jwtSecret:    []byte(jwtSecret),
		masterSecret: []byte(masterSecret),
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for an operator
func (a *Authenticator) CreateToken(username string) (string, error) {
	expirationTime := time.Now().Add(TokenTTL)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.jwtSecret)
}

// VerifyToken verifies a JWT token
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Login checks an operator's credentials and returns a signed token
func (a *Authenticator) Login(db *gorm.DB, username, password string) (string, error) {
	var op database.Operator
	if err := db.Where("username = ?", username).First(&op).Error; err != nil {
		return "", errors.New("invalid credentials")
	}
	if !CheckPasswordHash(password, op.PasswordHash) {
		return "", errors.New("invalid credentials")
	}
	return a.CreateToken(op.Username)
}

// EnsureAdminExists creates the default operator when none exist
func EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&database.Operator{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	op := database.Operator{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(&op).Error; err != nil {
		return false, err
	}
	return true, nil
}

// GenerateHMACKey creates a signed integration key using HMAC-SHA256
func (a *Authenticator) GenerateHMACKey(name string) string {
	return SignKey(a.masterSecret, name)
}

// SignKey returns name.signature for the given secret
func SignKey(secret []byte, name string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(name))
	return name + "." + hex.EncodeToString(h.Sum(nil))
}

// VerifyHMACKey validates an HMAC-signed key and returns its name
func (a *Authenticator) VerifyHMACKey(key string) (string, error) {
	idx := strings.LastIndex(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", errors.New("invalid key format")
	}
	name := key[:idx]

	// Use constant-time comparison to prevent timing attacks
	if !hmac.Equal([]byte(key), []byte(SignKey(a.masterSecret, name))) {
		return "", errors.New("invalid signature")
	}

	return name, nil
}

// KeyPreview shortens a key for display, e.g. "ops...9f3a"
func KeyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}
