package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/internal/config"
	"moontech/models"
	"moontech/utility"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	UserId  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"admin"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type Auth struct {
	database internal.Database
	logger   internal.LogHandler
	secret   []byte
	expire   time.Duration
}

func NewAuth(conf *config.Config) (*Auth, error) {
	if conf.Jwt.Secret == "" {
		return nil, utility.Err("missed Secret parameter in Jwt configuration")
	}
	expire := time.Duration(conf.Jwt.ExpireHours) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &Auth{
		secret: []byte(conf.Jwt.Secret),
		expire: expire,
	}, nil
}

func (a *Auth) SetDatabase(database internal.Database) {
	a.database = database
}

func (a *Auth) SetLogger(logger internal.LogHandler) {
	a.logger = logger
}

func (a *Auth) Register(req *RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}
	existedUser, _ := a.database.GetUser(req.Email)
	if existedUser != nil {
		return nil, fmt.Errorf("%w: email %s", ErrDuplicate, req.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		UserId:         utility.NewUUID(),
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hash),
		Phone:          req.Phone,
		DateRegistered: time.Now().UTC(),
	}
	if err = a.database.AddUser(user); err != nil {
		return nil, err
	}
	a.logger.FeatureEvent("Register", user.UserId, fmt.Sprintf("registered user %s", user.Email))
	return user, nil
}

func (a *Auth) Login(email, password string) (string, error) {
	user, err := a.database.GetUser(email)
	if err != nil || user == nil {
		return "", ErrUnauthorized
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}
	now := time.Now()
	claims := Claims{
		UserId:  user.UserId,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}
	user.LastSeen = now.UTC()
	if err = a.database.UpdateUser(user); err != nil {
		a.logger.Warn(fmt.Sprintf("update last seen for %s: %s", user.UserId, err))
	}
	a.logger.FeatureEvent("Login", user.UserId, fmt.Sprintf("user %s logged in", user.Email))
	return signed, nil
}

// VerifyToken parses and validates a bearer token and returns its claims.
func (a *Auth) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
