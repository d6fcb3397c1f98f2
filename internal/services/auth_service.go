package services

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	validate  *validator.Validate
	log       *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		validate:  validator.New(),
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterUser validates the request, hashes the password and stores a new
// customer. A taken email yields models.ErrDuplicate.
func (s *AuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := checkStruct(s.validate, req, msgInvalidData); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, &models.ValidationError{Message: "Las contraseñas no coinciden"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Phone:          req.Phone,
		Department:     req.Department,
		Province:       req.Province,
		District:       req.District,
		Address:        req.Address,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Role:           models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "register user")
	}
	return user, nil
}

// LoginUser checks the credentials and returns a signed token with the user.
// Unknown emails and wrong passwords both yield models.ErrInvalidCredentials.
func (s *AuthService) LoginUser(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	if err := checkStruct(s.validate, req, msgInvalidData); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, errors.Wrap(err, "login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"correo":  user.Email,
		"rol":     user.Role,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// EnsureAdmin creates the administrator account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return errors.Wrap(err, "look up admin")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	admin := &models.User{Name: "Administrador", Email: email, Password: string(hashed), Role: models.RoleAdmin}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return errors.Wrap(err, "create admin")
	}
	s.log.Info("Admin account created", zap.String("email", email))
	return nil
}
