package service

import (
	"context"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apperr"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*dto.OperatorResponse, error)
	ListOperators(ctx context.Context) ([]dto.OperatorResponse, error)
}

type authService struct {
	repo repository.OperatorRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.OperatorRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.Validation("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Validation("invalid credentials")
	}

	return s.tokenPair(op)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Validation("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Validation("malformed token")
	}
	operatorIDStr, ok := claims["operator_id"].(string)
	if !ok {
		return nil, apperr.Validation("malformed token")
	}
	oid, err := uuid.Parse(operatorIDStr)
	if err != nil {
		return nil, apperr.Validation("malformed token")
	}

	op, err := s.repo.FindByID(ctx, oid)
	if err != nil || !op.Active {
		return nil, apperr.NotFound("operator not found or inactive")
	}

	return s.tokenPair(op)
}

func (s *authService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	op := &model.Operator{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, apperr.Persistence(err, "could not create operator")
	}
	resp := operatorToResponse(op)
	return &resp, nil
}

func (s *authService) ListOperators(ctx context.Context) ([]dto.OperatorResponse, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "could not list operators")
	}
	resp := make([]dto.OperatorResponse, len(ops))
	for i := range ops {
		resp[i] = operatorToResponse(&ops[i])
	}
	return resp, nil
}

func (s *authService) tokenPair(op *model.Operator) (*dto.LoginResponse, error) {
	access, err := s.generateToken(op, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(op, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         operatorToResponse(op),
	}, nil
}

func (s *authService) generateToken(op *model.Operator, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"operator_id": op.ID.String(),
		"username":    op.Username,
		"role":        op.Role,
		"exp":         time.Now().Add(duration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func operatorToResponse(op *model.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:          op.ID.String(),
		Username:    op.Username,
		DisplayName: op.DisplayName,
		Email:       op.Email,
		Role:        op.Role,
		Active:      op.Active,
	}
}
