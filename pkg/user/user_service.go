package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logger"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

// passwordFingerprint ties a reset token to the password hash it was issued
// for. Any password change, including the reset itself, voids the token.
func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, viewer domain.Viewer, id string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewer domain.Viewer, pagination domain.PaginationRequest) ([]domain.UserResponse, domain.Pagination, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		ConfirmResetPassword(ctx context.Context, req domain.ResetPasswordConfirmRequest) error
		Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, pagination domain.PaginationRequest, recipesLimit int) ([]domain.SubscriptionResponse, domain.Pagination, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		appURL         string
		log            *logger.Logger
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer, appURL string, log *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
		appURL:         strings.TrimRight(appURL, "/"),
		log:            log.With("service", "user"),
	}
}

// ToUserResponse is shared with the recipe package for embedded authors.
func ToUserResponse(user entities.User, subscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func parseUserID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrUserNotFound
	}
	return parsed, nil
}

func (s *userService) getUser(ctx context.Context, id string) (entities.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return entities.User{}, err
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domain.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	taken, err := s.userRepository.CheckUsernameExists(ctx, req.Username)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.RegisterUser(ctx, &user); err != nil {
		return domain.UserResponse{}, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return ToUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if token == "" {
		return domain.LoginResponse{}, domain.ErrTokenInvalid
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.jwtService.RevokeToken(ctx, token)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, false), nil
}

func (s *userService) isSubscribed(ctx context.Context, viewer domain.Viewer, authorID uuid.UUID) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	viewerID, err := uuid.Parse(viewer.UserID)
	if err != nil {
		return false, nil
	}
	return s.userRepository.IsFollowing(ctx, viewerID, authorID)
}

func (s *userService) GetUser(ctx context.Context, viewer domain.Viewer, id string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed, err := s.isSubscribed(ctx, viewer, user.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, subscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, viewer domain.Viewer, pagination domain.PaginationRequest) ([]domain.UserResponse, domain.Pagination, error) {
	users, total, err := s.userRepository.GetUsers(ctx, pagination)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	followed := map[uuid.UUID]bool{}
	if viewerID, err := uuid.Parse(viewer.UserID); err == nil {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		followed, err = s.userRepository.GetFollowedAuthorIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, ToUserResponse(u, followed[u.ID]))
	}
	return res, domain.NewPagination(pagination.Page, pagination.Limit, total), nil
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}

// ResetPassword mails a reset link. Unknown addresses succeed silently so
// the endpoint does not reveal which addresses have accounts.
func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"password": passwordFingerprint(user.Password),
	}, resetTokenTTL)
	if err != nil {
		return err
	}

	body := mailing.PasswordResetBody(s.appURL, user.Username, token)
	// logged only, same as an unknown address
	if err := s.mailer.SendMail(user.Email, "Foodgram password reset", body); err != nil {
		s.log.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *userService) ConfirmResetPassword(ctx context.Context, req domain.ResetPasswordConfirmRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return domain.ErrResetTokenInvalid
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	fingerprint, _ := claims["password"].(string)
	user, err := s.getUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	// a changed email invalidates links sent to the old address
	if user.Email != email {
		return domain.ErrResetTokenInvalid
	}
	if fingerprint == "" || fingerprint != passwordFingerprint(user.Password) {
		return domain.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	follower, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	if follower.ID == author.ID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscription
	}

	following, err := s.userRepository.IsFollowing(ctx, follower.ID, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if following {
		return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
	}

	if err := s.userRepository.CreateFollow(ctx, &entities.Follow{UserID: follower.ID, AuthorID: author.ID}); err != nil {
		if errors.Is(err, ErrDuplicateFollow) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	counts, err := s.userRepository.CountAuthorRecipes(ctx, []uuid.UUID{author.ID})
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return s.subscription(ctx, author, counts[author.ID], recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	follower, err := parseUserID(userID)
	if err != nil {
		return err
	}
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return err
	}

	deleted, err := s.userRepository.DeleteFollow(ctx, follower, author.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, pagination domain.PaginationRequest, recipesLimit int) ([]domain.SubscriptionResponse, domain.Pagination, error) {
	follower, err := parseUserID(userID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	authors, total, err := s.userRepository.GetSubscriptions(ctx, follower, pagination)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.userRepository.CountAuthorRecipes(ctx, ids)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		sub, err := s.subscription(ctx, author, counts[author.ID], recipesLimit)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		res = append(res, sub)
	}
	return res, domain.NewPagination(pagination.Page, pagination.Limit, total), nil
}

// subscription builds the author card; recipesLimit < 0 means no limit.
func (s *userService) subscription(ctx context.Context, author entities.User, count int64, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes := []domain.RecipeShort{}
	if recipesLimit != 0 {
		rows, err := s.userRepository.GetAuthorRecipes(ctx, author.ID, recipesLimit)
		if err != nil {
			return domain.SubscriptionResponse{}, err
		}
		for _, r := range rows {
			recipes = append(recipes, domain.RecipeShort{
				ID:          r.ID.String(),
				Name:        r.Name,
				ImageURL:    r.ImageURL,
				CookingTime: r.CookingTime,
			})
		}
	}

	return domain.SubscriptionResponse{
		UserResponse: ToUserResponse(author, true),
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
