package service

import (
	"ViewTube/internal/apperr"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Login 校验通过后返回JWT和用户
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GetByID(ctx context.Context, userID uint64) (*model.User, error)
	Update(ctx context.Context, userID uint64, updates UserUpdate) (*model.User, error)
}

// UserUpdate 个人资料的部分更新，nil字段表示不改
type UserUpdate struct {
	Username           *string
	Email              *string
	Password           *string
	ChannelDescription *string
	Avatar             *string
	Cover              *string
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register 注册：1、检查用户名和邮箱是否被占用 2、bcrypt加密密码 3、入库。
// 并发注册同名用户时预检查可能都通过，最终由唯一索引兜底，1062映射成Conflict。
func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("用户名已存在")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("注册失败", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("邮箱已被注册")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("注册失败", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("注册失败", err)
	}

	newUser := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, apperr.Conflict("用户名或邮箱已存在")
		}
		return nil, apperr.Internal("注册失败", err)
	}
	return newUser, nil
}

// Login 登录：1、按邮箱找用户 2、bcrypt比对密码 3、签发JWT。
// 找不到用户和密码错误返回同一个模糊提示，避免泄露账号是否存在。
func (s *userService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Invalid("邮箱或密码错误")
		}
		return "", nil, apperr.Internal("登录失败", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Invalid("邮箱或密码错误")
	}

	// Payload不加密，绝不能把密码放进claims
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET_KEY")))
	if err != nil {
		return "", nil, apperr.Internal("登录失败", err)
	}
	return tokenString, user, nil
}

func (s *userService) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromStorage(err, "用户不存在", "")
	}
	return user, nil
}

// Update 更新个人资料，改用户名/邮箱时同样要做占用检查
func (s *userService) Update(ctx context.Context, userID uint64, updates UserUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromStorage(err, "用户不存在", "")
	}

	if updates.Username != nil && *updates.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(ctx, *updates.Username); err == nil {
			return nil, apperr.Conflict("用户名已存在")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal("更新失败", err)
		}
		user.Username = *updates.Username
	}
	if updates.Email != nil && *updates.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, *updates.Email); err == nil {
			return nil, apperr.Conflict("邮箱已被注册")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal("更新失败", err)
		}
		user.Email = *updates.Email
	}
	if updates.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal("更新失败", err)
		}
		user.Password = string(hashedPassword)
	}
	if updates.ChannelDescription != nil {
		user.ChannelDescription = *updates.ChannelDescription
	}
	if updates.Avatar != nil {
		user.Avatar = *updates.Avatar
	}
	if updates.Cover != nil {
		user.Cover = *updates.Cover
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, apperr.Conflict("用户名或邮箱已存在")
		}
		return nil, apperr.Internal("更新失败", err)
	}
	return user, nil
}
