package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/domain/repository"
	"autopost/infrastructure/configuration"
	"autopost/infrastructure/logger"
)

type IUserUsecase interface {
	Login(ctx context.Context, req dto.ReqLogin) dto.ResLogin
	Register(ctx context.Context, req dto.ReqRegister) dto.Res
}

const tokenLifetime = 24 * time.Hour

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Login(ctx context.Context, req dto.ReqLogin) dto.ResLogin {
	var res dto.ResLogin
	res.ResponseCode = "401"
	res.ResponseMessage = "Invalid username or password"

	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching user")
		return res
	}

	hashed := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if user.Password != hashed {
		return res
	}

	claims := model.UserClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    strconv.FormatInt(user.ID, 10),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
		UserName: user.UserName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configuration.C.App.SecretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while signing token")
		res.ResponseCode = "500"
		res.ResponseMessage = "General error"
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	res.AccessToken = signed
	return res
}

func (u *userUsecase) Register(ctx context.Context, req dto.ReqRegister) dto.Res {
	var res dto.Res
	res.ResponseCode = "00"
	res.ResponseMessage = "Success"

	existing, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err == nil && existing.ID != 0 {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already taken"
		return res
	}

	user := model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: req.Password,
	}
	if err := u.userRepo.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		res.ResponseCode = "500"
		res.ResponseMessage = "General error"
		return res
	}
	return res
}
