package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

const resetPasswordLinkTTL = 15 * time.Minute

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=student instructor"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ResetPasswordLinkInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	// Check email tồn tại
	var existing models.User
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.SendError(c, utils.NewInvalidOperation("Email đã được sử dụng"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	role := models.RoleStudent
	if input.Role == string(models.RoleInstructor) {
		role = models.RoleInstructor
	}

	newUser := models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(&newUser).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Đăng ký thành công", gin.H{
		"id":        newUser.ID,
		"full_name": newUser.FullName,
		"email":     newUser.Email,
		"role":      newUser.Role,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Email hoặc mật khẩu không đúng"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.SendError(c, utils.NewNotFound("Email hoặc mật khẩu không đúng"))
		return
	}

	accessToken, refreshToken, err := issueTokens(&user)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Đăng nhập thành công", gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
			"profile":   user.Profile,
		},
	})
}

func RefreshToken(c *gin.Context) {
	var input RefreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	claims, err := utils.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		utils.SendError(c, utils.NewUnauthorized("Refresh token không hợp lệ hoặc hết hạn"))
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy người dùng"))
		return
	}
	if user.RefreshToken != input.RefreshToken {
		utils.SendError(c, utils.NewUnauthorized("Refresh token đã bị thu hồi"))
		return
	}

	accessToken, refreshToken, err := issueTokens(&user)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Làm mới token thành công", gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Không tìm thấy thông tin người dùng"))
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token", "").Error; err != nil {
		utils.SendError(c, err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "Đăng xuất thành công", nil)
}

// ResetPasswordLink gửi link đặt lại mật khẩu qua email. Luôn trả về thành
// công để không lộ email nào tồn tại trong hệ thống.
func ResetPasswordLink(c *gin.Context) {
	var input ResetPasswordLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err == nil {
		token := uuid.NewString()
		user.ResetToken = token
		user.ResetTokenExp = time.Now().Add(resetPasswordLinkTTL).UnixMilli()
		if err := db.Save(&user).Error; err != nil {
			utils.SendError(c, err)
			return
		}

		resetLink := fmt.Sprintf("%s/password-reset/%s", os.Getenv("FRONTEND_URL"), token)
		body := utils.ResetPasswordEmail(user.FullName, resetLink)
		if err := utils.SendEmail(user.Email, "Đặt lại mật khẩu", body); err != nil {
			log.Println("Không gửi được email đặt lại mật khẩu:", err)
		}
	}

	utils.SendResponse(c, http.StatusOK, "Nếu email tồn tại, link đặt lại mật khẩu đã được gửi", nil)
}

func ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	var user models.User
	if err := db.Where("reset_token = ?", input.Token).First(&user).Error; err != nil {
		utils.SendError(c, utils.NewInvalidOperation("Link đặt lại mật khẩu không hợp lệ"))
		return
	}
	if user.ResetTokenExp < time.Now().UnixMilli() {
		utils.SendError(c, utils.NewInvalidOperation("Link đặt lại mật khẩu đã hết hạn"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	err = db.Model(&user).Updates(map[string]interface{}{
		"password":        string(hashed),
		"reset_token":     "",
		"reset_token_exp": 0,
		"refresh_token":   "", // đăng xuất mọi phiên cũ
	}).Error
	if err != nil {
		utils.SendError(c, err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "Đặt lại mật khẩu thành công", nil)
}

func issueTokens(user *models.User) (string, string, error) {
	accessToken, err := utils.GenerateToken(user.ID.String(), user.Email, user.FullName, string(user.Role))
	if err != nil {
		return "", "", err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.String(), user.Email, user.FullName, string(user.Role))
	if err != nil {
		return "", "", err
	}

	err = db.Model(&models.User{}).Where("id = ?", user.ID).Update("refresh_token", refreshToken).Error
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
