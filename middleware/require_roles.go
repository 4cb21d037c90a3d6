package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/megan-fernandes/edulearn-server/models"
)

// RequireRoles chặn route theo vai trò: chỉ các UserRole được liệt kê mới
// được đi tiếp. Kiểm tra quyền sở hữu chi tiết hơn (giảng viên chỉ sửa khóa
// của mình...) nằm trong services.
func RequireRoles(allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Không xác định được vai trò người dùng"})
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi xử lý vai trò người dùng"})
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if models.UserRole(role) == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "Bạn không có quyền truy cập tài nguyên này",
		})
		c.Abort()
	}
}
