package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}

	// Headers: hỗ trợ UTF-8 & HTML
	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	err := smtp.SendMail(
		host+":587",
		smtp.PlainAuth("", from, pass, host),
		from,
		[]string{to},
		[]byte(msg),
	)
	if err != nil {
		return fmt.Errorf("gửi email thất bại: %v", err)
	}
	return nil
}

// ResetPasswordEmail dựng nội dung HTML cho mail đặt lại mật khẩu.
func ResetPasswordEmail(fullName, resetLink string) string {
	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:520px;margin:0 auto">
			<h2>Đặt lại mật khẩu</h2>
			<p>Chào %s,</p>
			<p>Bạn (hoặc ai đó) vừa yêu cầu đặt lại mật khẩu. Nhấn vào liên kết bên dưới để tiếp tục, liên kết có hiệu lực trong 15 phút:</p>
			<p><a href="%s">%s</a></p>
			<p>Nếu không phải bạn, hãy bỏ qua email này.</p>
		</div>`, fullName, resetLink, resetLink)
}
