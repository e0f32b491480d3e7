package helpers

import (
	"fmt"
	"time"
)

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Письмо сгенерировано автоматически. Не отвечайте на него.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, title, body)
}

// BuildPasswordResetHTML — письмо со ссылкой сброса пароля админа.
func BuildPasswordResetHTML(username, resetLink string, expires time.Time) string {
	body := fmt.Sprintf(`
      <p style="font-size:16px;color:#222;margin:0 0 16px 0;">Здравствуйте, <strong>%s</strong>!</p>
      <p>Поступил запрос на сброс пароля вашей учётной записи.</p>
      <p><a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:6px;font-weight:600;">Сбросить пароль</a></p>
      <p style="font-size:12px;color:#999;margin-top:16px;">Ссылка действует до %s. Если кнопка не работает — скопируйте ссылку: %s</p>
      <p style="font-size:12px;color:#999;">Если вы не запрашивали сброс — просто проигнорируйте это письмо.</p>
    `, username, resetLink, expires.Format("02.01.2006 15:04"), resetLink)
	return BuildSimpleHTML("Сброс пароля", body)
}

// BuildDonationReceiptHTML — квитанция донору; PDF-счёт уходит вложением.
func BuildDonationReceiptHTML(name string, amount float64, provider string, createdAt time.Time) string {
	providerLine := ""
	if provider != "" {
		providerLine = fmt.Sprintf(`<p style="font-size:14px;color:#333;">Способ оплаты: %s</p>`, provider)
	}
	body := fmt.Sprintf(`
      <p style="font-size:16px;color:#222;margin:0 0 16px 0;">Здравствуйте, <strong>%s</strong>!</p>
      <p>Спасибо за ваше пожертвование на сумму <strong>INR %.2f</strong> от %s.</p>
      %s
      <p style="font-size:14px;color:#333;">Квитанция приложена к письму. После подтверждения оплаты пожертвование будет отмечено как верифицированное.</p>
    `, name, amount, createdAt.Format("02.01.2006 15:04"), providerLine)
	return BuildSimpleHTML("Квитанция о пожертвовании", body)
}

// BuildContactHTML — письмо с сообщением из публичной контактной формы.
func BuildContactHTML(name, email, message string) string {
	body := fmt.Sprintf(`
      <p style="font-size:16px;color:#222;margin:0 0 16px 0;"><strong>%s</strong> (%s) написал(а):</p>
      <p style="font-size:15px;color:#333;white-space:pre-wrap;">%s</p>
    `, name, email, message)
	return BuildSimpleHTML("Сообщение с сайта", body)
}
