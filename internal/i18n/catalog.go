package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var catalogs = map[language.Tag]map[string]string{
	language.Korean: {
		"reason.email_not_found":     "등록되지 않은 이메일입니다.",
		"reason.wrong_password":      "비밀번호가 올바르지 않습니다.",
		"reason.invalid_credentials": "이메일 또는 비밀번호가 올바르지 않습니다.",
		"reason.too_many_attempts":   "너무 많은 로그인 시도가 있었습니다. 잠시 후 다시 시도해주세요.",
		"reason.invalid_email":       "유효하지 않은 이메일 형식입니다.",
		"reason.account_disabled":    "비활성화된 계정입니다.",
		"reason.sign_in_failed":      "로그인에 실패했습니다.",
		"reason.email_in_use":        "이미 사용 중인 이메일입니다.",
		"reason.weak_password":       "비밀번호는 최소 6자 이상이어야 합니다.",
		"reason.sign_up_failed":      "회원가입에 실패했습니다.",
		"reason.server_error":        "서버 오류가 발생했습니다.",

		"page.login.title":        "로그인",
		"page.signup.title":       "회원가입",
		"page.dashboard.title":    "대시보드",
		"page.dashboard.greeting": "안녕하세요, %s님!",
		"page.dashboard.logout":   "로그아웃",
		"page.dashboard.heading":  "로그인 성공!",
		"page.dashboard.body":     "인증이 성공적으로 연동되었습니다.",
		"form.email":              "이메일",
		"form.password":           "비밀번호",
		"form.submit.login":       "로그인",
		"form.submit.signup":      "가입하기",
		"link.to_signup":          "계정이 없으신가요? 회원가입",
		"link.to_login":           "이미 계정이 있으신가요? 로그인",
		"form.required":           "이메일과 비밀번호를 입력해주세요.",
	},
	language.English: {
		"reason.email_not_found":     "This email is not registered.",
		"reason.wrong_password":      "The password is incorrect.",
		"reason.invalid_credentials": "The email or password is incorrect.",
		"reason.too_many_attempts":   "Too many sign-in attempts. Please try again later.",
		"reason.invalid_email":       "The email address is not valid.",
		"reason.account_disabled":    "This account has been disabled.",
		"reason.sign_in_failed":      "Sign in failed.",
		"reason.email_in_use":        "This email is already in use.",
		"reason.weak_password":       "The password must be at least 6 characters.",
		"reason.sign_up_failed":      "Sign up failed.",
		"reason.server_error":        "A server error occurred.",

		"page.login.title":        "Sign in",
		"page.signup.title":       "Sign up",
		"page.dashboard.title":    "Dashboard",
		"page.dashboard.greeting": "Hello, %s!",
		"page.dashboard.logout":   "Sign out",
		"page.dashboard.heading":  "Signed in!",
		"page.dashboard.body":     "Authentication is connected.",
		"form.email":              "Email",
		"form.password":           "Password",
		"form.submit.login":       "Sign in",
		"form.submit.signup":      "Create account",
		"link.to_signup":          "No account yet? Sign up",
		"link.to_login":           "Already have an account? Sign in",
		"form.required":           "Email and password are required.",
	},
}

func init() {
	for tag, messages := range catalogs {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic("i18n: register " + key + ": " + err.Error())
			}
		}
	}
}
