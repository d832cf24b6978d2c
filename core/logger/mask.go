package logger

import "strings"

// maskedKeys hold applicant and admin secrets that never reach log sinks in clear.
var maskedKeys = map[string]func(string) string{
	"email":    maskEmail,
	"phone":    maskTail,
	"password": maskAll,
	"token":    maskAll,
	"name":     maskTail,
}

func maskSensitive(fields map[string]any) {
	for key, mask := range maskedKeys {
		if v, ok := fields[key].(string); ok && v != "" {
			fields[key] = mask(v)
		}
	}
}

func maskAll(string) string { return "***" }

// maskTail keeps the last two characters.
func maskTail(v string) string {
	r := []rune(v)
	if len(r) <= 2 {
		return "***"
	}
	return "***" + string(r[len(r)-2:])
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(v string) string {
	local, domain, ok := strings.Cut(v, "@")
	if !ok || local == "" {
		return "***"
	}
	return string([]rune(local)[0]) + "***@" + domain
}
