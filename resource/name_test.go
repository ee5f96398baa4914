package resource

import "testing"

func TestNames(t *testing.T) {
	tests := []struct {
		name           string
		constName, fn  string
		pkgName, param string
	}{
		{"invalid_credentials", "INVALID_CREDENTIALS", "InvalidCredentials", "invalid_credentials", "invalid_credentials"},
		{"welcome", "WELCOME", "Welcome", "welcome", "welcome"},
		{"max-retries", "MAX_RETRIES", "MaxRetries", "max_retries", "max-retries"},
		{"Auth", "AUTH", "Auth", "auth", "Auth"},
		{"type", "TYPE", "Type", "type_", "type_"},
		{"func", "FUNC", "Func", "func_", "func_"},
		{"strconv", "STRCONV", "Strconv", "strconv", "strconv_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstName(tt.name); got != tt.constName {
				t.Errorf("ConstName(%q) = %q, want %q", tt.name, got, tt.constName)
			}

			if got := FuncName(tt.name); got != tt.fn {
				t.Errorf("FuncName(%q) = %q, want %q", tt.name, got, tt.fn)
			}

			if got := PackageName(tt.name); got != tt.pkgName {
				t.Errorf("PackageName(%q) = %q, want %q", tt.name, got, tt.pkgName)
			}

			if got := paramName(tt.name); got != tt.param {
				t.Errorf("paramName(%q) = %q, want %q", tt.name, got, tt.param)
			}
		})
	}

	if got := PackageName("2fa"); got != "r2fa" {
		t.Errorf("PackageName(2fa) = %q", got)
	}

	if got := ConstName("2fa"); got[0] != 'R' {
		t.Errorf("ConstName(2fa) = %q, want a letter prefix", got)
	}

	if got := PackageName("--"); got != "r" {
		t.Errorf("PackageName(--) = %q", got)
	}

	if got := aliasName("auth/errors/invalid_credentials", false); got != "AUTH_ERRORS_INVALID_CREDENTIALS" {
		t.Errorf("aliasName const = %q", got)
	}

	if got := aliasName("auth/welcome_message", true); got != "AuthWelcomeMessage" {
		t.Errorf("aliasName func = %q", got)
	}
}
