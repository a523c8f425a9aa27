package i18n

import (
	"testing"
)

func TestLang(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	if got := l.Get("en", ERROR_QUOTA_EXCEEDED); got == ERROR_QUOTA_EXCEEDED {
		t.Fatalf("expected localized message for %s, got raw id", ERROR_QUOTA_EXCEEDED)
	}

	// unknown ids fall back to the id itself
	if got := l.Get("en", "error.not.a.real.key"); got != "error.not.a.real.key" {
		t.Fatalf("unexpected fallback: %s", got)
	}
}
