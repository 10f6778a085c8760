package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeepLinkStripsFormatting(t *testing.T) {
	link, err := DeepLink("+49 (170) 123-4567", "")
	require.NoError(t, err)
	require.Equal(t, "https://wa.me/491701234567", link)
}

func TestDeepLinkEscapesMessage(t *testing.T) {
	link, err := DeepLink("491701234567", "Your post is ready & waiting")
	require.NoError(t, err)
	require.Equal(t, "https://wa.me/491701234567?text=Your+post+is+ready+%26+waiting", link)
}

func TestDeepLinkRejectsEmptyNumber(t *testing.T) {
	_, err := DeepLink("+- ()", "hello")
	require.Error(t, err)
}
