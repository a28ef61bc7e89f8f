package languages

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeForName(t *testing.T) {
	code, ok := CodeForName("English")
	require.True(t, ok)
	require.Equal(t, "en-us", code)

	code, ok = CodeForName(" Español ")
	require.True(t, ok)
	require.Equal(t, "es-es", code)

	_, ok = CodeForName("Klingon")
	require.False(t, ok)
}

func TestCodesForNames(t *testing.T) {
	codes := CodesForNames([]string{"Klingon", "English", "日本語"})
	require.Equal(t, []string{"en-us", "ja"}, codes)

	require.Nil(t, CodesForNames(nil))
}
