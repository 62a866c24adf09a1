package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Setenv("LRUKV_TEST_STR", "value")
	require.Equal(t, "value", String("LRUKV_TEST_STR", "fallback"))
	require.Equal(t, "fallback", String("LRUKV_TEST_UNSET", "fallback"))

	t.Setenv("LRUKV_TEST_EMPTY", "")
	require.Equal(t, "", String("LRUKV_TEST_EMPTY", "fallback"))
}

func TestInt(t *testing.T) {
	t.Setenv("LRUKV_TEST_INT", "42")
	require.Equal(t, 42, Int("LRUKV_TEST_INT", 1))

	t.Setenv("LRUKV_TEST_INT", "nope")
	require.Equal(t, 1, Int("LRUKV_TEST_INT", 1))

	_, ok, err := LookupInt("LRUKV_TEST_INT")
	require.True(t, ok)
	require.Error(t, err)

	_, ok, err = LookupInt("LRUKV_TEST_UNSET")
	require.False(t, ok)
	require.NoError(t, err)
}

func TestBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes"} {
		t.Setenv("LRUKV_TEST_BOOL", v)
		require.True(t, Bool("LRUKV_TEST_BOOL", false), v)
	}
	for _, v := range []string{"0", "false", "off"} {
		t.Setenv("LRUKV_TEST_BOOL", v)
		require.False(t, Bool("LRUKV_TEST_BOOL", true), v)
	}
	t.Setenv("LRUKV_TEST_BOOL", "maybe")
	require.True(t, Bool("LRUKV_TEST_BOOL", true))
}

func TestDuration(t *testing.T) {
	t.Setenv("LRUKV_TEST_DUR", "3")
	require.Equal(t, 3*time.Second, Duration("LRUKV_TEST_DUR", 0))

	t.Setenv("LRUKV_TEST_DUR", "250ms")
	require.Equal(t, 250*time.Millisecond, Duration("LRUKV_TEST_DUR", 0))

	t.Setenv("LRUKV_TEST_DUR", "soon")
	require.Equal(t, time.Minute, Duration("LRUKV_TEST_DUR", time.Minute))
}
