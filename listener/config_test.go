package listener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("sets defaults when empty", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}

		assert.True(t, cfg.SetDefaults())
		assert.Equal(t, DefaultAddress, cfg.Address)
		assert.Equal(t, DefaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
	})

	t.Run("does not override existing values", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Address: ":9090", ReadHeaderTimeout: time.Second}

		assert.False(t, cfg.SetDefaults())
		assert.Equal(t, ":9090", cfg.Address)
		assert.Equal(t, time.Second, cfg.ReadHeaderTimeout)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		cfg  Config
		err  error
	}{
		{name: "valid config", cfg: Config{Address: ":8080"}},
		{name: "empty address", cfg: Config{}, err: ErrEmptyAddress},
		{name: "negative timeout", cfg: Config{Address: ":8080", ReadHeaderTimeout: -time.Second}, err: ErrNegativeTimeout},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.cfg.Validate()
			if testCase.err == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, testCase.err)
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	var cfg Config

	WithAddress("127.0.0.1:0")(&cfg)
	WithReadHeaderTimeout(3 * time.Second)(&cfg)

	assert.Equal(t, Config{Address: "127.0.0.1:0", ReadHeaderTimeout: 3 * time.Second}, cfg)
}
